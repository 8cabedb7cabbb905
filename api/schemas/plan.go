package schemas

import (
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// ToolName identifies one of the fixed action handlers in the tool registry.
type ToolName string

const (
	ToolFillText     ToolName = "fill_text"
	ToolUploadFile   ToolName = "upload_file"
	ToolSelectOption ToolName = "select_option"
	ToolToggleCheck  ToolName = "toggle_check"
	ToolSelectRadio  ToolName = "select_radio"
)

// FillTextArgs carries the value to type into a text control.
type FillTextArgs struct {
	Value string
}

// UploadFileArgs names which profile document to inject: "cv" or "cover_letter".
type UploadFileArgs struct {
	FileType string
}

// SelectOptionArgs carries the option value or visible text to select.
type SelectOptionArgs struct {
	Value string
}

// ToggleCheckArgs carries the desired checkbox state.
type ToggleCheckArgs struct {
	Checked bool
}

// SelectRadioArgs has no arguments; selecting a radio is selector-driven.
type SelectRadioArgs struct{}

// PlanStep is one action of an externally produced plan. The plan is
// untrusted input: steps are validated at ingestion time and an unknown tool
// or malformed arguments degrade the step to an invalid (skipped) one, never
// an error. Exactly one of the argument variants is non-nil for a valid step.
type PlanStep struct {
	Selector string
	Tool     ToolName

	FillText     *FillTextArgs
	UploadFile   *UploadFileArgs
	SelectOption *SelectOptionArgs
	ToggleCheck  *ToggleCheckArgs
	SelectRadio  *SelectRadioArgs

	// Invalid is non-empty when ingestion rejected the step; the executor
	// skips such steps without counting them.
	Invalid string
}

// Valid reports whether the step passed ingestion validation.
func (s PlanStep) Valid() bool { return s.Invalid == "" }

// Plan is an ordered list of validated steps plus any planner warnings
// (fields deliberately left unfilled for lack of data).
type Plan struct {
	Steps    []PlanStep `json:"plan"`
	Warnings []string   `json:"warnings,omitempty"`
}

var planJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// wireStep is the loose over-the-wire shape of a plan step. The planner
// prompt historically named the tool field "function"; both spellings are
// accepted.
type wireStep struct {
	Selector string                 `json:"selector"`
	ToolName string                 `json:"tool_name"`
	Function string                 `json:"function"`
	Args     map[string]interface{} `json:"args"`
}

// wirePlan mirrors the planner's JSON response envelope.
type wirePlan struct {
	Plan     []wireStep `json:"plan"`
	Warnings []string   `json:"warnings"`
}

// DecodePlan parses and validates an action plan from untrusted JSON. The
// input may be either a bare step array or a {plan, warnings} envelope. A
// malformed document yields an empty plan; per-step problems degrade the
// affected step only.
func DecodePlan(raw []byte) *Plan {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return &Plan{}
	}

	var wp wirePlan
	if strings.HasPrefix(trimmed, "[") {
		if err := planJSON.Unmarshal(raw, &wp.Plan); err != nil {
			return &Plan{}
		}
	} else if err := planJSON.Unmarshal(raw, &wp); err != nil {
		return &Plan{}
	}

	plan := &Plan{Warnings: wp.Warnings}
	for _, ws := range wp.Plan {
		plan.Steps = append(plan.Steps, validateStep(ws))
	}
	return plan
}

// validateStep turns a loose wire step into a typed PlanStep variant.
func validateStep(ws wireStep) PlanStep {
	step := PlanStep{Selector: strings.TrimSpace(ws.Selector)}

	name := ws.ToolName
	if name == "" {
		name = ws.Function
	}
	step.Tool = ToolName(name)

	if step.Selector == "" {
		step.Invalid = "empty selector"
		return step
	}

	switch step.Tool {
	case ToolFillText:
		v, ok := stringArg(ws.Args, "value")
		if !ok {
			step.Invalid = "fill_text requires args.value"
			return step
		}
		step.FillText = &FillTextArgs{Value: v}
	case ToolUploadFile:
		ft, ok := stringArg(ws.Args, "file_type")
		if !ok || (ft != "cv" && ft != "cover_letter") {
			step.Invalid = fmt.Sprintf("upload_file requires args.file_type of cv or cover_letter, got %q", ft)
			return step
		}
		step.UploadFile = &UploadFileArgs{FileType: ft}
	case ToolSelectOption:
		v, ok := stringArg(ws.Args, "value")
		if !ok {
			step.Invalid = "select_option requires args.value"
			return step
		}
		step.SelectOption = &SelectOptionArgs{Value: v}
	case ToolToggleCheck:
		checked, ok := boolArg(ws.Args, "checked")
		if !ok {
			step.Invalid = "toggle_check requires args.checked"
			return step
		}
		step.ToggleCheck = &ToggleCheckArgs{Checked: checked}
	case ToolSelectRadio:
		step.SelectRadio = &SelectRadioArgs{}
	default:
		step.Invalid = fmt.Sprintf("unknown tool %q", name)
	}
	return step
}

func stringArg(args map[string]interface{}, key string) (string, bool) {
	raw, ok := args[key]
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// boolArg accepts a JSON boolean or the string forms "true"/"false", which
// planners occasionally emit.
func boolArg(args map[string]interface{}, key string) (bool, bool) {
	raw, ok := args[key]
	if !ok {
		return false, false
	}
	switch v := raw.(type) {
	case bool:
		return v, true
	case string:
		if v == "true" {
			return true, true
		}
		if v == "false" {
			return false, true
		}
	}
	return false, false
}
