// Package planner turns a scanned form and a user profile into an action
// plan by delegating the mapping decision to a text-generation model. The
// model's output is untrusted; everything it returns goes through plan
// validation before the executor ever sees it.
package planner

import (
	"context"
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/jobswipe/jobswipe-cli/api/schemas"
)

// TextGenerator is the transport seam to the model; GeminiClient is the
// production implementation.
type TextGenerator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

var promptJSON = jsoniter.ConfigCompatibleWithStandardLibrary

var _ schemas.Planner = (*Planner)(nil)

// Planner builds fill plans for application forms.
type Planner struct {
	gen    TextGenerator
	logger *zap.Logger
}

func New(gen TextGenerator, logger *zap.Logger) *Planner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Planner{gen: gen, logger: logger.Named("planner")}
}

const planSystemPrompt = `You are a form-filling assistant for job application pages. Forms may be in English or French.

Your task: generate a JSON execution plan that fills the form with the user's data.

Available functions:
1. fill_text(selector, value): for text, email, tel and textarea controls.
2. select_option(selector, value): for <select> menus. 'value' must be the visible text of the option.
3. toggle_check(selector, checked): for checkboxes (checked: true/false).
4. select_radio(selector): to pick a specific radio button.
5. upload_file(selector, file_type): for file controls. file_type must be "cv" or "cover_letter".

Decision rules:
1. Data present: if the information exists in the user data, use it to fill the field.
2. Missing data (critical): if a precise and important piece of information is requested (e.g. social security number, a specific licence) and it is NOT in the user data, do NOT fill the field and add a message to "warnings".
3. General or secondary questions: for general questions (e.g. "Are you authorized to work?", "Gender", "How did you hear about us?") infer the most likely answer from the profile, or leave the field out if too uncertain, but prefer filling.
4. Motivation: for "Why us?" fields, use the 'why_us' field of the user data or produce a short relevant sentence.

Response format (JSON only):
{
  "plan": [ { "function": "function_name", "selector": "...", "args": { ... } } ],
  "warnings": ["Field 'Driving licence' skipped (missing data)", ...]
}`

// BuildPlan asks the model for a plan over the given controls and validates
// it. The returned plan may be empty but is never nil on success.
func (p *Planner) BuildPlan(ctx context.Context, profile *schemas.UserProfileData, controls []schemas.FormControl) (*Plan, error) {
	userPrompt, err := p.userPrompt(profile, controls)
	if err != nil {
		return nil, err
	}

	raw, err := p.gen.Generate(ctx, planSystemPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("plan generation failed: %w", err)
	}

	plan := schemas.DecodePlan([]byte(StripFences(raw)))
	valid := 0
	for _, step := range plan.Steps {
		if step.Valid() {
			valid++
		}
	}
	p.logger.Info("Plan built",
		zap.Int("controls", len(controls)),
		zap.Int("steps", len(plan.Steps)),
		zap.Int("valid_steps", valid),
		zap.Int("warnings", len(plan.Warnings)))
	return plan, nil
}

func (p *Planner) userPrompt(profile *schemas.UserProfileData, controls []schemas.FormControl) (string, error) {
	userData, err := promptJSON.Marshal(profile)
	if err != nil {
		return "", fmt.Errorf("failed to encode user data: %w", err)
	}
	formContext, err := promptJSON.Marshal(controls)
	if err != nil {
		return "", fmt.Errorf("failed to encode form context: %w", err)
	}
	return fmt.Sprintf("User data: %s\n\nForm fields detected on the page: %s", userData, formContext), nil
}

const analyzeSystemPrompt = `You are an expert in analyzing recruitment forms. Given the detected fields of a page, briefly list the information being requested (e.g. identity, CV, cover letter, visa questions). Be concise, fifteen words at most.`

// Analyze returns a one-line human summary of what the form asks for.
func (p *Planner) Analyze(ctx context.Context, controls []schemas.FormControl) (string, error) {
	fields, err := promptJSON.Marshal(controls)
	if err != nil {
		return "", fmt.Errorf("failed to encode form context: %w", err)
	}
	text, err := p.gen.Generate(ctx, analyzeSystemPrompt, "Fields detected on the page: "+string(fields))
	if err != nil {
		return "", fmt.Errorf("form analysis failed: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// StripFences removes markdown code fences that models wrap JSON in.
func StripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// Plan aliases the validated plan type for callers that only import the
// planner.
type Plan = schemas.Plan
