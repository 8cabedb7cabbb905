// Package fill executes typed actions against a live page: simulated typing,
// synthetic file uploads, option selection, checkbox and radio handling, and
// the plan interpreter that strings them together with per-action failure
// isolation.
package fill

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/jobswipe/jobswipe-cli/api/schemas"
)

// Handler is one named action of the tool registry. The boolean reports
// whether the action took effect (a no-op is not a success); errors are
// isolated by the executor and never abort a run.
type Handler func(ctx context.Context, page schemas.Page, step schemas.PlanStep, profile *schemas.UserProfileData) (bool, error)

// Registry is the fixed vocabulary of action handlers.
type Registry struct {
	handlers map[schemas.ToolName]Handler
	logger   *zap.Logger
}

// NewRegistry wires the five tools around the typing simulator and the file
// injector.
func NewRegistry(typer *Typer, injector *FileInjector, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Registry{logger: logger.Named("tools")}
	r.handlers = map[schemas.ToolName]Handler{
		schemas.ToolFillText:     r.fillText(typer),
		schemas.ToolUploadFile:   r.uploadFile(injector),
		schemas.ToolSelectOption: r.selectOption,
		schemas.ToolToggleCheck:  r.toggleCheck,
		schemas.ToolSelectRadio:  r.selectRadio,
	}
	return r
}

// Lookup returns the handler for a tool name, if it is part of the
// vocabulary.
func (r *Registry) Lookup(name schemas.ToolName) (Handler, bool) {
	h, ok := r.handlers[name]
	return h, ok
}

func (r *Registry) fillText(typer *Typer) Handler {
	return func(ctx context.Context, page schemas.Page, step schemas.PlanStep, _ *schemas.UserProfileData) (bool, error) {
		if step.FillText == nil || step.FillText.Value == "" {
			return false, nil
		}
		found, err := page.Resolve(ctx, step.Selector)
		if err != nil || !found {
			return false, err
		}
		if err := typer.Type(ctx, page, step.Selector, step.FillText.Value); err != nil {
			return false, err
		}
		r.highlight(ctx, page, step.Selector)
		return true, nil
	}
}

func (r *Registry) uploadFile(injector *FileInjector) Handler {
	return func(ctx context.Context, page schemas.Page, step schemas.PlanStep, profile *schemas.UserProfileData) (bool, error) {
		if step.UploadFile == nil || profile == nil {
			return false, nil
		}
		var payload, name, mime string
		switch step.UploadFile.FileType {
		case "cv":
			payload, name, mime = profile.Documents.CVBase64, profile.Documents.CVName, profile.Documents.CVType
		case "cover_letter":
			payload, name, mime = profile.Documents.CoverBase64, profile.Documents.CoverName, profile.Documents.CoverType
		default:
			return false, nil
		}
		if payload == "" {
			return false, nil
		}
		return injector.Inject(ctx, page, step.Selector, payload, name, mime), nil
	}
}

// selectOption scans the control's full option set in document order and
// picks the first match by precedence: exact value, exact visible text, then
// case-insensitive substring of the visible text.
func (r *Registry) selectOption(ctx context.Context, page schemas.Page, step schemas.PlanStep, _ *schemas.UserProfileData) (bool, error) {
	if step.SelectOption == nil || step.SelectOption.Value == "" {
		return false, nil
	}
	want := step.SelectOption.Value

	options, err := page.Options(ctx, step.Selector)
	if err != nil {
		return false, err
	}

	match := -1
	for i, opt := range options {
		if opt.Value == want {
			match = i
			break
		}
	}
	if match == -1 {
		for i, opt := range options {
			if opt.Text == want {
				match = i
				break
			}
		}
	}
	if match == -1 {
		lower := strings.ToLower(want)
		for i, opt := range options {
			if strings.Contains(strings.ToLower(opt.Text), lower) {
				match = i
				break
			}
		}
	}
	if match == -1 {
		return false, nil
	}

	if err := page.SelectIndex(ctx, step.Selector, match); err != nil {
		return false, err
	}
	if err := page.DispatchEvent(ctx, step.Selector, "change"); err != nil {
		return false, err
	}
	r.highlight(ctx, page, step.Selector)
	return true, nil
}

// toggleCheck drives a checkbox to the desired state. Already at the desired
// state is a no-op returning false with no DOM write. Otherwise it simulates
// a user click and, if the page intercepted the click, forces the property.
func (r *Registry) toggleCheck(ctx context.Context, page schemas.Page, step schemas.PlanStep, _ *schemas.UserProfileData) (bool, error) {
	if step.ToggleCheck == nil {
		return false, nil
	}
	want := step.ToggleCheck.Checked

	current, err := page.Checked(ctx, step.Selector)
	if err != nil {
		return false, err
	}
	if current == want {
		return false, nil
	}

	if err := page.Click(ctx, step.Selector); err != nil {
		return false, err
	}
	if after, err := page.Checked(ctx, step.Selector); err == nil && after != want {
		if err := page.SetChecked(ctx, step.Selector, want); err != nil {
			return false, err
		}
	}
	if err := page.DispatchEvent(ctx, step.Selector, "change"); err != nil {
		return false, err
	}
	r.highlight(ctx, page, step.Selector)
	return true, nil
}

// selectRadio checks a radio button unless it is already checked.
func (r *Registry) selectRadio(ctx context.Context, page schemas.Page, step schemas.PlanStep, _ *schemas.UserProfileData) (bool, error) {
	current, err := page.Checked(ctx, step.Selector)
	if err != nil {
		return false, err
	}
	if current {
		return false, nil
	}

	if err := page.Click(ctx, step.Selector); err != nil {
		return false, err
	}
	if err := page.SetChecked(ctx, step.Selector, true); err != nil {
		return false, err
	}
	if err := page.DispatchEvent(ctx, step.Selector, "change"); err != nil {
		return false, err
	}
	r.highlight(ctx, page, step.Selector)
	return true, nil
}

// highlight is the visual fill-confirmation; purely a debugging and trust
// aid, so its failure is only a debug log.
func (r *Registry) highlight(ctx context.Context, page schemas.Page, selector string) {
	if err := page.Highlight(ctx, selector); err != nil {
		r.logger.Debug("Highlight failed", zap.String("selector", selector), zap.Error(err))
	}
}
