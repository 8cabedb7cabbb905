package fill

import (
	"context"

	"go.uber.org/zap"

	"github.com/jobswipe/jobswipe-cli/api/schemas"
	"github.com/jobswipe/jobswipe-cli/internal/scan"
)

// noClobberThreshold: a text control already holding this many characters or
// more is treated as user-authored and left alone.
const noClobberThreshold = 2

// Autofiller is the deterministic fill path: scan, classify, and write
// profile values directly, no planner involved.
type Autofiller struct {
	scanner  *scan.Scanner
	typer    *Typer
	injector *FileInjector
	logger   *zap.Logger
}

// NewAutofiller assembles the deterministic path from its parts.
func NewAutofiller(scanner *scan.Scanner, typer *Typer, injector *FileInjector, logger *zap.Logger) *Autofiller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Autofiller{scanner: scanner, typer: typer, injector: injector, logger: logger.Named("autofill")}
}

// Fill scans the page and writes a profile value into every control whose
// inferred type has one. File controls are always attempted; text controls
// are skipped when they already hold content, so a rerun never clobbers what
// the user typed by hand. Returns the number of controls acted on.
func (a *Autofiller) Fill(ctx context.Context, page schemas.Page, profile *schemas.UserProfileData) (int, error) {
	if profile == nil {
		return 0, nil
	}

	controls, err := a.scanner.Scan(ctx, page)
	if err != nil {
		return 0, err
	}

	filled := 0
	for _, control := range controls {
		if a.fillControl(ctx, page, control, profile) {
			filled++
		}
	}

	a.logger.Info("Deterministic fill finished",
		zap.Int("controls", len(controls)),
		zap.Int("filled", filled))
	return filled, nil
}

func (a *Autofiller) fillControl(ctx context.Context, page schemas.Page, control schemas.FormControl, profile *schemas.UserProfileData) bool {
	switch control.InferredType {
	case schemas.FieldCV:
		return a.injector.Inject(ctx, page, control.Selector,
			profile.Documents.CVBase64, profile.Documents.CVName, profile.Documents.CVType)
	case schemas.FieldCoverLetter:
		return a.injector.Inject(ctx, page, control.Selector,
			profile.Documents.CoverBase64, profile.Documents.CoverName, profile.Documents.CoverType)
	}

	value := textValueFor(control.InferredType, profile)
	if value == "" {
		return false
	}

	current, err := page.Value(ctx, control.Selector)
	if err != nil {
		a.logger.Debug("Control vanished before fill", zap.String("selector", control.Selector), zap.Error(err))
		return false
	}
	if len(current) >= noClobberThreshold {
		return false
	}

	return a.typer.Type(ctx, page, control.Selector, value) == nil
}

// textValueFor maps a semantic field type to the profile value that belongs
// in it. The switch is exhaustive over the text-bearing types; file types are
// handled upstream.
func textValueFor(fieldType schemas.SemanticFieldType, profile *schemas.UserProfileData) string {
	switch fieldType {
	case schemas.FieldEmail:
		return profile.Identity.Email
	case schemas.FieldPhone:
		return profile.Identity.Phone
	case schemas.FieldCity:
		return profile.Identity.City
	case schemas.FieldGender:
		return profile.Identity.Gender
	case schemas.FieldHandicap:
		return profile.Identity.Handicap
	case schemas.FieldFirstname:
		return profile.Identity.Firstname
	case schemas.FieldLastname:
		return profile.Identity.Lastname
	case schemas.FieldLinkedIn:
		return profile.Links.LinkedIn
	case schemas.FieldPortfolio:
		return profile.Links.Portfolio
	case schemas.FieldSalary:
		return profile.AIResponses.SalaryExpectations
	case schemas.FieldWhyUs:
		return profile.AIResponses.WhyUs
	case schemas.FieldCoverLetterText:
		return profile.Documents.CoverLetterText
	default:
		return ""
	}
}
