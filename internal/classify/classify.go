// Package classify infers the semantic purpose of a form control from its
// noisy, multilingual attribute text. Classification is a pure function of
// the control metadata: no DOM access, no caching, no side effects.
package classify

import (
	"strings"

	"github.com/jobswipe/jobswipe-cli/api/schemas"
)

// rule is one entry of the ordered, mutually exclusive rule list. The first
// rule whose tokens match wins; there is no scoring and no backtracking.
type rule struct {
	field  schemas.SemanticFieldType
	tokens []string
}

// Token vocabulary is bilingual (English/French) because the application
// targets both markets. Order encodes priority: specific, low-ambiguity
// tokens (email, phone) come before broader ones.
var textRules = []rule{
	{schemas.FieldEmail, []string{"email", "mail"}},
	{schemas.FieldPhone, []string{"phone", "tel", "mobile", "portable"}},
	{schemas.FieldCity, []string{"city", "ville", "location", "adresse"}},
	{schemas.FieldGender, []string{"gender", "genre", "sexe", "civilite"}},
	{schemas.FieldHandicap, []string{"handicap", "disability", "rqth"}},
	{schemas.FieldLinkedIn, []string{"linkedin"}},
	{schemas.FieldPortfolio, []string{"portfolio", "website", "site"}},
	{schemas.FieldSalary, []string{"salary", "salaire", "pretention"}},
}

var (
	cvTokens     = []string{"cv", "resume", "upload"}
	coverTokens  = []string{"cover", "motivation", "lettre"}
	whyUsTokens  = []string{"why", "pourquoi"}
	excludeCover = []string{"cover", "lettre"}
)

// Classify maps control metadata to a semantic field type, or FieldNone when
// no rule matches. Hidden, disabled and read-only controls always classify to
// FieldNone regardless of other signals; nothing downstream may touch them.
func Classify(meta schemas.ControlMeta) schemas.SemanticFieldType {
	if meta.Hidden || meta.Disabled || meta.ReadOnly || meta.Type == "hidden" {
		return schemas.FieldNone
	}

	haystack := strings.ToLower(meta.Name + " " + meta.ID + " " + meta.Placeholder + " " + meta.Label)

	if meta.Type == "file" {
		return classifyFile(haystack)
	}

	// The email rule additionally honors the control's native type, which is
	// an unambiguous signal even when the attribute text says nothing.
	if meta.Type == "email" {
		return schemas.FieldEmail
	}

	for _, r := range textRules[:5] {
		if containsAny(haystack, r.tokens) {
			return r.field
		}
	}

	// Name fields require a qualifier next to the name-token so that a field
	// named merely "name" (company name, pet name) does not misfire. The
	// French single tokens carry the qualifier implicitly.
	if (strings.Contains(haystack, "first") && strings.Contains(haystack, "name")) || strings.Contains(haystack, "prenom") {
		return schemas.FieldFirstname
	}
	if (strings.Contains(haystack, "last") && strings.Contains(haystack, "name")) ||
		strings.Contains(haystack, "nom") || strings.Contains(haystack, "surname") {
		return schemas.FieldLastname
	}

	for _, r := range textRules[5:] {
		if containsAny(haystack, r.tokens) {
			return r.field
		}
	}

	if meta.TagName == "textarea" {
		if containsAny(haystack, coverTokens) {
			return schemas.FieldCoverLetterText
		}
		if containsAny(haystack, whyUsTokens) {
			return schemas.FieldWhyUs
		}
	}

	// Catch-all: any remaining control still mentioning a cover-letter token
	// is treated as a cover-letter text field.
	if containsAny(haystack, coverTokens) {
		return schemas.FieldCoverLetterText
	}

	return schemas.FieldNone
}

// classifyFile resolves the CV / cover-letter ambiguity for file controls.
// A field mentioning both a CV token and a cover token classifies as
// cover_letter: the common "upload CV or cover letter" wording is resolved in
// favor of the more specific cover-letter signal.
func classifyFile(haystack string) schemas.SemanticFieldType {
	if containsAny(haystack, cvTokens) && !containsAny(haystack, excludeCover) {
		return schemas.FieldCV
	}
	if containsAny(haystack, coverTokens) {
		return schemas.FieldCoverLetter
	}
	return schemas.FieldNone
}

func containsAny(haystack string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(haystack, t) {
			return true
		}
	}
	return false
}
