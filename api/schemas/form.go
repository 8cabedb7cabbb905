package schemas

// SemanticFieldType is the inferred real-world meaning of a form control.
// It is a closed enumeration; FieldNone marks a control the classifier could
// not (or must not) assign a meaning to.
type SemanticFieldType string

const (
	FieldNone            SemanticFieldType = ""
	FieldCV              SemanticFieldType = "cv"
	FieldCoverLetter     SemanticFieldType = "cover_letter"
	FieldCoverLetterText SemanticFieldType = "cover_letter_text"
	FieldEmail           SemanticFieldType = "email"
	FieldPhone           SemanticFieldType = "phone"
	FieldCity            SemanticFieldType = "city"
	FieldGender          SemanticFieldType = "gender"
	FieldHandicap        SemanticFieldType = "handicap"
	FieldFirstname       SemanticFieldType = "firstname"
	FieldLastname        SemanticFieldType = "lastname"
	FieldLinkedIn        SemanticFieldType = "linkedin"
	FieldPortfolio       SemanticFieldType = "portfolio"
	FieldSalary          SemanticFieldType = "salary"
	FieldWhyUs           SemanticFieldType = "why_us"
)

// ControlMeta is the raw metadata of a single form control, as observed at
// scan time. It is the sole input of the field classifier; classification is
// a pure function of this struct.
type ControlMeta struct {
	TagName     string // lowercase: input, textarea, select
	Type        string // the control's type attribute, lowercase (text, email, file, ...)
	Name        string
	ID          string
	Placeholder string
	Label       string // resolved human-readable caption
	Hidden      bool
	Disabled    bool
	ReadOnly    bool
}

// OptionCap bounds the number of option entries carried by a FormControl
// descriptor. It is a transport bound only; option matching during execution
// always scans the full live option set.
const OptionCap = 50

// FormControl describes one discovered control. Constructed fresh on every
// scan, never persisted, never mutated after construction.
//
// The JSON field names are part of the planner contract.
type FormControl struct {
	// Selector resolves, at scan time, to exactly this control and no other.
	Selector     string            `json:"selector"`
	ControlType  string            `json:"type"`
	TagName      string            `json:"tag"`
	Label        string            `json:"label"`
	Name         string            `json:"name"`
	Placeholder  string            `json:"placeholder"`
	InferredType SemanticFieldType `json:"inferred_type,omitempty"`
	// Options is present only for choice controls, capped at OptionCap.
	Options []string `json:"options,omitempty"`
}

// SelectOption is one entry of a choice control's live option set.
type SelectOption struct {
	Value string
	Text  string
}

// FileStub describes a file attached to a file control, as observable from
// the control's file list.
type FileStub struct {
	Name string
	Type string
	Size int
}

// ExecutionResult is returned once every step of a plan has been attempted.
type ExecutionResult struct {
	SuccessCount int `json:"count"`
}

// Identity is the identity block of a user profile.
type Identity struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	City      string `json:"city"`
	Gender    string `json:"gender"`
	Handicap  string `json:"handicap"`
}

// Links holds the user's public profile URLs.
type Links struct {
	LinkedIn  string `json:"linkedin"`
	Portfolio string `json:"portfolio"`
}

// Documents carries the user's uploadable documents. The base64 payloads may
// be raw base64 or full data: URLs; the file injector accepts both.
type Documents struct {
	CVBase64        string `json:"cv_base64"`
	CVName          string `json:"cv_name"`
	CVType          string `json:"cv_type"`
	CoverLetterText string `json:"cover_letter_text"`
	CoverBase64     string `json:"cover_letter_base64"`
	CoverName       string `json:"cover_letter_name"`
	CoverType       string `json:"cover_letter_type"`
}

// AIResponses holds pre-authored free-text answers.
type AIResponses struct {
	WhyUs              string `json:"why_us"`
	SalaryExpectations string `json:"salary_expectations"`
}

// UserProfileData is the read-only input of the deterministic autofill path.
// It is owned by the companion application; the engine never mutates it.
type UserProfileData struct {
	Identity    Identity    `json:"identity"`
	Links       Links       `json:"links"`
	Documents   Documents   `json:"documents"`
	AIResponses AIResponses `json:"ai_responses"`
}

// JobOffer is the result of the job-offer page scraper.
type JobOffer struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Company     string `json:"company"`
}
