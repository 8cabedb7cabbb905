package fill

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jobswipe/jobswipe-cli/api/schemas"
	"github.com/jobswipe/jobswipe-cli/internal/mocks"
)

const toolsFormHTML = `<html><body><form>
  <input id="first" name="firstname" type="text">
  <input id="prefilled" type="text" value="John">
  <select id="seniority" name="seniority">
    <option value="">Choose one</option>
    <option value="jr">Junior Engineer</option>
    <option value="sr">Senior Engineer</option>
  </select>
  <input id="remote" type="checkbox">
  <input id="tos" type="checkbox" checked>
  <input id="gender-m" type="radio" name="gender">
  <input id="cv" name="cv" type="file">
</form></body></html>`

// helloB64 is "hello world" in standard base64.
const helloB64 = "aGVsbG8gd29ybGQ="

func newTestRegistry() *Registry {
	typer := NewTyper(zap.NewNop(), 0)
	typer.sleep = func(context.Context, time.Duration) {}
	return NewRegistry(typer, NewFileInjector(zap.NewNop()), zap.NewNop())
}

func runTool(t *testing.T, r *Registry, page schemas.Page, step schemas.PlanStep, profile *schemas.UserProfileData) (bool, error) {
	t.Helper()
	handler, ok := r.Lookup(step.Tool)
	require.True(t, ok, "tool %q not registered", step.Tool)
	return handler(context.Background(), page, step, profile)
}

func TestFillTextTypesAndHighlights(t *testing.T) {
	page := mocks.MustNewPage(toolsFormHTML)
	r := newTestRegistry()

	acted, err := runTool(t, r, page, schemas.PlanStep{
		Selector: "#first",
		Tool:     schemas.ToolFillText,
		FillText: &schemas.FillTextArgs{Value: "Ada"},
	}, nil)
	require.NoError(t, err)
	assert.True(t, acted)

	got, err := page.Value(context.Background(), "#first")
	require.NoError(t, err)
	assert.Equal(t, "Ada", got)
	assert.Contains(t, page.Highlighted(), "#first")
	assert.Contains(t, page.Blurred(), "#first")
}

func TestFillTextFallbackWhenInsertionRejected(t *testing.T) {
	page := mocks.MustNewPage(toolsFormHTML)
	page.InsertTextErr = errors.New("insertion rejected")
	r := newTestRegistry()

	acted, err := runTool(t, r, page, schemas.PlanStep{
		Selector: "#first",
		Tool:     schemas.ToolFillText,
		FillText: &schemas.FillTextArgs{Value: "Ada"},
	}, nil)
	require.NoError(t, err)
	assert.True(t, acted)

	got, err := page.Value(context.Background(), "#first")
	require.NoError(t, err)
	assert.Equal(t, "Ada", got)
	// The fallback path must fire the framework events by hand.
	assert.Contains(t, page.Events(), "#first:input")
	assert.Contains(t, page.Events(), "#first:change")
	assert.Empty(t, page.Inserted())
}

func TestSelectOptionMatchPrecedence(t *testing.T) {
	cases := []struct {
		name  string
		value string
		want  string // resolved option value after selection
	}{
		{"exact value wins", "jr", "jr"},
		{"exact visible text", "Senior Engineer", "sr"},
		{"case-insensitive substring", "senior", "sr"},
		{"partial token", "Senior", "sr"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			page := mocks.MustNewPage(toolsFormHTML)
			r := newTestRegistry()

			acted, err := runTool(t, r, page, schemas.PlanStep{
				Selector:     "#seniority",
				Tool:         schemas.ToolSelectOption,
				SelectOption: &schemas.SelectOptionArgs{Value: tc.value},
			}, nil)
			require.NoError(t, err)
			assert.True(t, acted)

			got, err := page.Value(context.Background(), "#seniority")
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Contains(t, page.Events(), "#seniority:change")
		})
	}
}

func TestSelectOptionNoMatchIsNotASuccess(t *testing.T) {
	page := mocks.MustNewPage(toolsFormHTML)
	r := newTestRegistry()

	acted, err := runTool(t, r, page, schemas.PlanStep{
		Selector:     "#seniority",
		Tool:         schemas.ToolSelectOption,
		SelectOption: &schemas.SelectOptionArgs{Value: "Principal"},
	}, nil)
	require.NoError(t, err)
	assert.False(t, acted)
	assert.Empty(t, page.Events())
}

func TestToggleCheckIsIdempotent(t *testing.T) {
	page := mocks.MustNewPage(toolsFormHTML)
	r := newTestRegistry()

	// Already checked: no DOM write, not counted as a success.
	acted, err := runTool(t, r, page, schemas.PlanStep{
		Selector:    "#tos",
		Tool:        schemas.ToolToggleCheck,
		ToggleCheck: &schemas.ToggleCheckArgs{Checked: true},
	}, nil)
	require.NoError(t, err)
	assert.False(t, acted)
	assert.Empty(t, page.Events())

	// State change goes through a click.
	acted, err = runTool(t, r, page, schemas.PlanStep{
		Selector:    "#remote",
		Tool:        schemas.ToolToggleCheck,
		ToggleCheck: &schemas.ToggleCheckArgs{Checked: true},
	}, nil)
	require.NoError(t, err)
	assert.True(t, acted)

	checked, err := page.Checked(context.Background(), "#remote")
	require.NoError(t, err)
	assert.True(t, checked)
	assert.Contains(t, page.Events(), "#remote:change")
}

func TestToggleCheckForcesStateWhenClickIntercepted(t *testing.T) {
	page := mocks.MustNewPage(toolsFormHTML)
	page.OnClick = func(string) bool { return false }
	r := newTestRegistry()

	acted, err := runTool(t, r, page, schemas.PlanStep{
		Selector:    "#remote",
		Tool:        schemas.ToolToggleCheck,
		ToggleCheck: &schemas.ToggleCheckArgs{Checked: true},
	}, nil)
	require.NoError(t, err)
	assert.True(t, acted)

	checked, err := page.Checked(context.Background(), "#remote")
	require.NoError(t, err)
	assert.True(t, checked)
}

func TestSelectRadio(t *testing.T) {
	page := mocks.MustNewPage(toolsFormHTML)
	r := newTestRegistry()

	acted, err := runTool(t, r, page, schemas.PlanStep{
		Selector:    "#gender-m",
		Tool:        schemas.ToolSelectRadio,
		SelectRadio: &schemas.SelectRadioArgs{},
	}, nil)
	require.NoError(t, err)
	assert.True(t, acted)

	checked, err := page.Checked(context.Background(), "#gender-m")
	require.NoError(t, err)
	assert.True(t, checked)

	// Second pass is a no-op.
	acted, err = runTool(t, r, page, schemas.PlanStep{
		Selector:    "#gender-m",
		Tool:        schemas.ToolSelectRadio,
		SelectRadio: &schemas.SelectRadioArgs{},
	}, nil)
	require.NoError(t, err)
	assert.False(t, acted)
}

func TestUploadFileRoundTrip(t *testing.T) {
	page := mocks.MustNewPage(toolsFormHTML)
	r := newTestRegistry()
	profile := &schemas.UserProfileData{
		Documents: schemas.Documents{
			CVBase64: "data:application/pdf;base64," + helloB64,
			CVName:   "cv.pdf",
			CVType:   "application/pdf",
		},
	}

	acted, err := runTool(t, r, page, schemas.PlanStep{
		Selector:   "#cv",
		Tool:       schemas.ToolUploadFile,
		UploadFile: &schemas.UploadFileArgs{FileType: "cv"},
	}, profile)
	require.NoError(t, err)
	assert.True(t, acted)

	files, err := page.Files(context.Background(), "#cv")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "cv.pdf", files[0].Name)
	assert.Equal(t, "application/pdf", files[0].Type)
	assert.Equal(t, len("hello world"), files[0].Size)
	assert.Contains(t, page.Events(), "#cv:change")
}

func TestUploadFileMissingDocumentIsNotASuccess(t *testing.T) {
	page := mocks.MustNewPage(toolsFormHTML)
	r := newTestRegistry()

	acted, err := runTool(t, r, page, schemas.PlanStep{
		Selector:   "#cv",
		Tool:       schemas.ToolUploadFile,
		UploadFile: &schemas.UploadFileArgs{FileType: "cover_letter"},
	}, &schemas.UserProfileData{})
	require.NoError(t, err)
	assert.False(t, acted)
}
