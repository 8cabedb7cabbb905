package planner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jobswipe/jobswipe-cli/api/schemas"
)

// stubGenerator returns a canned response and records the prompts it saw.
type stubGenerator struct {
	response string
	err      error

	systemPrompt string
	userPrompt   string
}

func (s *stubGenerator) Generate(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	s.systemPrompt = systemPrompt
	s.userPrompt = userPrompt
	return s.response, s.err
}

func sampleControls() []schemas.FormControl {
	return []schemas.FormControl{
		{Selector: "#email", ControlType: "email", TagName: "input", Label: "Email", InferredType: schemas.FieldEmail},
		{Selector: "#cv", ControlType: "file", TagName: "input", Label: "CV", InferredType: schemas.FieldCV},
	}
}

func TestBuildPlanDecodesFencedResponse(t *testing.T) {
	gen := &stubGenerator{response: "```json\n" + `{
	  "plan": [
	    {"function": "fill_text", "selector": "#email", "args": {"value": "ada@example.com"}},
	    {"function": "upload_file", "selector": "#cv", "args": {"file_type": "cv"}}
	  ],
	  "warnings": ["Field 'Driving licence' skipped (missing data)"]
	}` + "\n```"}
	p := New(gen, zap.NewNop())

	plan, err := p.BuildPlan(context.Background(), &schemas.UserProfileData{}, sampleControls())
	require.NoError(t, err)
	require.Len(t, plan.Steps, 2)

	assert.True(t, plan.Steps[0].Valid())
	assert.Equal(t, schemas.ToolFillText, plan.Steps[0].Tool)
	assert.Equal(t, schemas.ToolUploadFile, plan.Steps[1].Tool)
	assert.Equal(t, []string{"Field 'Driving licence' skipped (missing data)"}, plan.Warnings)
}

func TestBuildPlanSendsProfileAndControls(t *testing.T) {
	gen := &stubGenerator{response: `{"plan": []}`}
	p := New(gen, zap.NewNop())

	profile := &schemas.UserProfileData{Identity: schemas.Identity{Email: "ada@example.com"}}
	_, err := p.BuildPlan(context.Background(), profile, sampleControls())
	require.NoError(t, err)

	assert.Contains(t, gen.userPrompt, "ada@example.com")
	assert.Contains(t, gen.userPrompt, "#cv")
	assert.Contains(t, gen.systemPrompt, "upload_file")
}

func TestBuildPlanDegradesGarbageToEmptyPlan(t *testing.T) {
	gen := &stubGenerator{response: "I am sorry, I cannot help with that."}
	p := New(gen, zap.NewNop())

	plan, err := p.BuildPlan(context.Background(), &schemas.UserProfileData{}, nil)
	require.NoError(t, err)
	assert.Empty(t, plan.Steps)
	assert.Empty(t, plan.Warnings)
}

func TestBuildPlanPropagatesGeneratorError(t *testing.T) {
	gen := &stubGenerator{err: errors.New("quota exhausted")}
	p := New(gen, zap.NewNop())

	_, err := p.BuildPlan(context.Background(), &schemas.UserProfileData{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exhausted")
}

func TestAnalyzeTrimsResponse(t *testing.T) {
	gen := &stubGenerator{response: "  Identity, CV, visa questions.\n"}
	p := New(gen, nil)

	summary, err := p.Analyze(context.Background(), sampleControls())
	require.NoError(t, err)
	assert.Equal(t, "Identity, CV, visa questions.", summary)
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"plan":[]}`, StripFences("```json\n{\"plan\":[]}\n```"))
	assert.Equal(t, `{"plan":[]}`, StripFences(`{"plan":[]}`))
}
