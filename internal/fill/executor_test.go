package fill

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jobswipe/jobswipe-cli/api/schemas"
	"github.com/jobswipe/jobswipe-cli/internal/mocks"
)

func newTestExecutor() *Executor {
	return NewExecutor(newTestRegistry(), zap.NewNop())
}

func fillStep(selector, value string) schemas.PlanStep {
	return schemas.PlanStep{
		Selector: selector,
		Tool:     schemas.ToolFillText,
		FillText: &schemas.FillTextArgs{Value: value},
	}
}

func TestExecuteCountsOnlyEffectiveSteps(t *testing.T) {
	page := mocks.MustNewPage(toolsFormHTML)
	exec := newTestExecutor()

	plan := &schemas.Plan{Steps: []schemas.PlanStep{
		fillStep("#first", "Ada"),
		{
			Selector:    "#tos",
			Tool:        schemas.ToolToggleCheck,
			ToggleCheck: &schemas.ToggleCheckArgs{Checked: true}, // already checked
		},
		{
			Selector:     "#seniority",
			Tool:         schemas.ToolSelectOption,
			SelectOption: &schemas.SelectOptionArgs{Value: "Senior"},
		},
	}}

	result := exec.Execute(context.Background(), page, plan, nil)
	assert.Equal(t, 2, result.SuccessCount)
}

func TestExecuteSkipsVanishedSelector(t *testing.T) {
	page := mocks.MustNewPage(toolsFormHTML)
	exec := newTestExecutor()

	plan := &schemas.Plan{Steps: []schemas.PlanStep{
		fillStep("#does-not-exist", "Ada"),
	}}

	result := exec.Execute(context.Background(), page, plan, nil)
	assert.Equal(t, 0, result.SuccessCount)
}

func TestExecuteIsolatesFailingStep(t *testing.T) {
	page := mocks.MustNewPage(toolsFormHTML)
	page.FailWith("#first", errors.New("page pulled the control"))
	exec := newTestExecutor()

	plan := &schemas.Plan{Steps: []schemas.PlanStep{
		fillStep("#first", "Ada"),
		fillStep("#prefilled", "Grace"),
	}}

	result := exec.Execute(context.Background(), page, plan, nil)
	assert.Equal(t, 1, result.SuccessCount)

	got, err := page.Value(context.Background(), "#prefilled")
	require.NoError(t, err)
	assert.Equal(t, "Grace", got)
}

func TestExecuteSurvivesPanickingStep(t *testing.T) {
	page := mocks.MustNewPage(toolsFormHTML)
	page.PanicOn("#first")
	exec := newTestExecutor()

	plan := &schemas.Plan{Steps: []schemas.PlanStep{
		fillStep("#first", "Ada"),
		fillStep("#prefilled", "Grace"),
	}}

	result := exec.Execute(context.Background(), page, plan, nil)
	assert.Equal(t, 1, result.SuccessCount)
}

func TestExecuteSkipsInvalidAndUnknownSteps(t *testing.T) {
	page := mocks.MustNewPage(toolsFormHTML)
	exec := newTestExecutor()

	plan := &schemas.Plan{Steps: []schemas.PlanStep{
		{Selector: "#first", Tool: "drop_tables", Invalid: `unknown tool "drop_tables"`},
		{Selector: "#first", Tool: "mystery_tool"},
		fillStep("#first", "Ada"),
	}}

	result := exec.Execute(context.Background(), page, plan, nil)
	assert.Equal(t, 1, result.SuccessCount)
}

func TestExecuteNilAndEmptyPlans(t *testing.T) {
	page := mocks.MustNewPage(toolsFormHTML)
	exec := newTestExecutor()

	assert.Equal(t, 0, exec.Execute(context.Background(), page, nil, nil).SuccessCount)
	assert.Equal(t, 0, exec.Execute(context.Background(), page, &schemas.Plan{}, nil).SuccessCount)
}

func TestExecuteDecodedPlanEndToEnd(t *testing.T) {
	page := mocks.MustNewPage(toolsFormHTML)
	exec := newTestExecutor()

	raw := []byte(`{
	  "plan": [
	    {"function": "fill_text", "selector": "#first", "args": {"value": "Ada"}},
	    {"function": "select_option", "selector": "#seniority", "args": {"value": "Senior"}},
	    {"function": "toggle_check", "selector": "#remote", "args": {"checked": "true"}},
	    {"function": "fill_text", "selector": "#ghost", "args": {"value": "x"}}
	  ],
	  "warnings": ["no portfolio field found"]
	}`)
	plan := schemas.DecodePlan(raw)
	require.Len(t, plan.Steps, 4)

	result := exec.Execute(context.Background(), page, plan, &schemas.UserProfileData{})
	assert.Equal(t, 3, result.SuccessCount)
}
