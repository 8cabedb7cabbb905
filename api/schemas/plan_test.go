package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePlanEnvelope(t *testing.T) {
	raw := []byte(`{
		"plan": [
			{"selector": "#email", "tool_name": "fill_text", "args": {"value": "a@b.c"}},
			{"selector": "#cv", "function": "upload_file", "args": {"file_type": "cv"}}
		],
		"warnings": ["Champ 'Permis' ignoré (donnée manquante)"]
	}`)

	plan := DecodePlan(raw)
	require.Len(t, plan.Steps, 2)
	require.Len(t, plan.Warnings, 1)

	require.True(t, plan.Steps[0].Valid())
	assert.Equal(t, ToolFillText, plan.Steps[0].Tool)
	require.NotNil(t, plan.Steps[0].FillText)
	assert.Equal(t, "a@b.c", plan.Steps[0].FillText.Value)

	// The legacy "function" spelling must keep working.
	require.True(t, plan.Steps[1].Valid())
	assert.Equal(t, ToolUploadFile, plan.Steps[1].Tool)
	require.NotNil(t, plan.Steps[1].UploadFile)
	assert.Equal(t, "cv", plan.Steps[1].UploadFile.FileType)
}

func TestDecodePlanBareArray(t *testing.T) {
	raw := []byte(`[{"selector": "[name=\"city\"]", "tool_name": "select_option", "args": {"value": "Paris"}}]`)
	plan := DecodePlan(raw)
	require.Len(t, plan.Steps, 1)
	require.NotNil(t, plan.Steps[0].SelectOption)
	assert.Equal(t, "Paris", plan.Steps[0].SelectOption.Value)
}

func TestDecodePlanMalformed(t *testing.T) {
	for _, raw := range []string{"", "null", "not json", `{"plan": "nope"}`, "42"} {
		plan := DecodePlan([]byte(raw))
		require.NotNil(t, plan, "input %q", raw)
		assert.Empty(t, plan.Steps, "input %q", raw)
	}
}

func TestDecodePlanDegradesBadSteps(t *testing.T) {
	raw := []byte(`{"plan": [
		{"selector": "#a", "tool_name": "explode", "args": {}},
		{"selector": "", "tool_name": "fill_text", "args": {"value": "x"}},
		{"selector": "#b", "tool_name": "fill_text", "args": {}},
		{"selector": "#c", "tool_name": "upload_file", "args": {"file_type": "passport"}},
		{"selector": "#d", "tool_name": "select_radio"}
	]}`)

	plan := DecodePlan(raw)
	require.Len(t, plan.Steps, 5)
	assert.False(t, plan.Steps[0].Valid(), "unknown tool")
	assert.False(t, plan.Steps[1].Valid(), "empty selector")
	assert.False(t, plan.Steps[2].Valid(), "missing value")
	assert.False(t, plan.Steps[3].Valid(), "file_type out of vocabulary")
	assert.True(t, plan.Steps[4].Valid(), "select_radio takes no args")
	require.NotNil(t, plan.Steps[4].SelectRadio)
}

func TestDecodePlanToggleCheckedForms(t *testing.T) {
	raw := []byte(`{"plan": [
		{"selector": "#t1", "tool_name": "toggle_check", "args": {"checked": true}},
		{"selector": "#t2", "tool_name": "toggle_check", "args": {"checked": "true"}},
		{"selector": "#t3", "tool_name": "toggle_check", "args": {"checked": "false"}},
		{"selector": "#t4", "tool_name": "toggle_check", "args": {"checked": "maybe"}}
	]}`)

	plan := DecodePlan(raw)
	require.Len(t, plan.Steps, 4)
	require.True(t, plan.Steps[0].Valid())
	assert.True(t, plan.Steps[0].ToggleCheck.Checked)
	require.True(t, plan.Steps[1].Valid())
	assert.True(t, plan.Steps[1].ToggleCheck.Checked)
	require.True(t, plan.Steps[2].Valid())
	assert.False(t, plan.Steps[2].ToggleCheck.Checked)
	assert.False(t, plan.Steps[3].Valid())
}
