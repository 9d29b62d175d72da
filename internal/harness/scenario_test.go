package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const surveyBlock = `
survey:
  id: s1
  steps:
    - type: content
      id: c1
`

func writeScenario(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	scenario := loadTestScenario(t, "onboarding.yaml")

	assert.Equal(t, "onboarding", scenario.Name)
	assert.Len(t, scenario.Survey.Steps, 3)
	assert.Len(t, scenario.Steps, 5)
	assert.Len(t, scenario.Assertions, 10)
	assert.Equal(t, Step{Action: ActionSetRating, Rating: "r1", Value: 4}, scenario.Steps[2])
	assert.Equal(t, 4, scenario.Assertions[6].Expect)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "unknown field",
			content: "name: x\ndescription: y\nassertion: []\n" + surveyBlock,
			want:    "field assertion not found",
		},
		{
			name:    "missing name",
			content: "description: y\n" + surveyBlock + "assertions:\n  - type: user_name\n    expect: ana\n",
			want:    "name is required",
		},
		{
			name:    "missing description",
			content: "name: x\n" + surveyBlock + "assertions:\n  - type: user_name\n    expect: ana\n",
			want:    "description is required",
		},
		{
			name:    "missing survey",
			content: "name: x\ndescription: y\nassertions:\n  - type: user_name\n    expect: ana\n",
			want:    "survey: steps list is required",
		},
		{
			name:    "no assertions",
			content: "name: x\ndescription: y\n" + surveyBlock,
			want:    "assertions list is required",
		},
		{
			name:    "unknown step action",
			content: "name: x\ndescription: y\n" + surveyBlock + "steps:\n  - action: jump\nassertions:\n  - type: user_name\n    expect: ana\n",
			want:    `steps[0]: unknown action "jump"`,
		},
		{
			name:    "toggle without answer",
			content: "name: x\ndescription: y\n" + surveyBlock + "steps:\n  - action: toggle_answer\nassertions:\n  - type: user_name\n    expect: ana\n",
			want:    "steps[0]: answer is required for toggle_answer",
		},
		{
			name:    "unknown assertion type",
			content: "name: x\ndescription: y\n" + surveyBlock + "assertions:\n  - type: trace_count\n",
			want:    `assertions[0]: unknown assertion type "trace_count"`,
		},
		{
			name:    "wrong expect kind",
			content: "name: x\ndescription: y\n" + surveyBlock + "assertions:\n  - type: can_go_next\n    step: c1\n    expect: 3\n",
			want:    "assertions[0]: expect must be a bool for can_go_next, got int",
		},
		{
			name:    "step_index without step",
			content: "name: x\ndescription: y\n" + surveyBlock + "assertions:\n  - type: step_index\n    expect: 0\n",
			want:    "assertions[0]: step is required for step_index",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeScenario(t, t.TempDir(), "scenario.yaml", tt.content)
			_, err := LoadScenario(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadScenarios(t *testing.T) {
	scenarios, err := LoadScenarios(filepath.Join("testdata", "scenarios"))
	require.NoError(t, err)

	require.Len(t, scenarios, 2)
	assert.Equal(t, "onboarding", scenarios[0].Name)
	assert.Equal(t, "unanswered", scenarios[1].Name)
}

func TestLoadScenarios_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "broken.yml", "name: [\n")

	_, err := LoadScenarios(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.yml")
}
