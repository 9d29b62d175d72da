package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loadFixture loads the survey fixture into db under session.
func loadFixture(t *testing.T, db, session string) LoadResult {
	t.Helper()
	out, _, err := execute(t, "load", surveyFixture, "--db", db, "--session", session, "--format", "json")
	require.NoError(t, err)

	var result LoadResult
	resp := decodeData(t, out, &result)
	require.Equal(t, "ok", resp.Status)
	return result
}

func TestLoad(t *testing.T) {
	db := filepath.Join(t.TempDir(), "history.db")
	result := loadFixture(t, db, "s1")

	assert.Equal(t, "s1", result.Session)
	assert.Equal(t, "onboarding", result.SurveyID)
	assert.Equal(t, 6, result.Recorded)
	assert.Len(t, result.Digest, 64)
	assert.Equal(t, map[string]int{
		"answer/set-answers":     1,
		"content/set-contents":   1,
		"question/set-questions": 1,
		"rating/set-ratings":     1,
		"survey/set-surveys":     1,
		"survey/add-survey":      1,
	}, result.Dispatches)
	assert.Contains(t, result.Registered, "survey/add-survey")
	assert.Contains(t, result.Registered, "user/set-name")
	assert.Contains(t, string(result.State), `"welcome":{"id":"welcome","text":"Welcome aboard","type":"content","validated":false}`)
}

func TestLoad_TextOutput(t *testing.T) {
	db := filepath.Join(t.TempDir(), "history.db")
	out, _, err := execute(t, "load", surveyFixture, "--db", db)
	require.NoError(t, err)

	assert.Contains(t, out, "✓ Loaded survey onboarding (3 step(s))")
	assert.Contains(t, out, "Recorded: 6 action(s)")
	assert.Contains(t, out, "registered")
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("id: x\nsteps:\n  - type: rating\n"), 0644))

	tests := []struct {
		name string
		path string
		code string
	}{
		{name: "missing file", path: filepath.Join(dir, "missing.yaml"), code: ErrCodeNotFound},
		{name: "invalid definition", path: invalid, code: ErrCodeDefinition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, "load", tt.path, "--db", filepath.Join(dir, "h.db"), "--format", "json")
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))

			resp := decodeData(t, out, nil)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestTrace(t *testing.T) {
	db := filepath.Join(t.TempDir(), "history.db")
	loadFixture(t, db, "s1")

	out, _, err := execute(t, "trace", "--db", db, "--session", "s1", "--format", "json")
	require.NoError(t, err)

	var result TraceResult
	decodeData(t, out, &result)
	assert.Equal(t, TraceStats{Total: 6, Nested: 5}, result.Stats)
	require.Len(t, result.Actions, 6)
	last := result.Actions[5]
	assert.Equal(t, "survey/add-survey", last.Type)
	assert.Equal(t, 1, last.Depth)
	assert.Equal(t, int64(6), last.Seq)
}

func TestTrace_TypeFilter(t *testing.T) {
	db := filepath.Join(t.TempDir(), "history.db")
	loadFixture(t, db, "s1")

	out, _, err := execute(t, "trace", "--db", db, "--session", "s1", "--type", "survey/", "--format", "json")
	require.NoError(t, err)

	var result TraceResult
	decodeData(t, out, &result)
	types := make([]string, 0, len(result.Actions))
	for _, a := range result.Actions {
		types = append(types, a.Type)
	}
	assert.Equal(t, []string{"survey/set-surveys", "survey/add-survey"}, types)
}

func TestTrace_EntityFilter(t *testing.T) {
	db := filepath.Join(t.TempDir(), "history.db")
	loadFixture(t, db, "s1")

	out, _, err := execute(t, "trace", "--db", db, "--session", "s1", "--entity", "welcome", "--format", "json")
	require.NoError(t, err)

	var result TraceResult
	decodeData(t, out, &result)
	assert.Empty(t, result.Actions)
	assert.Equal(t, TraceStats{}, result.Stats)
}

func TestTrace_Sessions(t *testing.T) {
	db := filepath.Join(t.TempDir(), "history.db")
	loadFixture(t, db, "first")
	loadFixture(t, db, "second")

	out, _, err := execute(t, "trace", "--db", db, "--format", "json")
	require.NoError(t, err)

	var sessions []SessionEntry
	decodeData(t, out, &sessions)
	assert.Equal(t, []SessionEntry{
		{Session: "first", Actions: 6, FirstSeq: 1, LastSeq: 6},
		{Session: "second", Actions: 6, FirstSeq: 7, LastSeq: 12},
	}, sessions)

	text, _, err := execute(t, "trace", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, text, "first: 6 action(s), seq 1-6")
}

func TestTrace_UnknownSession(t *testing.T) {
	db := filepath.Join(t.TempDir(), "history.db")
	loadFixture(t, db, "s1")

	_, _, err := execute(t, "trace", "--db", db, "--session", "nope")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "no actions recorded for session nope")
}

func TestReplay(t *testing.T) {
	db := filepath.Join(t.TempDir(), "history.db")
	loaded := loadFixture(t, db, "s1")

	out, _, err := execute(t, "replay", "--db", db, "--session", "s1", "--format", "json")
	require.NoError(t, err)

	var result ReplaySessionResult
	decodeData(t, out, &result)
	assert.True(t, result.Deterministic)
	assert.Equal(t, 6, result.Dispatched)
	assert.Equal(t, int64(6), result.LastSeq)
	assert.Equal(t, loaded.Digest, result.Digest)
	assert.JSONEq(t, string(loaded.State), string(result.State))
}

func TestReplay_TextOutput(t *testing.T) {
	db := filepath.Join(t.TempDir(), "history.db")
	loaded := loadFixture(t, db, "s1")

	out, _, err := execute(t, "replay", "--db", db, "--session", "s1")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Replayed 6 action(s) of s1 (last seq 6)")
	assert.Contains(t, out, "Digest: "+loaded.Digest)
}

func TestReplay_Errors(t *testing.T) {
	db := filepath.Join(t.TempDir(), "history.db")
	loadFixture(t, db, "s1")

	_, _, err := execute(t, "replay", "--db", db, "--session", "nope")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, _, err = execute(t, "replay", "--db", db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `required flag(s) "session" not set`)
}
