package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCorpus(t *testing.T, daterules string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "rules"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rules", "resources_rules_daterules.txt"), []byte(daterules), 0644))
	return dir
}

func TestValidateCommand_Valid(t *testing.T) {
	out, _, err := execute(t, "", "validate", testCorpus)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Corpus "+testCorpus+" is valid")
	assert.Contains(t, out, "rules: DATE 20, TIME 4, DURATION 5, SET 3")
}

func TestValidateCommand_ConfiguredCorpus(t *testing.T) {
	out, _, err := execute(t, "", "--corpus", testCorpus, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")
}

func TestValidateCommand_JSON(t *testing.T) {
	out, _, err := execute(t, "", "--format", "json", "validate", testCorpus)
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, "english", resp.Data.Language)
	assert.Equal(t, map[string]int{"DATE": 20, "TIME": 4, "DURATION": 5, "SET": 3}, resp.Data.Rules)
	assert.Positive(t, resp.Data.Patterns)
	assert.Positive(t, resp.Data.Tables)
	assert.Empty(t, resp.Data.Errors)
}

func TestValidateCommand_UndefinedPattern(t *testing.T) {
	dir := writeCorpus(t, `RULENAME="date_r1",EXTRACTION="%reMissing",NORM_VALUE="x"`+"\n")

	out, _, err := execute(t, "", "validate", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ Corpus "+dir+" is invalid")
	assert.Contains(t, out, "[R002] rules/resources_rules_daterules.txt:1: rule date_r1:")
}

func TestValidateCommand_UndefinedPatternJSON(t *testing.T) {
	dir := writeCorpus(t, `RULENAME="date_r1",EXTRACTION="%reMissing",NORM_VALUE="x"`+"\n")

	out, _, err := execute(t, "", "--format", "json", "validate", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string `json:"status"`
		Error  struct {
			Code    string           `json:"code"`
			Details ValidationResult `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeCorpus, resp.Error.Code)
	assert.False(t, resp.Error.Details.Valid)
	require.Len(t, resp.Error.Details.Errors, 1)
	is := resp.Error.Details.Errors[0]
	assert.Equal(t, "R002", is.Code)
	assert.Equal(t, "date_r1", is.Rule)
	assert.Equal(t, 1, is.Line)
}

func TestValidateCommand_CollectsAllErrors(t *testing.T) {
	dir := writeCorpus(t, `RULENAME="date_r1",EXTRACTION="%reMissing",NORM_VALUE="x"
RULENAME="date_r2",EXTRACTION="(unclosed",NORM_VALUE="x"
`)

	out, _, err := execute(t, "", "validate", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corpus has 2 error(s)")
	assert.Contains(t, out, "[R002]")
	assert.Contains(t, out, "[R003]")
}

func TestValidateCommand_NoRules(t *testing.T) {
	dir := t.TempDir()

	out, _, err := execute(t, "", "validate", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "[C004]")
}

func TestValidateCommand_MissingDir(t *testing.T) {
	_, _, err := execute(t, "", "validate", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "corpus directory not found")
}
