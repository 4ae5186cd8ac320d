package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const composeYAML = `
compose:
  - call: lcod://script/expr@1
    in:
      expr: "="
      vars: "="
      "...":
        source: $.extra
        optional: true
    out:
      result: "="
      missing?: absent
`

const seedJSON = `{"expr":"a + b","vars":{"a":1,"b":2},"extra":{"debugging":true}}`

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestCLI_ValidatePrintsStepCount(t *testing.T) {
	composePath := writeTempFile(t, "compose.yaml", composeYAML)

	cmd := newValidateCommand()
	var out bytes.Buffer
	// cobra's Print family writes to OutOrStderr, not OutOrStdout, so
	// both streams are captured to the same buffer regardless of which
	// one cmd.Printf actually resolves to.
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{composePath})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "ok: 1 top-level step(s)\n", out.String())
}

func TestCLI_RunEvaluatesExprAgainstSeedState(t *testing.T) {
	composePath := writeTempFile(t, "compose.yaml", composeYAML)
	statePath := writeTempFile(t, "state.json", seedJSON)

	cmd := newRunCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{composePath, "--state", statePath})

	require.NoError(t, cmd.Execute())

	var result map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))

	assert.EqualValues(t, 3, result["result"])
	_, hasMissing := result["missing"]
	assert.False(t, hasMissing, "optional projection with no matching output field must be omitted")
}
