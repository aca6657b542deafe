package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testModel = `
decls:
  - name: c
    range: Int
  - name: f
    domain: [Int]
    range: Int
constants:
  - name: c
    value: 3
functions:
  - name: f
    entries:
      - args: [1]
        value: 2
eval:
  - [+, c, [f, 1]]
`

func Test_BuildExec(t *testing.T) {
	if buildCommand.Parent() == nil {
		rootCmd.AddCommand(buildCommand)
	}
	ModelFile = filepath.Join(t.TempDir(), "model.yaml")
	require.NoError(t, os.WriteFile(ModelFile, []byte(testModel), 0o644))

	var out bytes.Buffer
	require.NoError(t, buildExec(buildCommand, &out))
	assert.Contains(t, out.String(), "c -> 3")
	assert.Contains(t, out.String(), "(+ c (f 1)) -> 5")
}

func Test_BuildExecMissingFile(t *testing.T) {
	if buildCommand.Parent() == nil {
		rootCmd.AddCommand(buildCommand)
	}
	ModelFile = filepath.Join(t.TempDir(), "missing.yaml")
	assert.Error(t, buildExec(buildCommand, &bytes.Buffer{}))
}
