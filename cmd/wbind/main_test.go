package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/joeycumines/widgetbind/internal/command"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Help(t *testing.T) {
	for _, args := range [][]string{nil, {"-h"}, {"--help"}, {"help"}} {
		var stdout, stderr bytes.Buffer
		require.NoError(t, run(args, &stdout, &stderr))
		assert.Contains(t, stdout.String(), "Usage: wbind <command>")
	}
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"version"}, &stdout, &stderr))
	assert.Equal(t, "wbind version "+version+"\n", stdout.String())
}

func TestRun_UnknownCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"frobnicate"}, &stdout, &stderr)
	require.Error(t, err)
	assert.True(t, errors.Is(err, command.ErrUnknownCommand))
	assert.Contains(t, stderr.String(), "Use 'wbind help'")
}

func TestRun_BadFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.Error(t, run([]string{"run", "-nope"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "Usage: wbind run")
}

func TestRun_Script(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "widgets.yaml")
	scriptPath := filepath.Join(dir, "main.js")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
widgets:
  - name: textarea
    defaultOption: value
    watch: {placeholder: setPlaceholder}
`), 0o600))
	require.NoError(t, os.WriteFile(scriptPath, []byte(`
const wb = require("wb:widgetbind");
const el = wb.element();
wb.bind(el, "textarea", "seed");
wb.applyBindings(el);
print(wb.widget(el, "textarea").call("value"));
`), 0o600))

	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"run", "-d", yamlPath, scriptPath}, &stdout, &stderr), stderr.String())
	assert.Equal(t, "seed\n", stdout.String())

	stdout.Reset()
	require.NoError(t, run([]string{"describe", yamlPath}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "placeholder=setPlaceholder")
}
