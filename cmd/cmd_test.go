// File: cmd/cmd_test.go
package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/qaforge/api/schemas"
)

// run executes a fresh command tree and returns its stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	// Keep a stray ./config.yaml or environment from leaking into tests.
	t.Chdir(t.TempDir())

	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// decodeSequences splits the synth output into one sequence per document.
func decodeSequences(t *testing.T, out string) []schemas.ActionSequence {
	t.Helper()
	var seqs []schemas.ActionSequence
	dec := json.NewDecoder(strings.NewReader(out))
	for dec.More() {
		var seq schemas.ActionSequence
		require.NoError(t, dec.Decode(&seq))
		seqs = append(seqs, seq)
	}
	return seqs
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "qaforge version "+Version+"\n", out)

	out, err = run(t, "", "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "qaforge version "+Version)
}

func TestRootHelp(t *testing.T) {
	out, err := run(t, "")
	require.NoError(t, err)
	assert.Contains(t, out, "QAForge compiles test scenarios")
	for _, sub := range []string{"synth", "serve", "mcp", "examples", "version"} {
		assert.Contains(t, out, sub)
	}
}

func TestExamples(t *testing.T) {
	out, err := run(t, "", "examples")
	require.NoError(t, err)

	var examples []schemas.ActionExample
	require.NoError(t, json.Unmarshal([]byte(out), &examples))
	assert.Len(t, examples, len(schemas.AllActionKinds()))
}

func TestSynth_Stdin(t *testing.T) {
	out, err := run(t, `{"user_interactions": ["Enter username 'bob'"]}`, "synth", "-u", "http://app.test")
	require.NoError(t, err)

	seqs := decodeSequences(t, out)
	require.Len(t, seqs, 1)
	assert.Equal(t, schemas.ActionSequence{
		schemas.Goto("http://app.test"),
		schemas.WaitForLoad(schemas.DefaultLoadTimeoutMs),
		schemas.Fill("#username, [id='username'], [name='username']", "bob"),
		schemas.Screenshot(schemas.PageSelector),
	}, seqs[0])
}

func TestSynth_FilesInArgumentOrder(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.json", `{"functionality": ["button"]}`)
	b := writeFile(t, dir, "b.yaml", "functionality:\n  - navigation menu\n  - 42\n")
	c := writeFile(t, dir, "c.json", `{}`)

	out, err := run(t, "", "synth", "-u", "http://app.test", c, a, b)
	require.NoError(t, err)

	seqs := decodeSequences(t, out)
	require.Len(t, seqs, 3)
	assert.Len(t, seqs[0], 3)
	assert.Equal(t, schemas.AssertVisible("button, .btn, [role='button']"), seqs[1][2])
	assert.Equal(t, schemas.AssertVisible("nav, .nav, .menu, header"), seqs[2][2])
	assert.Len(t, seqs[2], 4)
}

func TestSynth_Raw(t *testing.T) {
	modelOutput := "Sure! Here are the scenarios:\n```json\n{\"assertions\": [\"Success message 'Welcome!' shown\"]}\n```\nLet me know."
	out, err := run(t, modelOutput, "synth", "--raw", "-u", "http://app.test")
	require.NoError(t, err)

	seqs := decodeSequences(t, out)
	require.Len(t, seqs, 1)
	assert.Equal(t, schemas.AssertText(".success, .alert-success, .message-success", "Welcome!"), seqs[0][2])
}

func TestSynth_RawFallback(t *testing.T) {
	out, err := run(t, "no json here", "synth", "--raw", "-u", "http://app.test")
	require.NoError(t, err)

	seqs := decodeSequences(t, out)
	require.Len(t, seqs, 1)
	require.NoError(t, seqs[0].Validate())
	assert.Greater(t, len(seqs[0]), 3)
}

func TestSynth_OutputFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "actions.json")

	out, err := run(t, `{}`, "synth", "-u", "http://app.test", "-o", target)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Len(t, decodeSequences(t, string(data)), 1)
}

// failingCloser accepts writes and fails on Close, like a file whose final
// flush to disk is rejected.
type failingCloser struct {
	bytes.Buffer
}

func (*failingCloser) Close() error { return errors.New("disk quota exceeded") }

func TestSynth_OutputFileCloseError(t *testing.T) {
	orig := createOutput
	t.Cleanup(func() { createOutput = orig })
	sink := &failingCloser{}
	createOutput = func(string) (io.WriteCloser, error) { return sink, nil }

	_, err := run(t, `{}`, "synth", "-u", "http://app.test", "-o", "actions.json")
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to close output file")
	assert.ErrorContains(t, err, "disk quota exceeded")
	assert.Len(t, decodeSequences(t, sink.String()), 1)
}

func TestSynth_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.json", `{"functionality": [`)

	_, err := run(t, "", "synth", "-u", "http://app.test", bad)
	assert.ErrorContains(t, err, "failed to decode")

	_, err = run(t, "", "synth", "-u", "http://app.test", filepath.Join(dir, "missing.json"))
	assert.ErrorContains(t, err, "failed to read")

	_, err = run(t, `{}`, "synth", "-u", "relative")
	assert.ErrorContains(t, err, "invalid target URL")

	_, err = run(t, `{}`, "synth", "--edge-case-routing", "sideways")
	assert.ErrorContains(t, err, "unknown edge case routing")
}

func TestSynth_EdgeCaseRouting(t *testing.T) {
	doc := `{"edge_cases": ["Invalid input in the form"]}`

	out, err := run(t, doc, "synth", "-u", "http://app.test", "--edge-case-routing", "capability")
	require.NoError(t, err)
	seqs := decodeSequences(t, out)
	require.Len(t, seqs, 1)
	assert.Equal(t, schemas.AssertVisible("form, input, textarea"), seqs[0][2])
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "qaforge.yaml", "server:\n  default_target_url: http://from-config.test\n")

	out, err := run(t, `{}`, "--config", cfgPath, "synth")
	require.NoError(t, err)
	seqs := decodeSequences(t, out)
	require.Len(t, seqs, 1)
	assert.Equal(t, schemas.Goto("http://from-config.test"), seqs[0][0])
}

func TestConfigFile_Invalid(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "qaforge.yaml", "engine:\n  max_depth: 0\n")

	_, err := run(t, `{}`, "--config", cfgPath, "synth")
	assert.ErrorContains(t, err, "max_depth")
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("QAFORGE_SERVER_DEFAULT_TARGET_URL", "http://from-env.test")

	out, err := run(t, `{}`, "synth")
	require.NoError(t, err)
	seqs := decodeSequences(t, out)
	require.Len(t, seqs, 1)
	assert.Equal(t, schemas.Goto("http://from-env.test"), seqs[0][0])
}
