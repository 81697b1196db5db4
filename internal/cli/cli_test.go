package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aiinterviewer/internal/model"
)

const testTemplates = `templates:
  - id: onboarding
    name: Onboarding flow
    topic: account onboarding
    starter_questions:
      - How did signing up go
      - What slowed you down
    max_turns: 3
`

type testEnv struct {
	dir    string
	config string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	cfg := "store:\n  backend: sqlite\nsqlite:\n  path: " + filepath.Join(dir, "cli.db") +
		"\nlog:\n  level: warn\n  format: json\nai:\n  provider: none\n"
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))
	return &testEnv{dir: dir, config: path}
}

func (e *testEnv) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", e.config}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSeedImportsYAMLTemplates(t *testing.T) {
	env := newTestEnv(t)
	file := filepath.Join(env.dir, "templates.yaml")
	require.NoError(t, os.WriteFile(file, []byte(testTemplates), 0o600))

	out, err := env.run(t, "", "seed", "--file", file, "--owner", "researcher")
	require.NoError(t, err)
	assert.Contains(t, out, "seeded 4 built-in templates")
	assert.Contains(t, out, "imported onboarding (account onboarding)")

	out, err = env.run(t, "", "templates", "--owner", "researcher")
	require.NoError(t, err)
	assert.Contains(t, out, "onboarding")
	assert.Contains(t, out, "coffee_drinker")
}

func TestSeedRejectsReservedID(t *testing.T) {
	env := newTestEnv(t)
	file := filepath.Join(env.dir, "bad.yaml")
	require.NoError(t, os.WriteFile(file, []byte("templates:\n  - id: default\n    topic: x\n    starter_questions: [\"q?\"]\n"), 0o600))

	_, err := env.run(t, "", "seed", "--file", file)
	assert.Error(t, err)
}

var sessionLine = regexp.MustCompile(`session (\S+) \(`)

func TestChatExitAndSummary(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "I'm done\n", "chat", "--template", "coffee_drinker")
	require.NoError(t, err)
	assert.Contains(t, out, "[1/5] Tell me about your morning routine?")
	assert.Contains(t, out, "ended early: "+model.ReasonExplicitExit)

	m := sessionLine.FindStringSubmatch(out)
	require.Len(t, m, 2)

	out, err = env.run(t, "", "summary", m[1], "--json")
	require.NoError(t, err)
	var summary model.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, m[1], summary.SessionID)
	assert.True(t, summary.EarlyTermination)
}

func TestChatEndCommand(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "\n/end\n", "chat", "--topic", "remote work", "--question", "Where do you work from?")
	require.NoError(t, err)
	assert.Contains(t, out, "Where do you work from?")
	assert.Contains(t, out, "Summary")
	assert.Contains(t, out, "topic:      remote work")
}

func TestChatInputClosed(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "", "chat")
	require.NoError(t, err)
	assert.Contains(t, out, "input closed")
}

func TestSummaryUnknownSession(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.run(t, "", "summary", "missing")
	assert.Error(t, err)
}

func TestRootRejectsUnknownBackend(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.run(t, "", "--store", "etcd", "templates")
	assert.Error(t, err)
}
