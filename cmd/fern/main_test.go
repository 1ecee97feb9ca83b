package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/config"
	"github.com/Ramsey-B/fern/pkg/loader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const greetingApp = `
appId: demo
pages:
  - pageId: greeting
    blocks:
      - blockId: name
        type: TextInput
        meta:
          category: input
          valueType: string
      - blockId: title
        type: Title
        properties:
          content:
            _state: name
      - blockId: save
        type: Button
        actions:
          onClick:
            - id: store
              type: SetState
              params:
                saved:
                  _args: who
`

func writeApp(t *testing.T, document string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.yaml")
	require.NoError(t, os.WriteFile(path, []byte(document), 0o600))
	return path
}

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func defaultConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	return cfg
}

func TestRunCommand(t *testing.T) {
	path := writeApp(t, greetingApp)

	out, err := executeCommand(t, "run", "--app", path, "--set", "name=Ada", "--block", "save", "--event", "onClick", "--arg", "who=me")
	require.NoError(t, err, out)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &decoded))

	assert.NotEmpty(t, decoded["contextId"])
	state := decoded["state"].(map[string]any)
	assert.Equal(t, "Ada", state["name"])
	assert.Equal(t, "me", state["saved"])

	title := decoded["snapshot"].(map[string]any)["title"].(map[string]any)
	assert.Equal(t, map[string]any{"content": "Ada"}, title["properties"])

	result := decoded["result"].(map[string]any)
	assert.Equal(t, "save", result["blockId"])
	assert.Empty(t, result["error"])

	published := decoded["events"].([]any)
	require.Len(t, published, 1)
	assert.Equal(t, "onClick", published[0].(map[string]any)["event"])
}

func TestRunCommandErrors(t *testing.T) {
	path := writeApp(t, greetingApp)

	_, err := executeCommand(t, "run", "--app", path, "--event", "onClick")
	assert.EqualError(t, err, "--block and --event must be used together")

	_, err = executeCommand(t, "run", "--app", path, "--page", "missing")
	assert.EqualError(t, err, `app "demo" has no page "missing"`)

	_, err = executeCommand(t, "run", "--app", path, "--set", "novalue")
	assert.EqualError(t, err, `--set: expected key=value, got "novalue"`)
}

func TestCheckCommand(t *testing.T) {
	out, err := executeCommand(t, "check", "--app", writeApp(t, greetingApp))
	require.NoError(t, err)
	assert.Equal(t, "demo: ok (1 pages, 0 connections)\n", out)

	broken := `
appId: demo
pages:
  - pageId: greeting
    blocks:
      - blockId: title
        type: Title
        properties:
          content:
            _nope: 1
`
	_, err = executeCommand(t, "check", "--app", writeApp(t, broken))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "_nope")
}

func TestOperatorsCommand(t *testing.T) {
	out, err := executeCommand(t, "operators")
	require.NoError(t, err)

	assert.Contains(t, out, "_sum")
	assert.Contains(t, out, "_string")
	assert.Contains(t, out, "SetState")
	assert.Contains(t, out, "RedisGet")
}

func TestParseAssignments(t *testing.T) {
	values, err := parseAssignments([]string{"age=30", "name=ada", "flags=[a, b]", "empty=", "url=a=b"})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"age":   30.0,
		"name":  "ada",
		"flags": []any{"a", "b"},
		"empty": nil,
		"url":   "a=b",
	}, values)

	_, err = parseAssignments([]string{"=1"})
	assert.Error(t, err)
}

func TestDependencies(t *testing.T) {
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	cfg := defaultConfig(t)

	assert.Empty(t, dependencies(cfg, logger, &backends{}))

	cfg.DatabaseEnabled = true
	cfg.RedisEnabled = true
	cfg.KafkaEnabled = true

	names := []string{}
	for _, dependency := range dependencies(cfg, logger, &backends{}) {
		names = append(names, dependency.GetName())
	}
	assert.Equal(t, []string{"postgres", "redis", "kafka"}, names)
}

func TestServer(t *testing.T) {
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	cfg := defaultConfig(t)

	app, err := loader.Load([]byte(greetingApp), "app.yaml")
	require.NoError(t, err)

	service, pool, err := newService(cfg, logger, app, &backends{})
	require.NoError(t, err)
	defer func() { _ = pool.Close() }()

	e := newServer(cfg, logger, service)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pages/greeting", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"pageId":"greeting"`)
}
