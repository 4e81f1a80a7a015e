package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-navparams/pkg/logging"
	"github.com/goliatone/go-navparams/pkg/reconfigure"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSchemaCommand_JSON(t *testing.T) {
	out, err := execute(t, "schema", "--format", "json")
	require.NoError(t, err)

	var params []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &params))
	require.Len(t, params, 11)
	assert.Equal(t, "global_planner", params[0]["name"])
	assert.Equal(t, "oscillation_distance", params[10]["name"])
	assert.Equal(t, "double", params[10]["kind"])
}

func TestSchemaCommand_OpenAPIImportRoundTrip(t *testing.T) {
	doc, err := execute(t, "schema", "--format", "openapi")
	require.NoError(t, err)
	assert.Contains(t, doc, `"openapi": "3.0.3"`)

	path := writeFile(t, "navparams.json", doc)
	imported, err := execute(t, "import", path, "--format", "json")
	require.NoError(t, err)

	declared, err := execute(t, "schema", "--format", "json")
	require.NoError(t, err)
	assert.JSONEq(t, declared, imported)
}

func TestSchemaCommand_UnknownFormat(t *testing.T) {
	_, err := execute(t, "schema", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported schema format")
}

func TestImportCommand_MissingComponent(t *testing.T) {
	doc, err := execute(t, "schema", "--format", "openapi-yaml")
	require.NoError(t, err)

	path := writeFile(t, "navparams.yaml", doc)
	_, err = execute(t, "import", path, "--component", "Missing")
	require.Error(t, err)
}

func TestDefaultsCommand(t *testing.T) {
	out, err := execute(t, "defaults", "--format", "json")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Len(t, got, 11)
	assert.Equal(t, "navfn/NavfnROS", got["global_planner"])
	assert.Equal(t, float64(-1), got["planner_max_retries"])
	assert.Equal(t, true, got["recovery_enabled"])
}

func TestDefaultsCommand_EnvOverrides(t *testing.T) {
	t.Setenv("NAVPARAMS_PARAM_PREFIX", "NAVTEST_")
	t.Setenv("NAVTEST_PLANNER_FREQUENCY", "10")
	t.Setenv("NAVTEST_RECOVERY_ENABLED", "false")

	out, err := execute(t, "defaults", "--format", "yaml", "--env")
	require.NoError(t, err)
	assert.Contains(t, out, "planner_frequency: 10\n")
	assert.Contains(t, out, "recovery_enabled: false\n")
	assert.True(t, strings.HasPrefix(out, "global_planner: navfn/NavfnROS\n"), out)
}

func TestDefaultsCommand_EnvOutOfRange(t *testing.T) {
	t.Setenv("NAVPARAMS_PARAM_PREFIX", "NAVTEST_")
	t.Setenv("NAVTEST_PLANNER_FREQUENCY", "1000")

	_, err := execute(t, "defaults", "--env")
	require.Error(t, err)
}

func TestValidateCommand(t *testing.T) {
	good := writeFile(t, "nav.yaml", "planner_frequency: 5\ncontroller_max_retries: 3\n")
	out, err := execute(t, "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, "ok (11 parameters, 2 set)")

	bad := writeFile(t, "nav.toml", "planner_frequency = 500.0\nunknown_param = 1\n")
	out, err = execute(t, "validate", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 issue(s)")
	assert.Contains(t, out, "planner_frequency: ")
	assert.Contains(t, out, "unknown_param: ")
}

func TestRenderCommand_HTML(t *testing.T) {
	vals := writeFile(t, "nav.json", `{"controller_frequency": 12.5}`)
	output := filepath.Join(t.TempDir(), "form.html")

	out, err := execute(t, "render", "--values", vals, "--output", output)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	html := string(data)
	assert.Contains(t, html, `name="controller_frequency"`)
	assert.Contains(t, html, `value="12.5"`)
}

func TestRenderCommand_Preset(t *testing.T) {
	preset := writeFile(t, "preset.yaml", `
title: Move base tuning
fields:
  planner_frequency:
    label: Global planning rate
`)
	out, err := execute(t, "render", "--preset", preset)
	require.NoError(t, err)
	assert.Contains(t, out, "Move base tuning")
	assert.Contains(t, out, "Global planning rate")
}

func TestRenderCommand_UnknownRenderer(t *testing.T) {
	_, err := execute(t, "render", "--renderer", "pdf")
	require.Error(t, err)
}

func TestInit_RejectsBadLogLevel(t *testing.T) {
	_, err := execute(t, "--log-level", "loud", "schema")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --log-level")
}

func TestBuildHandler(t *testing.T) {
	a := &app{logger: logging.Discard()}
	s, err := loadSettings()
	require.NoError(t, err)
	a.settings = s

	vals := writeFile(t, "nav.yaml", "planner_patience: 7.5\n")
	handler, stop, err := a.buildHandler(vals, false)
	require.NoError(t, err)
	t.Cleanup(stop)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + reconfigure.PathParameters)
	require.NoError(t, err)
	var current map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&current))
	resp.Body.Close()
	assert.Equal(t, 7.5, current["planner_patience"])

	req, err := http.NewRequest(http.MethodPut, srv.URL+reconfigure.PathParameters,
		strings.NewReader(`{"planner_patience": 2, "oscillation_timeout": 30}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, err = http.Get(srv.URL + reconfigure.PathForm)
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `name="oscillation_timeout"`)
}
