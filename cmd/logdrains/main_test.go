package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const drainJSON = `{"clientId":"oac_1","configurationId":"icfg_1","createdAt":1700000000000,"id":"ld_1","type":"ndjson","name":"prod","ownerId":"team_1","projectId":null,"url":"https://logs.example.com"}`

func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/integrations/log-drains", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "team_1", r.URL.Query().Get("teamId"))
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte("[" + drainJSON + "]"))
		case http.MethodPost:
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "prod", body["name"])
			assert.Equal(t, "ndjson", body["type"])
			_, _ = w.Write([]byte(drainJSON))
		}
	})
	mux.HandleFunc("/v1/integrations/log-drains/ld_1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/v1/integrations/log-drains/ld_missing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/v4/projects", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"projects":[{"accountId":"team_1","id":"prj_1","name":"storefront"}]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, apiURL string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("VERCEL_TOKEN", "tok")
	t.Setenv("VERCEL_TEAM_ID", "team_1")

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--api-url", apiURL}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestDrainsList(t *testing.T) {
	srv := fakeAPI(t)

	out, _, err := run(t, srv.URL, "drains", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "ld_1")
	assert.Contains(t, out, "https://logs.example.com")
	assert.Contains(t, out, "2023-11-14T22:13:20Z")

	out, _, err = run(t, srv.URL, "drains", "list", "--json")
	require.NoError(t, err)
	var drains []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &drains))
	require.Len(t, drains, 1)
	assert.Equal(t, "prod", drains[0]["name"])
}

func TestDrainsCreate(t *testing.T) {
	srv := fakeAPI(t)

	out, _, err := run(t, srv.URL, "drains", "create", "--name", "prod", "--url", "https://logs.example.com")
	require.NoError(t, err)
	assert.Equal(t, "Created log drain ld_1 (prod).\n", out)
}

func TestDrainsCreate_InvalidURL(t *testing.T) {
	srv := fakeAPI(t)

	_, stderr, err := run(t, srv.URL, "drains", "create", "--name", "prod", "--url", "ftp://logs.example.com")
	require.Error(t, err)
	assert.Contains(t, stderr, "url for a ndjson drain must start with")
}

func TestDrainsDelete(t *testing.T) {
	srv := fakeAPI(t)

	out, _, err := run(t, srv.URL, "drains", "delete", "ld_1")
	require.NoError(t, err)
	assert.Equal(t, "Deleted log drain ld_1.\n", out)

	_, stderr, err := run(t, srv.URL, "drains", "delete", "ld_missing")
	require.Error(t, err)
	assert.Contains(t, stderr, "delete ld_missing")
}

func TestProjectsList(t *testing.T) {
	srv := fakeAPI(t)

	out, _, err := run(t, srv.URL, "projects", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "storefront")
	assert.Contains(t, out, "prj_1")
}

func TestMissingToken(t *testing.T) {
	srv := fakeAPI(t)

	_, _, err := run(t, srv.URL, "--token", "", "drains", "list")
	assert.EqualError(t, err, "missing --token (or set VERCEL_TOKEN)")
}

func TestDebugLogsAPICalls(t *testing.T) {
	srv := fakeAPI(t)

	_, stderr, err := run(t, srv.URL, "--debug", "projects", "list")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Vercel API call")
	assert.Contains(t, stderr, "/v4/projects")

	_, stderr, err = run(t, srv.URL, "projects", "list")
	require.NoError(t, err)
	assert.Empty(t, stderr)
}
