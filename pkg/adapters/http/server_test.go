package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nodedev "github.com/ian-griptape-ai/node-development"
	"github.com/ian-griptape-ai/node-development/pkg/adapters/file"
	httpadapter "github.com/ian-griptape-ai/node-development/pkg/adapters/http"
	"github.com/ian-griptape-ai/node-development/pkg/adapters/memory"
	"github.com/ian-griptape-ai/node-development/pkg/domain"
	"github.com/ian-griptape-ai/node-development/pkg/nodes"
)

func newTestServer(t *testing.T, docContent string) (*httptest.Server, string) {
	t.Helper()
	ctx := context.Background()

	dir := t.TempDir()
	path := filepath.Join(dir, "doc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(docContent), 0644))

	host := nodedev.New()
	node := nodes.NewYAMLLoader("loader", memory.NewRegistry(), file.NewLoader())
	require.NoError(t, host.Register(ctx, node))

	srv := httptest.NewServer(httpadapter.NewHandler(host))
	t.Cleanup(srv.Close)
	return srv, path
}

func putParam(t *testing.T, srv *httptest.Server, node, param, value string) *http.Response {
	t.Helper()
	body, err := json.Marshal(map[string]string{"value": value})
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPut,
		srv.URL+"/nodes/"+node+"/params/"+param, bytes.NewReader(body))
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestServer_Health(t *testing.T) {
	srv, _ := newTestServer(t, "a: 1\n")

	resp, err := srv.Client().Get(srv.URL + "/healthz")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]string{"status": "ok"}, decode[map[string]string](t, resp))
}

func TestServer_ListNodes(t *testing.T) {
	srv, _ := newTestServer(t, "a: 1\n")

	resp, err := srv.Client().Get(srv.URL + "/nodes")
	require.NoError(t, err)
	body := decode[map[string][]string](t, resp)
	assert.Equal(t, []string{"loader"}, body["nodes"])
}

func TestServer_SetSourceAndRun(t *testing.T) {
	srv, path := newTestServer(t, "server:\n  host: localhost\n")

	resp := putParam(t, srv, "loader", "yaml_file", path)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	outcome := decode[domain.Outcome](t, resp)
	assert.Equal(t, []string{"output_server.host"}, outcome.Created)
	assert.Equal(t, "YAML file loaded successfully", outcome.Status)

	// A second run over the same document only updates.
	runResp, err := srv.Client().Post(srv.URL+"/nodes/loader/run", "application/json", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, runResp.StatusCode)
	outcome = decode[domain.Outcome](t, runResp)
	assert.Empty(t, outcome.Created)
	assert.Equal(t, []string{"output_server.host"}, outcome.Updated)
}

func TestServer_GetSlots(t *testing.T) {
	srv, path := newTestServer(t, "a: 1\n")
	putParam(t, srv, "loader", "yaml_file", path)

	resp, err := srv.Client().Get(srv.URL + "/nodes/loader/slots")
	require.NoError(t, err)
	body := decode[map[string][]domain.Slot](t, resp)

	names := make([]string, 0, len(body["slots"]))
	for _, s := range body["slots"] {
		names = append(names, s.Spec.Name)
	}
	assert.Equal(t, []string{"yaml_file", "key_filter", "yaml_data", "status_message", "output_a"}, names)
}

func TestServer_UnknownNode(t *testing.T) {
	srv, _ := newTestServer(t, "a: 1\n")

	resp, err := srv.Client().Post(srv.URL+"/nodes/ghost/run", "application/json", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_UnknownParam(t *testing.T) {
	srv, _ := newTestServer(t, "a: 1\n")

	resp := putParam(t, srv, "loader", "ghost_param", "x")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_MissingSourceIsClientError(t *testing.T) {
	srv, path := newTestServer(t, "a: 1\n")

	resp := putParam(t, srv, "loader", "yaml_file", path+".missing")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	body := decode[map[string]any](t, resp)
	assert.Contains(t, body["error"], "document not found")
}
