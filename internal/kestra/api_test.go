package kestra

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatestCompatiblePlugins(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/plugins/artifacts/core-compatibility/0.23.0/latest", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"groupId":"io.kestra.plugin","artifactId":"plugin-airbyte","license":"OPEN_SOURCE","version":"0.23.0"},
			{"groupId":"io.kestra.plugin","artifactId":"plugin-jdbc-postgres","license":"OPEN_SOURCE","version":"0.23.2"}
		]`))
	})
	mux.HandleFunc("/plugins/artifacts/core-compatibility/9.9.9/latest", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	api := NewAPI(server.URL + "/")

	t.Run("plugins are listed as coordinates", func(t *testing.T) {
		plugins, err := api.LatestCompatiblePlugins(context.Background(), "0.23.0")
		require.NoError(t, err)
		require.Len(t, plugins, 2)
		assert.Equal(t, "OPEN_SOURCE", plugins[0].License)
		assert.Equal(t, "io.kestra.plugin:plugin-airbyte:0.23.0 io.kestra.plugin:plugin-jdbc-postgres:0.23.2", plugins.String())
	})

	t.Run("unknown version", func(t *testing.T) {
		_, err := api.LatestCompatiblePlugins(context.Background(), "9.9.9")
		assert.ErrorContains(t, err, "invalid status code 404")
	})

	t.Run("version is required", func(t *testing.T) {
		_, err := api.LatestCompatiblePlugins(context.Background(), "")
		assert.Error(t, err)
	})
}

func TestNewAPIDefaultURL(t *testing.T) {
	assert.Equal(t, DefaultAPIBaseURL, NewAPI("").baseURL)
}
