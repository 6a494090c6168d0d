package github

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-github/v59/github"
	"github.com/stretchr/testify/require"
)

// newTestClient returns a Client talking to a local server backed by mux.
func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	serverURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	ghClient := github.NewClient(nil)
	ghClient.BaseURL = serverURL

	return NewClient(ghClient)
}
