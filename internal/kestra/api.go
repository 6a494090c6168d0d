// Package kestra queries the Kestra public API and reads the plugin lists
// used to build Kestra distributions.
package kestra

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	defaultConnTimeoutSec       = 10
	defaultMaxIdleConns         = 100
	defaultMaxConnsPerHost      = 100
	defaultMaxIddleConnsPerHost = 100
	DefaultAPIBaseURL           = "https://api.kestra.io/v1"
	apiPathCoreCompatibility    = "/plugins/artifacts/core-compatibility/%s/latest"
)

// CompatiblePlugin is an item of the core-compatibility endpoint.
type CompatiblePlugin struct {
	GroupID    string `json:"groupId" yaml:"groupId"`
	ArtifactID string `json:"artifactId" yaml:"artifactId"`
	License    string `json:"license" yaml:"license"`
	Version    string `json:"version" yaml:"version"`
}

// Coordinates returns the Maven coordinates groupId:artifactId:version.
func (p *CompatiblePlugin) Coordinates() string {
	return fmt.Sprintf("%s:%s:%s", p.GroupID, p.ArtifactID, p.Version)
}

// CompatiblePlugins is the list returned for a Kestra version.
type CompatiblePlugins []CompatiblePlugin

// String formats the plugins the way the CI build scripts consume them:
// coordinates separated by spaces.
func (cp CompatiblePlugins) String() string {
	out := make([]string, 0, len(cp))
	for i := range cp {
		out = append(out, cp[i].Coordinates())
	}
	return strings.Join(out, " ")
}

// API is the Kestra API client.
type API struct {
	client  *http.Client
	baseURL string
}

// NewAPI creates a client, tuning the transport for connection reuse.
// An empty baseURL targets the public API.
func NewAPI(baseURL string) *API {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = defaultMaxIdleConns
	t.MaxConnsPerHost = defaultMaxConnsPerHost
	t.MaxIdleConnsPerHost = defaultMaxIddleConnsPerHost

	if baseURL == "" {
		baseURL = DefaultAPIBaseURL
	}
	return &API{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout:   defaultConnTimeoutSec * time.Second,
			Transport: t,
		},
	}
}

// LatestCompatiblePlugins returns the latest plugin versions compatible with
// the Kestra version.
func (a *API) LatestCompatiblePlugins(ctx context.Context, kestraVersion string) (CompatiblePlugins, error) {
	if kestraVersion == "" {
		return nil, errors.New("kestra version is required")
	}
	reqURL := a.baseURL + fmt.Sprintf(apiPathCoreCompatibility, url.PathEscape(kestraVersion))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't create the request")
	}
	req.Header.Set("Accept", "application/json")

	log.Debugf("GET %s", reqURL)
	res, err := a.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't call URL %s", reqURL)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't read response body")
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, errors.Errorf("invalid status code %d from %s", res.StatusCode, reqURL)
	}

	plugins := CompatiblePlugins{}
	if err := json.Unmarshal(body, &plugins); err != nil {
		return nil, errors.Wrapf(err, "couldn't unmarshal response body: %s", string(body))
	}
	return plugins, nil
}
