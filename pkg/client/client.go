package client

import (
	"net/http"
	"time"

	"github.com/google/go-github/v59/github"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	gh "github.com/kestra-io/kestra-devtools/internal/github"
)

// TokenKey is the viper key holding the GitHub token. It is bound to the
// --github-token flag and to the GITHUB_TOKEN and GH_TOKEN variables.
const TokenKey = "github-token"

var ErrMissingToken = errors.New("GITHUB_TOKEN is mandatory")

var httpTimeout = 30 * time.Second

// GitHubToken returns the configured token, or ErrMissingToken.
func GitHubToken() (string, error) {
	token := viper.GetString(TokenKey)
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}

// CreateGitHubClient creates the GitHub REST client authenticated with
// token and the collaborators bound to it.
func CreateGitHubClient(token string) (*gh.Client, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	httpClient := &http.Client{Timeout: httpTimeout}
	return gh.NewClient(github.NewClient(httpClient).WithAuthToken(token)), nil
}

// CreateClients resolves the token from the configuration and creates the
// GitHub client.
func CreateClients() (*gh.Client, error) {
	token, err := GitHubToken()
	if err != nil {
		return nil, err
	}
	return CreateGitHubClient(token)
}
