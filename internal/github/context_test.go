package github

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestDetectPRContext(t *testing.T) {
	eventFile := filepath.Join(t.TempDir(), "event.json")
	require.NoError(t, os.WriteFile(eventFile, []byte(`{"action":"synchronize","number":12,"pull_request":{"number":12}}`), 0o600))

	t.Run("from event payload", func(t *testing.T) {
		ctx, err := DetectPRContext(envOf(map[string]string{
			"GITHUB_REPOSITORY": "kestra-io/kestra",
			"GITHUB_EVENT_PATH": eventFile,
		}))
		require.NoError(t, err)
		assert.Equal(t, &PRContext{Owner: "kestra-io", Repo: "kestra", PRNumber: 12}, ctx)
	})

	t.Run("from ref", func(t *testing.T) {
		ctx, err := DetectPRContext(envOf(map[string]string{
			"GITHUB_REPOSITORY": "kestra-io/kestra-ee",
			"GITHUB_REF":        "refs/pull/345/merge",
		}))
		require.NoError(t, err)
		assert.Equal(t, 345, ctx.PRNumber)
		assert.Equal(t, "kestra-ee", ctx.Repo)
	})

	t.Run("push event has no pull request", func(t *testing.T) {
		_, err := DetectPRContext(envOf(map[string]string{
			"GITHUB_REPOSITORY": "kestra-io/kestra",
			"GITHUB_REF":        "refs/heads/develop",
		}))
		assert.ErrorIs(t, err, ErrMissingPRContext)
	})

	t.Run("repository is mandatory", func(t *testing.T) {
		_, err := DetectPRContext(envOf(map[string]string{"GITHUB_REF": "refs/pull/1/merge"}))
		assert.ErrorIs(t, err, ErrMissingPRContext)
	})

	t.Run("unreadable payload", func(t *testing.T) {
		_, err := DetectPRContext(envOf(map[string]string{
			"GITHUB_REPOSITORY": "kestra-io/kestra",
			"GITHUB_EVENT_PATH": filepath.Join(t.TempDir(), "missing.json"),
		}))
		assert.Error(t, err)
	})
}
