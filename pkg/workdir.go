package pkg

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

var ErrInvalidWorkingDir = errors.New("invalid working directory")

const (
	RepositoryEE      = "kestra-ee"
	RepositoryOSS     = "kestra-oss"
	RepositoryUnknown = "unknown"
)

// ValidateWorkingDir checks dir is an absolute path to an existing directory.
func ValidateWorkingDir(dir string) error {
	if dir == "" {
		return errors.Wrap(ErrInvalidWorkingDir, "working directory is required")
	}
	if !filepath.IsAbs(dir) {
		return errors.Wrapf(ErrInvalidWorkingDir, "%s is not an absolute path", dir)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return errors.Wrapf(ErrInvalidWorkingDir, "%s does not exist: %v", dir, err)
	}
	if !info.IsDir() {
		return errors.Wrapf(ErrInvalidWorkingDir, "%s is not a directory", dir)
	}
	return nil
}

// InferKestraRepository guesses which Kestra repository is built, from the
// GitHub repository slug first, then from the checkout directory name.
func InferKestraRepository(githubRepository, workingDir string) string {
	switch githubRepository {
	case "kestra-io/kestra-ee":
		return RepositoryEE
	case "kestra-io/kestra":
		return RepositoryOSS
	}
	switch {
	case strings.HasSuffix(workingDir, "kestra-ee"):
		return RepositoryEE
	case strings.HasSuffix(workingDir, "kestra"):
		return RepositoryOSS
	}
	return RepositoryUnknown
}
