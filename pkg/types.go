package pkg

import (
	"github.com/adrg/xdg"
	"github.com/pkg/errors"
)

const (
	ProjectName  = "kestra-devtools"
	LogFileName  = "devtools.log"
	DefaultOwner = "kestra-io"
)

// ErrCommandFailed is returned by a command whose outcome is a failure once
// its output has been printed, so the process exits non-zero.
var ErrCommandFailed = errors.New("command reported a failure")

// LogFilePath returns the log file location under the XDG cache directory,
// creating the parent directory.
func LogFilePath() (string, error) {
	path, err := xdg.CacheFile(ProjectName + "/" + LogFileName)
	if err != nil {
		return "", errors.Wrap(err, "unable to resolve log file path")
	}
	return path, nil
}
