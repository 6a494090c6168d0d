package status

import (
	"strings"

	gh "github.com/kestra-io/kestra-devtools/internal/github"
)

// OverallStatus is failure when any branch failed, otherwise in_progress
// when any branch is still running, otherwise success.
func OverallStatus(statuses []gh.RunStatus) gh.RunStatus {
	overall := gh.RunStatusSuccess
	for _, s := range statuses {
		switch s {
		case gh.RunStatusFailure:
			return gh.RunStatusFailure
		case gh.RunStatusInProgress:
			overall = gh.RunStatusInProgress
		}
	}
	return overall
}

func statusToIcon(s gh.RunStatus) string {
	switch s {
	case gh.RunStatusSuccess:
		return string(s) + " ✅"
	case gh.RunStatusFailure:
		return string(s) + " ❌"
	case gh.RunStatusInProgress:
		return string(s) + " ⏳"
	}
	return string(s)
}

// parseBranches splits a comma separated list, dropping blanks.
func parseBranches(s string) []string {
	var branches []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			branches = append(branches, b)
		}
	}
	return branches
}
