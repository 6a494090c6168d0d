package github

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var ErrMissingPRContext = errors.New("pull request context not found")

// PRContext locates the pull request a workflow is running for.
type PRContext struct {
	Owner    string
	Repo     string
	PRNumber int
}

type eventPayload struct {
	Number      int `json:"number"`
	PullRequest struct {
		Number int `json:"number"`
	} `json:"pull_request"`
	Issue struct {
		Number int `json:"number"`
	} `json:"issue"`
}

// DetectPRContext reads the GitHub Actions environment through getenv:
// GITHUB_REPOSITORY for owner/repo, then the event payload at
// GITHUB_EVENT_PATH or a refs/pull/<n>/merge GITHUB_REF for the number.
func DetectPRContext(getenv func(string) string) (*PRContext, error) {
	owner, repo, ok := strings.Cut(getenv("GITHUB_REPOSITORY"), "/")
	if !ok || owner == "" || repo == "" {
		return nil, errors.Wrap(ErrMissingPRContext, "GITHUB_REPOSITORY must be set as owner/repo")
	}
	ctx := &PRContext{Owner: owner, Repo: repo}

	if path := getenv("GITHUB_EVENT_PATH"); path != "" {
		n, err := prNumberFromEvent(path)
		if err != nil {
			return nil, err
		}
		ctx.PRNumber = n
	}
	if ctx.PRNumber == 0 {
		ctx.PRNumber = prNumberFromRef(getenv("GITHUB_REF"))
	}
	if ctx.PRNumber == 0 {
		return nil, errors.Wrap(ErrMissingPRContext, "no pull request number in the event payload nor in GITHUB_REF")
	}
	return ctx, nil
}

func prNumberFromEvent(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, errors.Wrapf(err, "unable to read event payload %s", path)
	}
	event := eventPayload{}
	if err := json.Unmarshal(data, &event); err != nil {
		return 0, errors.Wrapf(err, "unable to parse event payload %s", path)
	}
	switch {
	case event.PullRequest.Number > 0:
		return event.PullRequest.Number, nil
	case event.Issue.Number > 0:
		return event.Issue.Number, nil
	}
	return event.Number, nil
}

func prNumberFromRef(ref string) int {
	rest, ok := strings.CutPrefix(ref, "refs/pull/")
	if !ok {
		return 0
	}
	num, _, _ := strings.Cut(rest, "/")
	n, err := strconv.Atoi(num)
	if err != nil {
		return 0
	}
	return n
}
