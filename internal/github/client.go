// Package github wraps the GitHub REST calls used by the release and
// reporting commands: workflow runs, re-runs and pull request comments.
package github

import (
	"context"

	"github.com/google/go-github/v59/github"
)

// ActionsService is the subset of the GitHub Actions API in use.
type ActionsService interface {
	ListWorkflowRunsByID(ctx context.Context, owner, repo string, workflowID int64, opts *github.ListWorkflowRunsOptions) (*github.WorkflowRuns, *github.Response, error)
	ListWorkflowRunsByFileName(ctx context.Context, owner, repo, workflowFileName string, opts *github.ListWorkflowRunsOptions) (*github.WorkflowRuns, *github.Response, error)
	RerunWorkflowByID(ctx context.Context, owner, repo string, runID int64) (*github.Response, error)
}

// IssuesService is the subset of the GitHub Issues API in use.
type IssuesService interface {
	ListComments(ctx context.Context, owner, repo string, number int, opts *github.IssueListCommentsOptions) ([]*github.IssueComment, *github.Response, error)
	CreateComment(ctx context.Context, owner, repo string, number int, comment *github.IssueComment) (*github.IssueComment, *github.Response, error)
	EditComment(ctx context.Context, owner, repo string, commentID int64, comment *github.IssueComment) (*github.IssueComment, *github.Response, error)
}

type Client struct {
	actions ActionsService
	issues  IssuesService
}

// NewClient binds the collaborators to an authenticated go-github client.
func NewClient(gh *github.Client) *Client {
	return &Client{actions: gh.Actions, issues: gh.Issues}
}

// NewClientWithServices is used when the services are provided separately,
// as test doubles for instance.
func NewClientWithServices(actions ActionsService, issues IssuesService) *Client {
	return &Client{actions: actions, issues: issues}
}
