package github

import (
	"context"
	"strconv"
	"time"

	"github.com/google/go-github/v59/github"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type RunStatus string

const (
	RunStatusSuccess    RunStatus = "success"
	RunStatusFailure    RunStatus = "failure"
	RunStatusInProgress RunStatus = "in_progress"
)

var ErrNoRunsFound = errors.New("no workflow run found")

// WorkflowRun is the latest run of a workflow on a branch.
type WorkflowRun struct {
	RunID        int64     `json:"runId" yaml:"runId"`
	Name         string    `json:"name" yaml:"name"`
	CommitText   string    `json:"commitText" yaml:"commitText"`
	Status       RunStatus `json:"status" yaml:"status"`
	RunStartDate string    `json:"runStartDate" yaml:"runStartDate"`
	URL          string    `json:"url" yaml:"url"`
}

// LatestWorkflowRun returns the most recent run of workflowID on branch.
// workflowID is either the numeric id or the workflow file name.
func (c *Client) LatestWorkflowRun(ctx context.Context, owner, repo, workflowID, branch string) (*WorkflowRun, error) {
	opts := &github.ListWorkflowRunsOptions{
		Branch:      branch,
		ListOptions: github.ListOptions{PerPage: 1},
	}

	var runs *github.WorkflowRuns
	var err error
	if id, perr := strconv.ParseInt(workflowID, 10, 64); perr == nil {
		runs, _, err = c.actions.ListWorkflowRunsByID(ctx, owner, repo, id, opts)
	} else {
		runs, _, err = c.actions.ListWorkflowRunsByFileName(ctx, owner, repo, workflowID, opts)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "unable to list runs of workflow %s on %s/%s branch %s", workflowID, owner, repo, branch)
	}
	if runs == nil || len(runs.WorkflowRuns) == 0 {
		log.Warnf("No run found for owner: %s repo: %s, workflow: %s, branch: %s", owner, repo, workflowID, branch)
		return nil, errors.Wrapf(ErrNoRunsFound, "workflow %s on branch %s", workflowID, branch)
	}

	last := runs.WorkflowRuns[0]
	run := &WorkflowRun{
		RunID:      last.GetID(),
		Name:       last.GetName(),
		CommitText: last.GetDisplayTitle(),
		Status:     runStatus(last.GetStatus(), last.GetConclusion()),
		URL:        last.GetHTMLURL(),
	}
	if started := last.GetRunStartedAt(); !started.Time.IsZero() {
		run.RunStartDate = started.UTC().Format(time.RFC3339)
	}
	return run, nil
}

func runStatus(status, conclusion string) RunStatus {
	if status != "completed" {
		return RunStatusInProgress
	}
	if conclusion == "success" || conclusion == "neutral" {
		return RunStatusSuccess
	}
	return RunStatusFailure
}

// ReRunWorkflow triggers a new attempt of the run.
func (c *Client) ReRunWorkflow(ctx context.Context, owner, repo string, runID int64) error {
	if _, err := c.actions.RerunWorkflowByID(ctx, owner, repo, runID); err != nil {
		return errors.Wrapf(err, "unable to re-run workflow run %d on %s/%s", runID, owner, repo)
	}
	log.Debugf("re-run triggered for run %d on %s/%s", runID, owner, repo)
	return nil
}
