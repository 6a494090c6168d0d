package status

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	gh "github.com/kestra-io/kestra-devtools/internal/github"
	"github.com/kestra-io/kestra-devtools/internal/notify"
)

var (
	ErrNoBranches          = errors.New("at least one branch is required")
	ErrInvalidRetry        = errors.New("invalid retry argument")
	ErrRetryNotImplemented = errors.New("retry greater than 1 is not implemented")
)

// WorkflowClient looks up and re-runs GitHub Actions workflow runs.
type WorkflowClient interface {
	LatestWorkflowRun(ctx context.Context, owner, repo, workflowID, branch string) (*gh.WorkflowRun, error)
	ReRunWorkflow(ctx context.Context, owner, repo string, runID int64) error
}

// Checker reports the latest run of a workflow on a set of branches.
type Checker struct {
	client   WorkflowClient
	notifier notify.Notifier
}

type CheckerInput struct {
	Client   WorkflowClient
	Notifier notify.Notifier
}

func NewChecker(in *CheckerInput) *Checker {
	c := &Checker{
		client:   in.Client,
		notifier: in.Notifier,
	}
	if c.notifier == nil {
		c.notifier = notify.NewDesktop()
	}
	return c
}

// CheckInput selects the workflow runs to check. Retry is 0 or 1: with 1 a
// failed run is re-run once.
type CheckInput struct {
	Owner      string
	Repo       string
	WorkflowID string
	Branches   []string
	Retry      int
	Notify     bool
}

type TriggeredRetry struct {
	Branch string `json:"branch" yaml:"branch"`
}

// BranchStatus is the outcome for one branch. Run is nil when the branch
// has no run.
type BranchStatus struct {
	Branch string          `json:"branch" yaml:"branch"`
	Status gh.RunStatus    `json:"status" yaml:"status"`
	Run    *gh.WorkflowRun `json:"run,omitempty" yaml:"run,omitempty"`
}

type CheckResult struct {
	Output           string           `json:"output" yaml:"output"`
	Status           gh.RunStatus     `json:"status" yaml:"status"`
	TriggeredRetries []TriggeredRetry `json:"triggeredRetries" yaml:"triggeredRetries"`
	Branches         []BranchStatus   `json:"branches" yaml:"branches"`
}

func (in *CheckInput) validate() error {
	if len(in.Branches) == 0 {
		return ErrNoBranches
	}
	switch {
	case in.Retry < 0:
		return errors.Wrapf(ErrInvalidRetry, "%d", in.Retry)
	case in.Retry > 1:
		return errors.Wrapf(ErrRetryNotImplemented, "retry=%d", in.Retry)
	}
	return nil
}

// Check walks the branches in order. A branch without any run is reported
// and counted as failed; any other lookup error stops the check.
func (c *Checker) Check(ctx context.Context, in *CheckInput) (*CheckResult, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	p := newPrinter()
	var out strings.Builder
	if err := p.header(&out, in); err != nil {
		return nil, err
	}

	res := &CheckResult{
		TriggeredRetries: []TriggeredRetry{},
		Branches:         make([]BranchStatus, 0, len(in.Branches)),
	}
	for _, branch := range in.Branches {
		run, err := c.client.LatestWorkflowRun(ctx, in.Owner, in.Repo, in.WorkflowID, branch)
		if errors.Is(err, gh.ErrNoRunsFound) {
			log.WithError(err).Warnf("branch %s has no run", branch)
			fmt.Fprintf(&out, "\n%s > no run found ❓\n", branch)
			res.Branches = append(res.Branches, BranchStatus{Branch: branch, Status: gh.RunStatusFailure})
			continue
		}
		if err != nil {
			return nil, err
		}

		if err := p.branch(&out, branch, run); err != nil {
			return nil, err
		}
		res.Branches = append(res.Branches, BranchStatus{Branch: branch, Status: run.Status, Run: run})

		if in.Notify && run.Status != gh.RunStatusInProgress {
			c.notifier.Notify(fmt.Sprintf("%s > %s", branch, statusToIcon(run.Status)), fmt.Sprintf("%s\n%s", run.Name, run.URL))
		}

		if run.Status == gh.RunStatusFailure && in.Retry == 1 {
			if err := c.client.ReRunWorkflow(ctx, in.Owner, in.Repo, run.RunID); err != nil {
				return nil, err
			}
			fmt.Fprintf(&out, "\t retrying %s workflow\n", branch)
			res.TriggeredRetries = append(res.TriggeredRetries, TriggeredRetry{Branch: branch})
		}
	}

	statuses := make([]gh.RunStatus, 0, len(res.Branches))
	for _, b := range res.Branches {
		statuses = append(statuses, b.Status)
	}
	res.Status = OverallStatus(statuses)
	res.Output = out.String()
	return res, nil
}
