package report

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	gh "github.com/kestra-io/kestra-devtools/internal/github"
	"github.com/kestra-io/kestra-devtools/internal/report"
	"github.com/kestra-io/kestra-devtools/pkg"
	"github.com/kestra-io/kestra-devtools/pkg/client"
)

type Input struct {
	onlyErrors             bool
	ci                     bool
	failOnError            bool
	testPattern            string
	integrationTestPattern string
	flakyTestPattern       string
	failuresSheet          string
}

// CommentPoster publishes the summary on the pull request.
type CommentPoster interface {
	UpsertComment(ctx context.Context, owner, repo string, prNumber int, key, body string) (*gh.Comment, error)
}

var newCommentPoster = func() (CommentPoster, error) {
	c, err := client.CreateClients()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func NewCmdReport() *cobra.Command {
	data := Input{}
	cmd := &cobra.Command{
		Use:     "generate-test-report-summary [absolute-dir]",
		Aliases: []string{"generateTestReportSummary"},
		Example: "kestra-devtools generate-test-report-summary $(pwd) --only-errors --ci",
		Short:   "Render the JUnit reports of a Gradle build as a Markdown summary.",
		Long: `Render the JUnit reports of a Gradle build as a Markdown summary.
Unit, integration and flaky test reports are summarized in their own section.
With --ci the summary is also posted, or updated, as a comment on the pull request.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return processSummary(cmd.Context(), args[0], &data, os.Stdout, os.Stderr)
		},
	}

	cmd.Flags().BoolVarP(
		&data.onlyErrors, "only-errors", "", false,
		"Only render failed tests, with their logs. Example: --only-errors",
	)
	cmd.Flags().BoolVarP(
		&data.ci, "ci", "", false,
		"Post the summary as a pull request comment, using GITHUB_REPOSITORY and GITHUB_EVENT_PATH.",
	)
	cmd.Flags().BoolVarP(
		&data.failOnError, "fail-on-error", "", false,
		"Print the summary on stderr and exit 1 when a unit test failed.",
	)
	cmd.Flags().StringVarP(
		&data.testPattern, "test-pattern", "", report.DefaultTestPattern,
		"Glob of the unit test reports, relative to the directory.",
	)
	cmd.Flags().StringVarP(
		&data.integrationTestPattern, "integration-test-pattern", "", report.DefaultIntegrationTestPattern,
		"Glob of the integration test reports, relative to the directory.",
	)
	cmd.Flags().StringVarP(
		&data.flakyTestPattern, "flaky-test-pattern", "", report.DefaultFlakyTestPattern,
		"Glob of the flaky test reports, relative to the directory.",
	)
	cmd.Flags().StringVarP(
		&data.failuresSheet, "failures-sheet", "", "",
		"Save an index of failed tests to a spreadsheet. Example: --failures-sheet failures.xlsx",
	)

	return cmd
}

// processSummary generates the summary of workingDir and writes it out.
func processSummary(ctx context.Context, workingDir string, input *Input, stdout, stderr io.Writer) error {
	if err := pkg.ValidateWorkingDir(workingDir); err != nil {
		return err
	}
	log.Debugf("kestra repository: %s", pkg.InferKestraRepository(viper.GetString("GITHUB_REPOSITORY"), workingDir))

	res, err := report.GenerateSummary(workingDir, &report.SummaryOptions{
		OnlyErrors:             input.onlyErrors,
		TestPattern:            input.testPattern,
		IntegrationTestPattern: input.integrationTestPattern,
		FlakyTestPattern:       input.flakyTestPattern,
		FailuresSheet:          input.failuresSheet,
	})
	if err != nil {
		return errors.Wrapf(err, "could not summarize test reports in %s", workingDir)
	}

	if input.ci {
		if err := postComment(ctx, res.Output); err != nil {
			return err
		}
	}

	if input.failOnError && res.Status == report.SummaryStatusFailure {
		fmt.Fprintln(stderr, res.Output)
		return errors.Wrap(pkg.ErrCommandFailed, "unit tests failed")
	}
	fmt.Fprintln(stdout, res.Output)
	return nil
}

func postComment(ctx context.Context, body string) error {
	pr, err := gh.DetectPRContext(getenv)
	if err != nil {
		return err
	}
	poster, err := newCommentPoster()
	if err != nil {
		return err
	}
	comment, err := poster.UpsertComment(ctx, pr.Owner, pr.Repo, pr.PRNumber, gh.CommentMarkerKey, body)
	if err != nil {
		return errors.Wrapf(err, "could not comment pull request %s/%s#%d", pr.Owner, pr.Repo, pr.PRNumber)
	}
	log.Infof("summary posted on %s/%s#%d (comment %d)", pr.Owner, pr.Repo, pr.PRNumber, comment.ID)
	return nil
}

// getenv reads through viper so values set in the configuration win over
// the process environment.
func getenv(key string) string {
	if v := viper.GetString(key); v != "" {
		return v
	}
	return os.Getenv(key)
}
