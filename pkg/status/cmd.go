package status

import (
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	gh "github.com/kestra-io/kestra-devtools/internal/github"
	"github.com/kestra-io/kestra-devtools/pkg"
	"github.com/kestra-io/kestra-devtools/pkg/client"
)

// cmdInputStatus stores the input arguments of the check-workflow-status command.
type cmdInputStatus struct {
	Owner          string
	Repo           string
	Branches       string
	Retry          int
	Notify         bool
	RequireSuccess bool
	JSON           bool
	Output         string
}

var cmdArgsStatus cmdInputStatus
var cmdStatus = &cobra.Command{
	Use:     "check-workflow-status [workflow]",
	Aliases: []string{"checkWorkflowStatus"},
	Example: "kestra-devtools check-workflow-status main-build.yml --repo=kestra-ee --branches=releases/v0.22.x,releases/v0.23.x",
	Short:   "Show the status of the latest run of a GitHub Actions workflow on several branches",
	Long: `Show the status of the latest run of a GitHub Actions workflow on several branches.
Exits 1 when a run failed, or when a run is not successful with --require-success.`,
	Args: cobra.ExactArgs(1),
	RunE: cmdStatusRun,
}

func init() {
	cmdStatus.Flags().StringVar(&cmdArgsStatus.Owner, "owner", pkg.DefaultOwner, "GitHub repository owner")
	cmdStatus.Flags().StringVar(&cmdArgsStatus.Repo, "repo", "", "GitHub repository name")
	cmdStatus.Flags().StringVar(&cmdArgsStatus.Branches, "branches", "", "Comma separated list of branches to check")
	cmdStatus.Flags().IntVar(&cmdArgsStatus.Retry, "retry", 0, "Re-run a failed workflow once when set to 1")
	cmdStatus.Flags().BoolVar(&cmdArgsStatus.Notify, "notify", false, "Send a desktop notification for finished runs")
	cmdStatus.Flags().BoolVar(&cmdArgsStatus.RequireSuccess, "require-success", false, "Fail unless every run succeeded, in progress runs included")
	cmdStatus.Flags().BoolVar(&cmdArgsStatus.JSON, "json", false, "Shortcut for --output=json")
	cmdStatus.Flags().StringVarP(&cmdArgsStatus.Output, "output", "o", pkg.OutputFormatText, "Output format: text, json or yaml")

	_ = cmdStatus.MarkFlagRequired("repo")
	_ = cmdStatus.MarkFlagRequired("branches")
}

func NewCmdStatus() *cobra.Command {
	return cmdStatus
}

func cmdStatusRun(cmd *cobra.Command, args []string) error {
	output := cmdArgsStatus.Output
	if cmdArgsStatus.JSON {
		output = pkg.OutputFormatJSON
	}
	if err := pkg.ValidateOutputFormat(output); err != nil {
		return err
	}
	if cmd.Flags().Changed("retry") && cmdArgsStatus.Retry == 0 {
		return errors.Wrap(ErrInvalidRetry, "retry must be 1")
	}

	ghClient, err := client.CreateClients()
	if err != nil {
		log.WithError(err).Error("error creating GitHub client")
		return err
	}
	checker := NewChecker(&CheckerInput{Client: ghClient})

	res, err := checker.Check(cmd.Context(), &CheckInput{
		Owner:      cmdArgsStatus.Owner,
		Repo:       cmdArgsStatus.Repo,
		WorkflowID: args[0],
		Branches:   parseBranches(cmdArgsStatus.Branches),
		Retry:      cmdArgsStatus.Retry,
		Notify:     cmdArgsStatus.Notify,
	})
	if err != nil {
		log.WithError(err).Error("error checking workflow status")
		return err
	}

	if err := pkg.PrintOutput(os.Stdout, output, res.Output+"\n", res); err != nil {
		return err
	}
	return exitStatus(res.Status, cmdArgsStatus.RequireSuccess)
}

func exitStatus(status gh.RunStatus, requireSuccess bool) error {
	if requireSuccess && status != gh.RunStatusSuccess {
		return errors.Wrapf(pkg.ErrCommandFailed, "workflow status is %s", status)
	}
	if status == gh.RunStatusFailure {
		return errors.Wrap(pkg.ErrCommandFailed, "a workflow run failed")
	}
	return nil
}
