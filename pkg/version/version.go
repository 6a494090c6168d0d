// Package version contains all identifiable versioning info for
// describing the kestra-devtools project.
package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kestra-io/kestra-devtools/pkg"
)

var (
	projectName = pkg.ProjectName
	version     = "unknown"
	commit      = "unknown"
)

var Version = VersionContext{
	Name:    projectName,
	Version: version,
	Commit:  commit,
}

type VersionContext struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
}

func (vc *VersionContext) String() string {
	return fmt.Sprintf("%s: %s+%s", vc.Name, vc.Version, vc.Commit)
}

func NewCmdVersion() *cobra.Command {
	output := pkg.OutputFormatText
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print kestra-devtools version",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pkg.ValidateOutputFormat(output); err != nil {
				return err
			}
			return pkg.PrintOutput(cmd.OutOrStdout(), output, Version.String()+"\n", Version)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", pkg.OutputFormatText, "Output format: text, json or yaml")
	return cmd
}
