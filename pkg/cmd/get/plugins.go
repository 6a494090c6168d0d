package get

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kestra-io/kestra-devtools/internal/kestra"
	"github.com/kestra-io/kestra-devtools/pkg"
)

type pluginsOptions struct {
	apiURL string
	file   string
	output string
	json   bool
}

var compatibleOptions pluginsOptions
var fileOptions pluginsOptions

var compatiblePluginsCmd = &cobra.Command{
	Use:     "compatible-plugins [kestraVersion]",
	Aliases: []string{"getCompatiblePlugins"},
	Example: "kestra-devtools get compatible-plugins 0.23.0",
	Short:   "Print the latest plugins compatible with a Kestra version.",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCompatiblePlugins(cmd.Context(), os.Stdout, args[0], &compatibleOptions)
	},
}

var pluginsCmd = &cobra.Command{
	Use:     "plugins [version]",
	Example: "kestra-devtools get plugins --file .plugins.json 0.23.0",
	Short:   "Print the plugins of a plugins file at a given version.",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlugins(os.Stdout, args[0], &fileOptions)
	},
}

func init() {
	compatiblePluginsCmd.Flags().StringVar(&compatibleOptions.apiURL, "api-url", kestra.DefaultAPIBaseURL, "Kestra API base URL")
	compatiblePluginsCmd.Flags().StringVarP(&compatibleOptions.output, "output", "o", pkg.OutputFormatText, "Output format: text, json or yaml")
	compatiblePluginsCmd.Flags().BoolVar(&compatibleOptions.json, "json", false, "Shortcut for --output=json")

	pluginsCmd.Flags().StringVar(&fileOptions.file, "file", "", "Path of the plugins file. Example: --file .plugins.json")
	pluginsCmd.Flags().StringVarP(&fileOptions.output, "output", "o", pkg.OutputFormatText, "Output format: text, json or yaml")
	pluginsCmd.Flags().BoolVar(&fileOptions.json, "json", false, "Shortcut for --output=json")
	_ = pluginsCmd.MarkFlagRequired("file")
}

func (o *pluginsOptions) format() (string, error) {
	output := o.output
	if o.json {
		output = pkg.OutputFormatJSON
	}
	return output, pkg.ValidateOutputFormat(output)
}

func runCompatiblePlugins(ctx context.Context, w io.Writer, version string, o *pluginsOptions) error {
	output, err := o.format()
	if err != nil {
		return err
	}
	plugins, err := kestra.NewAPI(o.apiURL).LatestCompatiblePlugins(ctx, version)
	if err != nil {
		return err
	}
	return pkg.PrintOutput(w, output, plugins.String()+"\n", plugins)
}

func runPlugins(w io.Writer, version string, o *pluginsOptions) error {
	output, err := o.format()
	if err != nil {
		return err
	}
	list, err := kestra.ListPluginsFile(o.file, version)
	if err != nil {
		return err
	}
	text := fmt.Sprintf("%s\n\n#> Repositories (%d):\n%s\n",
		strings.Join(list.Plugins, " "), len(list.Repositories), strings.Join(list.Repositories, "\n"))
	return pkg.PrintOutput(w, output, text, list)
}
