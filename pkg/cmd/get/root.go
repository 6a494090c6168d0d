package get

import (
	"fmt"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Get Kestra build information.",
	Run:   runGet,
}

func init() {
	getCmd.AddCommand(compatiblePluginsCmd)
	getCmd.AddCommand(pluginsCmd)
}

func NewCmdGet() *cobra.Command {
	return getCmd
}

func runGet(cmd *cobra.Command, args []string) {
	fmt.Println("Nothing to do. See -h for more options.")
}
