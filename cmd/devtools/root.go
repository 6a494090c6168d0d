package devtools

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	logwriter "github.com/sirupsen/logrus/hooks/writer"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kestra-io/kestra-devtools/pkg"
	"github.com/kestra-io/kestra-devtools/pkg/client"
	"github.com/kestra-io/kestra-devtools/pkg/cmd/adm"
	"github.com/kestra-io/kestra-devtools/pkg/cmd/get"
	"github.com/kestra-io/kestra-devtools/pkg/cmd/report"
	"github.com/kestra-io/kestra-devtools/pkg/status"
	"github.com/kestra-io/kestra-devtools/pkg/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   pkg.ProjectName,
	Short: "Kestra developer tools",
	Long: `Kestra developer tools summarize Gradle test reports for pull requests
and watch GitHub Actions workflows across release branches.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		var err error

		// Validate logging level
		loglevel := viper.GetString("log-level")
		logrusLevel, err := log.ParseLevel(loglevel)
		if err != nil {
			log.Fatal(err)
		}
		log.SetLevel(logrusLevel)

		log.SetFormatter(&log.TextFormatter{
			FullTimestamp: true,
		})

		// stdout carries the command output
		log.SetOutput(os.Stderr)
		logFile, err := pkg.LogFilePath()
		if err != nil {
			log.Debugf("log file disabled: %v", err)
			return
		}
		fdLog, err := os.OpenFile(logFile, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
		if err != nil {
			log.Debugf("error opening file %s: %v", logFile, err)
			return
		}
		log.AddHook(&logwriter.Hook{
			Writer: fdLog,
			LogLevels: []log.Level{
				log.PanicLevel,
				log.FatalLevel,
				log.ErrorLevel,
				log.WarnLevel,
				log.InfoLevel,
				log.DebugLevel,
			},
		})
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// the command already printed its outcome
		if !errors.Is(err, pkg.ErrCommandFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func initBindFlag(flag string) {
	err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag))
	if err != nil {
		log.Warnf("Unable to bind flag %s\n", flag)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("log-level", "info", "logging level")
	rootCmd.PersistentFlags().String(client.TokenKey, "", "GitHub token, defaults to GITHUB_TOKEN or GH_TOKEN")
	initBindFlag("log-level")
	initBindFlag(client.TokenKey)
	if err := viper.BindEnv(client.TokenKey, "GITHUB_TOKEN", "GH_TOKEN"); err != nil {
		log.Warnf("Unable to bind %s to the environment\n", client.TokenKey)
	}

	// Link in child commands
	rootCmd.AddCommand(status.NewCmdStatus())
	rootCmd.AddCommand(report.NewCmdReport())
	rootCmd.AddCommand(get.NewCmdGet())
	rootCmd.AddCommand(adm.NewCmdAdm())
	rootCmd.AddCommand(version.NewCmdVersion())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.AutomaticEnv() // read in environment variables that match
}
