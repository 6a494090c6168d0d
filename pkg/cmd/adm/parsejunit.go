package adm

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/kestra-io/kestra-devtools/internal/report"
	"github.com/kestra-io/kestra-devtools/pkg"
	"github.com/kestra-io/kestra-devtools/pkg/api"
)

type parseJUnitInput struct {
	skipFailed  bool
	skipPassed  bool
	skipSkipped bool
	output      string
}

// junitSummary is the diagnostic view of one JUnit file.
type junitSummary struct {
	File      string                `json:"file" yaml:"file"`
	Report    *api.ModuleReport     `json:"report" yaml:"report"`
	Passed    []string              `json:"passed" yaml:"passed"`
	Failed    []string              `json:"failed" yaml:"failed"`
	Skipped   []string              `json:"skipped" yaml:"skipped"`
	Durations *report.DurationStats `json:"durations,omitempty" yaml:"durations,omitempty"`
	Errors    report.ErrorCounter   `json:"errors,omitempty" yaml:"errors,omitempty"`
}

var parseJUnitArgs parseJUnitInput
var parseJUnitCmd = &cobra.Command{
	Use:     "parse-junit file.xml",
	Example: "kestra-devtools adm parse-junit build/test-results/test/TEST-io.kestra.core.FlowTest.xml",
	Short:   "Parse JUnit file.",
	Args:    cobra.ExactArgs(1),
	RunE:    parseJUnitRun,
}

func init() {
	parseJUnitCmd.Flags().BoolVar(&parseJUnitArgs.skipFailed, "skip-failed", false, "Skip printing on stdout the failed test names.")
	parseJUnitCmd.Flags().BoolVar(&parseJUnitArgs.skipPassed, "skip-passed", false, "Skip printing on stdout the passed test names.")
	parseJUnitCmd.Flags().BoolVar(&parseJUnitArgs.skipSkipped, "skip-skipped", false, "Skip printing on stdout the skipped test names.")
	parseJUnitCmd.Flags().StringVarP(&parseJUnitArgs.output, "output", "o", pkg.OutputFormatText, "Output format: text, json or yaml")
}

func parseJUnitRun(cmd *cobra.Command, args []string) error {
	if err := pkg.ValidateOutputFormat(parseJUnitArgs.output); err != nil {
		return err
	}
	summary, err := newJUnitSummary(args[0])
	if err != nil {
		return errors.Wrap(err, "error parsing JUnit file")
	}
	if parseJUnitArgs.output != pkg.OutputFormatText {
		return pkg.PrintOutput(os.Stdout, parseJUnitArgs.output, "", summary)
	}
	return writeJUnitSummary(os.Stdout, summary, &parseJUnitArgs)
}

func newJUnitSummary(file string) (*junitSummary, error) {
	mr, err := api.ParseModuleReportFile(file)
	if err != nil {
		return nil, err
	}
	summary := &junitSummary{
		File:      file,
		Report:    mr,
		Passed:    []string{},
		Failed:    []string{},
		Skipped:   []string{},
		Durations: report.NewDurationStats(mr),
		Errors:    report.CountReportErrors(mr, report.CommonErrorPatterns),
	}
	for _, suite := range mr.TestSuites {
		for _, tc := range suite.TestCases {
			switch {
			case tc.Failed():
				summary.Failed = append(summary.Failed, tc.Name)
			case tc.Status == api.TestStatusSkipped:
				summary.Skipped = append(summary.Skipped, tc.Name)
			default:
				summary.Passed = append(summary.Passed, tc.Name)
			}
		}
	}
	return summary, nil
}

func writeJUnitSummary(w io.Writer, s *junitSummary, in *parseJUnitInput) error {
	mr := s.Report

	fmt.Fprintln(w, "Summary:")
	fmt.Fprintf(w, "- File: %s\n", s.File)
	fmt.Fprintf(w, "- Total: %d\n", mr.Tests)
	fmt.Fprintf(w, "- Pass: %d\n", mr.Success)
	fmt.Fprintf(w, "- Skipped: %d\n", mr.Skipped)
	fmt.Fprintf(w, "- Failures: %d\n", mr.Failures)
	fmt.Fprintf(w, "- Errors: %d\n", mr.Errors)
	fmt.Fprintf(w, "- Status: %s\n", mr.Status)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "JUnit Attributes:")
	fmt.Fprintf(w, "- Suites: %d\n", mr.Suites)
	for _, suite := range mr.TestSuites {
		fmt.Fprintf(w, "- Suite: %s (tests: %d, time: %.3fs)\n", suite.Name, suite.Tests, suite.Time)
	}
	fmt.Fprintf(w, "- Time: %.3f\n", mr.Time)

	if s.Durations != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Durations (s):")
		tbWriter := tabwriter.NewWriter(w, 0, 8, 1, '\t', tabwriter.AlignRight)
		fmt.Fprintln(tbWriter, "COUNT\tMIN\tMEDIAN\tMEAN\tP90\tP99\tMAX\tSUM\tSTDDEV\t")
		d := s.Durations
		fmt.Fprintf(tbWriter, "%d\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\t\n",
			d.Count, d.Min, d.Median, d.Mean, d.P90, d.P99, d.Max, d.Sum, d.Stddev)
		if err := tbWriter.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(w, "- Slowest: %s\n", d.Slowest)
	}

	if len(s.Errors) > 0 {
		fmt.Fprintf(w, "\nError patterns (%d):\n", s.Errors["total"])
		for _, e := range s.Errors.Rank() {
			fmt.Fprintf(w, "- %s: %d\n", e.Key, e.Value)
		}
	}

	if !in.skipPassed {
		fmt.Fprintf(w, "\n#> Passed tests (%d): \n%s\n", len(s.Passed), strings.Join(s.Passed, "\n"))
	}
	if !in.skipFailed {
		fmt.Fprintf(w, "\n#> Failed tests (%d): \n%s\n", len(s.Failed), strings.Join(s.Failed, "\n"))
	}
	if !in.skipSkipped {
		fmt.Fprintf(w, "\n#> Skipped tests (%d): \n%s\n", len(s.Skipped), strings.Join(s.Skipped, "\n"))
	}
	return nil
}
