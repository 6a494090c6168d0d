package report

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/kestra-io/kestra-devtools/pkg/api"
)

const (
	noReportFound  = "\nNo test report were found"
	messageMaxSize = 200

	summaryTableHeader = "\n| Project | Status | Success | Skipped | Failed |\n|---|---|---|---|---|"
	detailsTableHeader = "| Project | Suite | Test | Status | Duration (s) | Message |\n|---|---|---|---|---:|---|"
)

var (
	ErrUnknownStatus = errors.New("unhandled test status")

	lineBreak = regexp.MustCompile(`\r?\n`)
)

// Summarize renders reports as Markdown. Reports sharing a project name are
// merged first; the banner totals are taken from the inputs as given.
// With onlyErrors, failed and errored cases are rendered as collapsible
// blocks and passing cases are left out entirely.
func Summarize(reports []TestReport, onlyErrors bool) (*TestReportSummary, error) {
	if len(reports) == 0 {
		return &TestReportSummary{MarkdownContent: noReportFound}, nil
	}

	var summaryRows, detailRows, errorLogs []string
	hasErrors := false

	for _, r := range Merge(reports) {
		project := r.ProjectName
		mr := r.ProjectReport

		emoji, err := statusEmoji(mr.Status)
		if err != nil {
			return nil, errors.Wrapf(err, "project %s", project)
		}
		summaryRows = append(summaryRows, fmt.Sprintf("| %s | %s | %d | %d | %d |",
			escapePipe(project), escapePipe(emoji), mr.Success, mr.Skipped, mr.Errors+mr.Failures))

		for _, suite := range mr.TestSuites {
			for i := range suite.TestCases {
				tc := &suite.TestCases[i]
				caseEmoji, err := statusEmoji(tc.Status)
				if err != nil {
					return nil, errors.Wrapf(err, "test %s > %s > %s", project, suite.Name, tc.Name)
				}
				duration := formatDuration(tc.Time)
				failed := tc.Failed()
				if failed {
					hasErrors = true
				}

				if !onlyErrors {
					detailRows = append(detailRows, fmt.Sprintf("| %s | %s | %s | %s | %s | %s |",
						escapePipe(project), escapePipe(suite.Name), escapePipe(tc.Name),
						caseEmoji, duration, escapePipe(truncate(tc.Message, messageMaxSize))))
					continue
				}
				if !failed {
					continue
				}
				body := tc.Message
				if tc.Details != "" {
					body += "\n\n" + tc.Details
				}
				title := fmt.Sprintf("%s > %s > %s %s in %s",
					escapePipe(project), escapePipe(suite.Name), escapePipe(tc.Name), caseEmoji, duration)
				errorLogs = append(errorLogs, spoiler(title, codeBlock(body))+"\n")
			}
		}
	}

	var tests, success, skipped, failed int
	for _, r := range reports {
		if r.ProjectReport == nil {
			continue
		}
		tests += r.ProjectReport.Tests
		success += r.ProjectReport.Success
		skipped += r.ProjectReport.Skipped
		failed += r.ProjectReport.Failures + r.ProjectReport.Errors
	}

	final := api.TestStatusSuccess
	if hasErrors {
		final = api.TestStatusFailed
	}
	banner, _ := statusEmoji(final)

	var md strings.Builder
	fmt.Fprintf(&md, "\n%s > tests: %d, success: %d, skipped: %d, failed: %d\n", banner, tests, success, skipped, failed)

	table := summaryTableHeader + "\n" + strings.Join(summaryRows, "\n")
	if len(detailRows) > 0 {
		table += "\n\n## Tests report details:"
		table += "\n" + strings.Join(append([]string{detailsTableHeader}, detailRows...), "\n")
	}
	if len(errorLogs) > 0 {
		table += "\n## Failed tests:"
		table += "\n" + strings.Join(errorLogs, "\n")
	}

	if final == api.TestStatusSuccess {
		md.WriteString(spoiler("unfold for details", table))
	} else {
		md.WriteString(table)
	}

	return &TestReportSummary{
		HasErrors:       hasErrors,
		MarkdownContent: md.String(),
	}, nil
}

func statusEmoji(s api.TestStatus) (string, error) {
	switch s {
	case api.TestStatusFailed:
		return "failed ❌", nil
	case api.TestStatusError:
		return "error ❌", nil
	case api.TestStatusSkipped:
		return "skipped ⏭️", nil
	case api.TestStatusSuccess:
		return "success ✅", nil
	}
	return "", errors.Wrapf(ErrUnknownStatus, "%q", s)
}

// escapePipe makes s safe for a Markdown table cell.
func escapePipe(s string) string {
	return lineBreak.ReplaceAllString(strings.ReplaceAll(s, "|", `\|`), " ↵ ")
}

func codeBlock(s string) string {
	return "```\n" + s + "\n```\n"
}

func spoiler(summary, content string) string {
	return "<details>\n<summary>" + summary + "</summary>\n\n" + content + "\n</details>"
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

// formatDuration prints seconds with millisecond precision, dropping a
// zero fraction. An unknown duration is empty.
func formatDuration(t *float64) string {
	if t == nil {
		return ""
	}
	return strings.TrimSuffix(strconv.FormatFloat(*t, 'f', 3, 64), ".000")
}
