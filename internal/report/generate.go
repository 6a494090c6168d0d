package report

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/kestra-io/kestra-devtools/internal/metrics"
	"github.com/kestra-io/kestra-devtools/pkg/api"
)

const (
	DefaultTestPattern            = "**/build/test-results/test/*.xml"
	DefaultIntegrationTestPattern = "**/build/test-results/integrationTest/*.xml"
	DefaultFlakyTestPattern       = "**/build/test-results/flakyTest/*.xml"
)

// ErrInvalidPattern is returned for a malformed report glob, or an absolute
// one outside the working directory.
var ErrInvalidPattern = errors.New("invalid report pattern")

type SummaryStatus string

const (
	SummaryStatusSuccess SummaryStatus = "success"
	SummaryStatusFailure SummaryStatus = "failure"
)

// SummaryOptions tunes GenerateSummary. Patterns are doublestar globs
// relative to the working directory; empty patterns use the defaults.
type SummaryOptions struct {
	OnlyErrors             bool
	TestPattern            string
	IntegrationTestPattern string
	FlakyTestPattern       string

	// FailuresSheet, when set, is the path of an xlsx index of failed tests.
	FailuresSheet string
}

type SummaryResult struct {
	Output string        `json:"output" yaml:"output"`
	Status SummaryStatus `json:"status" yaml:"status"`
}

// category is one family of JUnit reports rendered in its own section.
type category struct {
	name    string
	title   string
	pattern string
	reports []TestReport
}

// GenerateSummary discovers the JUnit reports of the unit, integration and
// flaky test tasks under workingDir and renders them as one Markdown document.
// The status only reflects the unit test reports.
func GenerateSummary(workingDir string, opts *SummaryOptions) (*SummaryResult, error) {
	if opts == nil {
		opts = &SummaryOptions{}
	}
	timers := metrics.NewTimers()
	defer timers.Log()
	timers.Add("total")
	defer timers.Add("total")

	categories := []*category{
		{name: "test", title: "## Tests report quick summary:", pattern: orDefault(opts.TestPattern, DefaultTestPattern)},
		{name: "integrationTest", title: "\n\n---\n\n## Integration tests report quick summary:", pattern: orDefault(opts.IntegrationTestPattern, DefaultIntegrationTestPattern)},
		{name: "flakyTest", title: "\n\n---\n\n## Flaky tests report quick summary:", pattern: orDefault(opts.FlakyTestPattern, DefaultFlakyTestPattern)},
	}

	timers.Set("discover")
	for _, c := range categories {
		reports, err := LoadReports(workingDir, c.pattern)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to load %s reports", c.name)
		}
		log.Debugf("found %d %s report(s) matching %s", len(reports), c.name, c.pattern)
		c.reports = reports
	}

	timers.Set("render")
	unit, err := Summarize(categories[0].reports, opts.OnlyErrors)
	if err != nil {
		return nil, err
	}
	var out strings.Builder
	out.WriteString(categories[0].title)
	out.WriteString(unit.MarkdownContent)

	scanURI, err := DevelocityScanURI(workingDir)
	if err != nil {
		log.WithError(err).Warn("develocity build scan lookup failed")
	}
	if scanURI != "" {
		out.WriteString("\n\n---\n\n## Develocity build scan:\n" + scanURI)
	}

	for _, c := range categories[1:] {
		if len(c.reports) == 0 {
			continue
		}
		summary, err := Summarize(c.reports, opts.OnlyErrors)
		if err != nil {
			return nil, err
		}
		out.WriteString(c.title)
		out.WriteString(summary.MarkdownContent)
	}

	if opts.FailuresSheet != "" {
		timers.Set("sheet")
		sheet := NewFailuresSheet()
		for _, c := range categories {
			sheet.Append(c.name, c.reports)
		}
		if err := sheet.Save(opts.FailuresSheet); err != nil {
			return nil, err
		}
	}
	timers.Stop()

	result := &SummaryResult{Output: out.String(), Status: SummaryStatusSuccess}
	if unit.HasErrors {
		result.Status = SummaryStatusFailure
	}
	return result, nil
}

// LoadReports parses every file matching pattern under workingDir, in the
// order the glob enumerates them. An absolute pattern must point inside
// workingDir.
func LoadReports(workingDir, pattern string) ([]TestReport, error) {
	pattern, err := relativePattern(workingDir, pattern)
	if err != nil {
		return nil, err
	}
	matches, err := doublestar.Glob(os.DirFS(workingDir), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidPattern, "%q: %v", pattern, err)
	}
	reports := make([]TestReport, 0, len(matches))
	for _, m := range matches {
		file := filepath.Join(workingDir, filepath.FromSlash(m))
		mr, err := api.ParseModuleReportFile(file)
		if err != nil {
			return nil, err
		}
		reports = append(reports, TestReport{
			ProjectName:   ProjectNameFromPath(file),
			ProjectReport: mr,
		})
	}
	return reports, nil
}

// ProjectNameFromPath returns the directory preceding the last "build"
// segment of a report path, or the path itself when there is none.
func ProjectNameFromPath(file string) string {
	parts := strings.Split(filepath.ToSlash(file), "/")
	for i := len(parts) - 1; i > 0; i-- {
		if parts[i] == "build" {
			return parts[i-1]
		}
	}
	return file
}

// relativePattern rewrites an absolute pattern relative to workingDir.
func relativePattern(workingDir, pattern string) (string, error) {
	if !filepath.IsAbs(pattern) && !path.IsAbs(pattern) {
		return pattern, nil
	}
	rel, err := filepath.Rel(workingDir, filepath.FromSlash(pattern))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.Wrapf(ErrInvalidPattern, "%s is outside %s", pattern, workingDir)
	}
	return filepath.ToSlash(rel), nil
}

func orDefault(pattern, def string) string {
	if pattern == "" {
		return def
	}
	return path.Clean(pattern)
}
