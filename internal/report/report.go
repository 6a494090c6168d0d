// Package report merges parsed JUnit module reports by project and renders
// them as a Markdown summary suitable for a pull request comment.
package report

import "github.com/kestra-io/kestra-devtools/pkg/api"

// TestReport binds a parsed module report to the project (build module) it
// was discovered in. Several entries can share the same ProjectName.
type TestReport struct {
	ProjectName   string            `json:"projectName" yaml:"projectName"`
	ProjectReport *api.ModuleReport `json:"projectReport" yaml:"projectReport"`
}

// TestReportSummary is the rendered output of Summarize.
type TestReportSummary struct {
	HasErrors       bool   `json:"hasErrors" yaml:"hasErrors"`
	MarkdownContent string `json:"markdownContent" yaml:"markdownContent"`
}
