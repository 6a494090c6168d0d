package report

import (
	"k8s.io/utils/ptr"

	"github.com/kestra-io/kestra-devtools/pkg/api"
)

func suiteOf(name string, cases ...api.TestCase) api.TestSuite {
	s := api.TestSuite{Name: name, TestCases: cases}
	for _, tc := range cases {
		s.Tests++
		switch tc.Status {
		case api.TestStatusSuccess:
			s.Success++
		case api.TestStatusSkipped:
			s.Skipped++
		case api.TestStatusError:
			s.Errors++
		case api.TestStatusFailed:
			s.Failures++
		}
		if tc.Time != nil {
			s.Time += *tc.Time
		}
	}
	s.Status = api.StatusFromCounts(s.Tests, s.Failures, s.Errors, s.Skipped)
	return s
}

func reportOf(project string, suites ...api.TestSuite) TestReport {
	mr := &api.ModuleReport{Suites: len(suites), TestSuites: suites}
	for _, s := range suites {
		mr.Tests += s.Tests
		mr.Success += s.Success
		mr.Skipped += s.Skipped
		mr.Errors += s.Errors
		mr.Failures += s.Failures
		mr.Time += s.Time
	}
	mr.Status = api.StatusFromCounts(mr.Tests, mr.Failures, mr.Errors, mr.Skipped)
	return TestReport{ProjectName: project, ProjectReport: mr}
}

func passing(name string, seconds float64) api.TestCase {
	return api.TestCase{Name: name, Time: ptr.To(seconds), Status: api.TestStatusSuccess}
}

func failing(name, message, details string) api.TestCase {
	return api.TestCase{Name: name, Time: ptr.To(3.0), Status: api.TestStatusFailed, Message: message, Details: details}
}

var (
	greenReports = []TestReport{
		reportOf("java-module-1", suiteOf("io.kestra.core.some.Test", passing("sundayDayOfTheWeekAlias()", 3))),
	}
	failedReports = []TestReport{
		reportOf("java-module-1", suiteOf("io.kestra.core.someother.Test2",
			passing("sundayDayOfTheWeekAlias()", 3),
			failing("failingTest()", "java.lang.RuntimeException: I failed and this is my log", "this is the error logs details"),
		)),
	}
)
