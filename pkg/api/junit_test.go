package api

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestra-io/kestra-devtools/test"
)

func loadFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := test.TestData.ReadFile("testdata/junit/" + name)
	require.NoError(t, err)
	return data
}

func assertCountsReconcile(t *testing.T, report *ModuleReport) {
	t.Helper()
	assert.Equal(t, report.Tests, report.Success+report.Skipped+report.Errors+report.Failures)
	for _, s := range report.TestSuites {
		assert.Equal(t, s.Tests, s.Success+s.Skipped+s.Errors+s.Failures, "suite %s", s.Name)
	}
}

func TestParseModuleReport(t *testing.T) {
	t.Run("single testsuite with all passing cases", func(t *testing.T) {
		report, err := ParseModuleReport(loadFixture(t, "TEST-io.kestra.core.FlowTest.xml"))
		require.NoError(t, err)

		assert.Equal(t, 1, report.Suites)
		assert.Equal(t, 6, report.Tests)
		assert.Equal(t, 6, report.Success)
		assert.Equal(t, TestStatusSuccess, report.Status)
		assert.InDelta(t, 1.25, report.Time, 0.0001)
		require.Len(t, report.TestSuites, 1)
		assert.Equal(t, "io.kestra.core.FlowTest", report.TestSuites[0].Name)
		assert.Len(t, report.TestSuites[0].TestCases, 6)
		assert.Equal(t, "shouldCreateFlow()", report.TestSuites[0].TestCases[0].Name)
		assert.Equal(t, "io.kestra.core.FlowTest", report.TestSuites[0].TestCases[0].ClassName)
		require.NotNil(t, report.TestSuites[0].TestCases[0].Time)
		assert.InDelta(t, 0.2, *report.TestSuites[0].TestCases[0].Time, 0.0001)
		assertCountsReconcile(t, report)
	})

	t.Run("failure, error and skipped markers", func(t *testing.T) {
		report, err := ParseModuleReport(loadFixture(t, "TEST-io.kestra.core.ExecutionTest.xml"))
		require.NoError(t, err)

		assert.Equal(t, 4, report.Tests)
		assert.Equal(t, 1, report.Success)
		assert.Equal(t, 1, report.Failures)
		assert.Equal(t, 1, report.Errors)
		assert.Equal(t, 1, report.Skipped)
		assert.Equal(t, TestStatusError, report.Status)

		cases := report.TestSuites[0].TestCases
		require.Len(t, cases, 4)
		assert.Equal(t, TestStatusSuccess, cases[0].Status)

		assert.Equal(t, TestStatusFailed, cases[1].Status)
		assert.Equal(t, "expected: <SUCCESS> but was: <FAILED>", cases[1].Message)
		assert.Equal(t, "org.opentest4j.AssertionFailedError", cases[1].Type)
		assert.Contains(t, cases[1].Details, "ExecutionTest.java:42")

		assert.Equal(t, TestStatusError, cases[2].Status)
		assert.Equal(t, "timed out after 1 SECONDS", cases[2].Message)
		assert.Equal(t, "java.util.concurrent.TimeoutException", cases[2].Type)

		assert.Equal(t, TestStatusSkipped, cases[3].Status)
		assert.Equal(t, "disabled on CI", cases[3].Message)
		assert.Empty(t, cases[3].Type)
		assertCountsReconcile(t, report)
	})

	t.Run("testsuites root with several suites", func(t *testing.T) {
		report, err := ParseModuleReport(loadFixture(t, "testsuites-multi.xml"))
		require.NoError(t, err)

		assert.Equal(t, 2, report.Suites)
		require.Len(t, report.TestSuites, 2)
		assert.Equal(t, "first", report.TestSuites[0].Name)
		assert.Equal(t, "second", report.TestSuites[1].Name)
		assert.Equal(t, 3, report.Tests)
		assert.Equal(t, 2, report.Success)
		assert.Equal(t, 1, report.Failures)
		assert.Equal(t, TestStatusFailed, report.Status)
		assert.Equal(t, TestStatusFailed, report.TestSuites[0].Status)
		assert.Equal(t, TestStatusSuccess, report.TestSuites[1].Status)
		assert.InDelta(t, 0.6, report.Time, 0.0001)
		assertCountsReconcile(t, report)
	})

	t.Run("counters inferred when attributes are missing", func(t *testing.T) {
		report, err := ParseModuleReport(loadFixture(t, "missing-attributes.xml"))
		require.NoError(t, err)

		suite := report.TestSuites[0]
		assert.Equal(t, 4, suite.Tests)
		assert.Equal(t, 1, suite.Failures)
		assert.Equal(t, 1, suite.Errors)
		assert.Equal(t, 1, suite.Skipped)
		assert.Equal(t, 1, suite.Success)
		assert.Equal(t, TestStatusError, suite.Status)
		assert.InDelta(t, 2.0, suite.Time, 0.0001)

		cases := suite.TestCases
		assert.Equal(t, TestCase{Name: "broken", Time: cases[1].Time, Status: TestStatusFailed, Message: "X", Details: "trace"}, cases[1])
		assert.Equal(t, "NPE", cases[2].Message)
		assert.Equal(t, "java.lang.NullPointerException", cases[2].Type)
		assert.Empty(t, cases[2].Details)
		assert.Nil(t, cases[2].Time)
		assert.Equal(t, TestStatusSkipped, cases[3].Status)
		assert.Nil(t, cases[3].Time, "non numeric time is ignored")
		assertCountsReconcile(t, report)
	})

	t.Run("failure message and trace", func(t *testing.T) {
		report, err := ParseModuleReport([]byte(`<testsuite><testcase name="t"><failure message="X">trace</failure></testcase></testsuite>`))
		require.NoError(t, err)
		tc := report.TestSuites[0].TestCases[0]
		assert.Equal(t, TestStatusFailed, tc.Status)
		assert.Equal(t, "X", tc.Message)
		assert.Equal(t, "trace", tc.Details)
	})

	t.Run("legacy failed marker and empty markers count", func(t *testing.T) {
		report, err := ParseModuleReport([]byte(`<testsuite>
			<testcase name="a"><failed/></testcase>
			<testcase name="b"><skipped/></testcase>
			<testcase name="c"><skipped/></testcase>
		</testsuite>`))
		require.NoError(t, err)
		assert.Equal(t, 1, report.Failures)
		assert.Equal(t, 2, report.Skipped)
		assert.Equal(t, 0, report.Success)
		assert.Equal(t, TestStatusFailed, report.TestSuites[0].TestCases[0].Status)
		assert.Equal(t, TestStatusFailed, report.Status)
	})

	t.Run("attributes win over inference", func(t *testing.T) {
		report, err := ParseModuleReport([]byte(`<testsuite tests="10" failures="0" errors="0" skipped="2">
			<testcase name="a"><failure/></testcase>
		</testsuite>`))
		require.NoError(t, err)
		assert.Equal(t, 10, report.Tests)
		assert.Equal(t, 0, report.Failures)
		assert.Equal(t, 2, report.Skipped)
		assert.Equal(t, 8, report.Success)
		assertCountsReconcile(t, report)
	})

	t.Run("inconsistent counters propagate a negative success", func(t *testing.T) {
		report, err := ParseModuleReport([]byte(`<testsuite tests="1" failures="2" errors="0" skipped="0"/>`))
		require.NoError(t, err)
		assert.Equal(t, -1, report.Success)
		assert.Equal(t, TestStatusFailed, report.Status)
		assertCountsReconcile(t, report)
	})

	t.Run("all skipped", func(t *testing.T) {
		report, err := ParseModuleReport([]byte(`<testsuite tests="2" skipped="2" failures="1" errors="1"/>`))
		require.NoError(t, err)
		assert.Equal(t, TestStatusSkipped, report.Status)
	})

	t.Run("unknown root yields an empty report", func(t *testing.T) {
		report, err := ParseModuleReport([]byte(`<html><body/></html>`))
		require.NoError(t, err)
		assert.Equal(t, 0, report.Suites)
		assert.Empty(t, report.TestSuites)
		assert.Equal(t, TestStatusSuccess, report.Status)
	})

	t.Run("non utf-8 declaration", func(t *testing.T) {
		// "caf\xe9" is "café" in ISO-8859-1
		doc := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>" +
			"<testsuite name=\"caf\xe9\" tests=\"1\"><testcase name=\"a\"/></testsuite>"
		report, err := ParseModuleReport([]byte(doc))
		require.NoError(t, err)
		require.Len(t, report.TestSuites, 1)
		assert.Equal(t, "café", report.TestSuites[0].Name)
		assert.Equal(t, 1, report.Success)
		assert.Equal(t, TestStatusSuccess, report.Status)
	})

	t.Run("windows-1252 declaration", func(t *testing.T) {
		report, err := ParseModuleReport([]byte(`<?xml version="1.0" encoding="windows-1252"?><testsuite tests="1"><testcase name="a"/></testsuite>`))
		require.NoError(t, err)
		assert.Equal(t, 1, report.Tests)
	})

	t.Run("broken markup is a parse error", func(t *testing.T) {
		_, err := ParseModuleReport([]byte(`<testsuite><testcase name="a"></testsuite>`))
		assert.ErrorIs(t, err, ErrParse)
	})
}

func TestStatusFromCounts(t *testing.T) {
	tests := []struct {
		name     string
		tests    int
		failures int
		errors   int
		skipped  int
		want     TestStatus
	}{
		{name: "one failure", tests: 2, failures: 1, want: TestStatusFailed},
		{name: "all skipped wins", tests: 3, failures: 1, errors: 1, skipped: 3, want: TestStatusSkipped},
		{name: "error beats failure", tests: 3, failures: 1, errors: 1, want: TestStatusError},
		{name: "success", tests: 3, want: TestStatusSuccess},
		{name: "empty", want: TestStatusSuccess},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFromCounts(tt.tests, tt.failures, tt.errors, tt.skipped))
		})
	}
}

func TestParseModuleReportFile(t *testing.T) {
	xmlFile := createFakeJUnitXMLFile(t)

	report, err := ParseModuleReportFile(xmlFile)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Tests)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 1, report.Failures)

	_, err = ParseModuleReportFile(filepath.Join(t.TempDir(), "missing.xml"))
	assert.ErrorIs(t, err, ErrNotFound)

	if os.Geteuid() != 0 {
		require.NoError(t, os.Chmod(xmlFile, 0o000))
		_, err = ParseModuleReportFile(xmlFile)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	}
}

func createFakeJUnitXMLFile(t *testing.T) string {
	t.Helper()
	content := `<?xml version="1.0" encoding="UTF-8"?>
	<testsuite name="io.kestra.plugin.Sample" tests="3" skipped="1" failures="1" time="2.5">
		<testcase name="test_case_name_1" time="1"/>
		<testcase name="test_case_name_2" time="0.5">
			<skipped message="test_case_skipped_message_2"/>
		</testcase>
		<testcase name="test_case_name_3" time="1">
			<failure>test_case_failure_3</failure>
		</testcase>
	</testsuite>`
	file := filepath.Join(t.TempDir(), "TEST-sample.xml")
	require.NoError(t, os.WriteFile(file, []byte(content), 0o600))
	return file
}
