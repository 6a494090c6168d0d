package report

import "github.com/kestra-io/kestra-devtools/pkg/api"

// Merge folds reports sharing a project name into one entry per project,
// keeping the first-seen project order. Test suites are concatenated in input
// order and every aggregate is recomputed from the test cases, so the declared
// XML counters of the inputs are never trusted. Inputs are left untouched.
func Merge(reports []TestReport) []TestReport {
	index := make(map[string]int, len(reports))
	merged := make([]TestReport, 0, len(reports))
	suites := make([][]api.TestSuite, 0, len(reports))

	for _, r := range reports {
		var in []api.TestSuite
		if r.ProjectReport != nil {
			in = r.ProjectReport.TestSuites
		}
		i, ok := index[r.ProjectName]
		if !ok {
			i = len(merged)
			index[r.ProjectName] = i
			merged = append(merged, TestReport{ProjectName: r.ProjectName})
			suites = append(suites, nil)
		}
		suites[i] = append(suites[i], in...)
	}

	for i := range merged {
		merged[i].ProjectReport = aggregate(suites[i])
	}
	return merged
}

// aggregate builds a module report whose counters come only from test cases.
func aggregate(suites []api.TestSuite) *api.ModuleReport {
	m := &api.ModuleReport{
		Suites:     len(suites),
		TestSuites: make([]api.TestSuite, len(suites)),
	}
	copy(m.TestSuites, suites)

	for _, s := range suites {
		m.Time += s.Time
		for _, tc := range s.TestCases {
			switch tc.Status {
			case api.TestStatusSuccess:
				m.Success++
			case api.TestStatusSkipped:
				m.Skipped++
			case api.TestStatusError:
				m.Errors++
			case api.TestStatusFailed:
				m.Failures++
			}
		}
	}
	m.Tests = m.Success + m.Skipped + m.Errors + m.Failures
	m.Status = api.StatusFromCounts(m.Tests, m.Failures, m.Errors, m.Skipped)
	return m
}
