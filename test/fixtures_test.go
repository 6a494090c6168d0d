package test

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kestra-io/kestra-devtools/pkg/api"
)

func TestDataJUnitFixtures(t *testing.T) {
	type testCase struct {
		name   string
		assert func(tc *testCase)
	}
	cases := []testCase{
		{
			name: "junit-fixtures-present",
			assert: func(tc *testCase) {
				got, err := fs.Glob(TestData, "testdata/junit/*.xml")
				if err != nil {
					t.Fatalf("failed to read fixtures: %v", err)
				}
				assert.Len(t, got, 4, "junit fixtures are present")
			},
		},
		{
			name: "junit-fixtures-parseable",
			assert: func(tc *testCase) {
				files, _ := fs.Glob(TestData, "testdata/junit/*.xml")
				for _, f := range files {
					data, err := TestData.ReadFile(f)
					if err != nil {
						t.Fatalf("failed to read fixture %s: %v", f, err)
					}
					report, err := api.ParseModuleReport(data)
					assert.NoError(t, err, f)
					assert.Equal(t, report.Tests, report.Success+report.Skipped+report.Errors+report.Failures, f)
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.assert(&tc)
		})
	}
}
