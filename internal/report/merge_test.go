package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestra-io/kestra-devtools/pkg/api"
)

func TestMerge(t *testing.T) {
	a1 := reportOf("a", suiteOf("a.One", passing("a1", 1)))
	a2 := reportOf("a", suiteOf("a.Two", failing("a2", "boom", "")))
	b1 := reportOf("b", suiteOf("b.One", api.TestCase{Name: "b1", Status: api.TestStatusSkipped}))
	b2 := reportOf("b", suiteOf("b.Two", api.TestCase{Name: "b2", Status: api.TestStatusError}))

	t.Run("one entry per project in first-seen order", func(t *testing.T) {
		merged := Merge([]TestReport{b1, a1, a2, b2})
		require.Len(t, merged, 2)
		assert.Equal(t, "b", merged[0].ProjectName)
		assert.Equal(t, "a", merged[1].ProjectName)

		b := merged[0].ProjectReport
		assert.Equal(t, 2, b.Suites)
		assert.Equal(t, []string{"b.One", "b.Two"}, []string{b.TestSuites[0].Name, b.TestSuites[1].Name})
		assert.Equal(t, 2, b.Tests)
		assert.Equal(t, 1, b.Skipped)
		assert.Equal(t, 1, b.Errors)
		assert.Equal(t, api.TestStatusError, b.Status)

		a := merged[1].ProjectReport
		assert.Equal(t, 1, a.Success)
		assert.Equal(t, 1, a.Failures)
		assert.Equal(t, api.TestStatusFailed, a.Status)
		assert.InDelta(t, 4.0, a.Time, 0.0001)
	})

	t.Run("declared counters are ignored", func(t *testing.T) {
		lying := reportOf("c", suiteOf("c.One", passing("c1", 1)))
		lying.ProjectReport.Tests = 42
		lying.ProjectReport.Failures = 7
		lying.ProjectReport.Status = api.TestStatusFailed

		merged := Merge([]TestReport{lying})
		assert.Equal(t, 1, merged[0].ProjectReport.Tests)
		assert.Equal(t, 0, merged[0].ProjectReport.Failures)
		assert.Equal(t, api.TestStatusSuccess, merged[0].ProjectReport.Status)
	})

	t.Run("inputs are not mutated", func(t *testing.T) {
		in := []TestReport{a1, a2}
		before := *a1.ProjectReport
		_ = Merge(in)
		assert.Equal(t, before, *in[0].ProjectReport)
		assert.Len(t, in[0].ProjectReport.TestSuites, 1)
	})

	t.Run("idempotent", func(t *testing.T) {
		once := Merge([]TestReport{a1, b1, a2, b2})
		assert.Equal(t, once, Merge(once))
	})

	t.Run("associative per project", func(t *testing.T) {
		partial := Merge([]TestReport{a1, a2, b1})
		twoPass := Merge(append(partial, b2))
		onePass := Merge([]TestReport{a1, a2, b1, b2})
		assert.Equal(t, onePass, twoPass)
	})

	t.Run("all skipped", func(t *testing.T) {
		merged := Merge([]TestReport{b1})
		assert.Equal(t, api.TestStatusSkipped, merged[0].ProjectReport.Status)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, Merge(nil))
	})
}
