package report

import (
	"regexp"
	"sort"

	"github.com/kestra-io/kestra-devtools/pkg/api"
)

// CommonErrorPatterns are searched in failure messages and stack traces of
// JVM test runs.
var CommonErrorPatterns = []string{
	`AssertionFailedError`,
	`expected: <`,
	`NullPointerException`,
	`TimeoutException`,
	`timed out`,
	`ConditionTimeoutException`,
	`IllegalStateException`,
	`IllegalArgumentException`,
	`ConnectException`,
	`Connection refused`,
	`OutOfMemoryError`,
	`ClassNotFoundException`,
	`Caused by:`,
	`Testcontainers`,
	`(?i)flaky`,
}

// ErrorCounter counts occurrences of error patterns, indexed by pattern.
// The "total" key holds the sum of all matches.
type ErrorCounter map[string]int

type errorPattern struct {
	name string
	re   *regexp.Regexp
}

// compilePatterns compiles pattern plus the generic `error` pattern,
// leaving the caller's slice untouched.
func compilePatterns(pattern []string) []errorPattern {
	names := make([]string, 0, len(pattern)+1)
	names = append(names, pattern...)
	names = append(names, `error`)

	compiled := make([]errorPattern, 0, len(names))
	for _, errName := range names {
		compiled = append(compiled, errorPattern{name: errName, re: regexp.MustCompile(errName)})
	}
	return compiled
}

// NewErrorCounter counts each pattern in buf. A nil counter means nothing
// matched.
func NewErrorCounter(buf *string, pattern []string) ErrorCounter {
	return countMatches(buf, compilePatterns(pattern))
}

func countMatches(buf *string, patterns []errorPattern) ErrorCounter {
	total := 0
	counters := make(ErrorCounter, len(patterns)+1)

	for _, p := range patterns {
		if matches := p.re.FindAllStringIndex(*buf, -1); len(matches) != 0 {
			counters[p.name] += len(matches)
			total += len(matches)
		}
	}

	if total == 0 {
		return nil
	}
	counters["total"] = total
	return counters
}

// MergeErrorCounters returns a new counter holding the sum of both.
func MergeErrorCounters(ec1, ec2 ErrorCounter) ErrorCounter {
	merged := make(ErrorCounter, len(ec1)+len(ec2))
	for k, v := range ec1 {
		merged[k] += v
	}
	for k, v := range ec2 {
		merged[k] += v
	}
	return merged
}

// CountReportErrors runs NewErrorCounter over the message and details of
// every failed or errored case of the report.
func CountReportErrors(mr *api.ModuleReport, pattern []string) ErrorCounter {
	total := ErrorCounter{}
	if mr == nil {
		return total
	}
	patterns := compilePatterns(pattern)
	for _, s := range mr.TestSuites {
		for i := range s.TestCases {
			tc := &s.TestCases[i]
			if !tc.Failed() {
				continue
			}
			buf := tc.Message + "\n" + tc.Details
			total = MergeErrorCounters(total, countMatches(&buf, patterns))
		}
	}
	return total
}

// SortedDict is one ranked counter entry.
type SortedDict struct {
	Key   string
	Value int
}

// SortedList ranks counters by value.
type SortedList []SortedDict

func (p SortedList) Len() int      { return len(p) }
func (p SortedList) Swap(i, j int) { p[i], p[j] = p[j], p[i] }
func (p SortedList) Less(i, j int) bool {
	if p[i].Value == p[j].Value {
		return p[i].Key > p[j].Key
	}
	return p[i].Value < p[j].Value
}

// Rank returns the counters ordered by descending count, excluding total.
func (ec ErrorCounter) Rank() SortedList {
	list := make(SortedList, 0, len(ec))
	for k, v := range ec {
		if k == "total" {
			continue
		}
		list = append(list, SortedDict{Key: k, Value: v})
	}
	sort.Sort(sort.Reverse(list))
	return list
}
