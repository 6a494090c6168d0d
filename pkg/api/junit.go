package api

import (
	"bytes"
	"encoding/xml"
	"io"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/net/html/charset"
	"k8s.io/utils/ptr"
)

// Parse the XML data (JUnit created by Gradle, Maven surefire, etc.)
// For more info on the format: https://github.com/testmoapp/junitxml
type TestStatus string

const (
	TestStatusSuccess TestStatus = "success"
	TestStatusFailed  TestStatus = "failed"
	TestStatusError   TestStatus = "error"
	TestStatusSkipped TestStatus = "skipped"
)

var (
	ErrParse            = errors.New("unable to parse JUnit XML")
	ErrNotFound         = errors.New("JUnit file not found")
	ErrPermissionDenied = errors.New("permission denied reading JUnit file")
)

type TestCase struct {
	ClassName string     `json:"classname,omitempty" yaml:"classname,omitempty"`
	Name      string     `json:"name" yaml:"name"`
	Time      *float64   `json:"time,omitempty" yaml:"time,omitempty"`
	Status    TestStatus `json:"status" yaml:"status"`
	Message   string     `json:"message,omitempty" yaml:"message,omitempty"`
	Type      string     `json:"type,omitempty" yaml:"type,omitempty"`
	Details   string     `json:"details,omitempty" yaml:"details,omitempty"`
}

// Failed is true when the case failed or errored.
func (tc *TestCase) Failed() bool {
	return tc.Status == TestStatusFailed || tc.Status == TestStatusError
}

type TestSuite struct {
	Name      string     `json:"name,omitempty" yaml:"name,omitempty"`
	Tests     int        `json:"tests" yaml:"tests"`
	Failures  int        `json:"failures" yaml:"failures"`
	Errors    int        `json:"errors" yaml:"errors"`
	Skipped   int        `json:"skipped" yaml:"skipped"`
	Success   int        `json:"success" yaml:"success"`
	Status    TestStatus `json:"status" yaml:"status"`
	Time      float64    `json:"time" yaml:"time"`
	TestCases []TestCase `json:"testcases" yaml:"testcases"`
}

// ModuleReport is the normalized result of one JUnit document.
type ModuleReport struct {
	Suites     int         `json:"suites" yaml:"suites"`
	Tests      int         `json:"tests" yaml:"tests"`
	Failures   int         `json:"failures" yaml:"failures"`
	Errors     int         `json:"errors" yaml:"errors"`
	Skipped    int         `json:"skipped" yaml:"skipped"`
	Success    int         `json:"success" yaml:"success"`
	Status     TestStatus  `json:"status" yaml:"status"`
	Time       float64     `json:"time" yaml:"time"`
	TestSuites []TestSuite `json:"testsuites" yaml:"testsuites"`
}

// StatusFromCounts applies the status precedence: only skipped tests,
// then any error, then any failure, otherwise success.
func StatusFromCounts(tests, failures, errs, skipped int) TestStatus {
	switch {
	case tests > 0 && skipped == tests:
		return TestStatusSkipped
	case errs > 0:
		return TestStatusError
	case failures > 0:
		return TestStatusFailed
	default:
		return TestStatusSuccess
	}
}

// rawMarker is a <failure>, <failed>, <error> or <skipped> element.
type rawMarker struct {
	Message *string `xml:"message,attr"`
	Type    *string `xml:"type,attr"`
	Text    string  `xml:",chardata"`
}

type rawCase struct {
	ClassName string      `xml:"classname,attr"`
	Name      string      `xml:"name,attr"`
	Time      *string     `xml:"time,attr"`
	Failure   []rawMarker `xml:"failure"`
	Failed    []rawMarker `xml:"failed"`
	Error     []rawMarker `xml:"error"`
	Skipped   []rawMarker `xml:"skipped"`
}

type rawSuite struct {
	Name      *string   `xml:"name,attr"`
	Tests     *string   `xml:"tests,attr"`
	Failures  *string   `xml:"failures,attr"`
	Errors    *string   `xml:"errors,attr"`
	Skipped   *string   `xml:"skipped,attr"`
	Time      *string   `xml:"time,attr"`
	TestCases []rawCase `xml:"testcase"`
}

type rawSuites struct {
	TestSuites []rawSuite `xml:"testsuite"`
}

// ParseModuleReport parses a JUnit document, either a <testsuites> root or a
// single <testsuite>, into a ModuleReport. Missing or invalid counters are
// inferred from the test cases; only markup that cannot be tokenized fails.
func ParseModuleReport(data []byte) (*ModuleReport, error) {
	suites, err := decodeSuites(data)
	if err != nil {
		return nil, err
	}

	report := &ModuleReport{
		Suites:     len(suites),
		TestSuites: make([]TestSuite, 0, len(suites)),
	}
	for i := range suites {
		suite := normalizeSuite(&suites[i])
		report.Tests += suite.Tests
		report.Failures += suite.Failures
		report.Errors += suite.Errors
		report.Skipped += suite.Skipped
		report.Success += suite.Success
		report.Time += suite.Time
		report.TestSuites = append(report.TestSuites, suite)
	}
	report.Status = StatusFromCounts(report.Tests, report.Failures, report.Errors, report.Skipped)

	return report, nil
}

// ParseModuleReportFile reads and parses the JUnit file at path.
func ParseModuleReportFile(path string) (*ModuleReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return nil, errors.Wrapf(ErrNotFound, "%s: %v", path, err)
		case errors.Is(err, fs.ErrPermission):
			return nil, errors.Wrapf(ErrPermissionDenied, "%s: %v", path, err)
		}
		return nil, errors.Wrapf(err, "error reading XML file %s", path)
	}
	report, err := ParseModuleReport(data)
	if err != nil {
		return nil, errors.Wrapf(err, "file %s", path)
	}
	return report, nil
}

// decodeSuites finds the root element and decodes the raw suites under it.
func decodeSuites(data []byte) ([]rawSuite, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	// reports may declare a legacy encoding such as ISO-8859-1
	dec.CharsetReader = charset.NewReaderLabel
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			log.Debugf("no root element found in JUnit document")
			return nil, nil
		}
		if err != nil {
			return nil, errors.Wrapf(ErrParse, "%v", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "testsuites":
			root := rawSuites{}
			if err := dec.DecodeElement(&root, &start); err != nil {
				return nil, errors.Wrapf(ErrParse, "error parsing XML data with testsuites: %v", err)
			}
			return root.TestSuites, nil
		case "testsuite":
			suite := rawSuite{}
			if err := dec.DecodeElement(&suite, &start); err != nil {
				return nil, errors.Wrapf(ErrParse, "error parsing XML data with testsuite: %v", err)
			}
			return []rawSuite{suite}, nil
		default:
			log.Warnf("unexpected JUnit root element <%s>, no test suite found", start.Name.Local)
			return nil, nil
		}
	}
}

func normalizeSuite(s *rawSuite) TestSuite {
	suite := TestSuite{
		TestCases: make([]TestCase, 0, len(s.TestCases)),
	}
	if s.Name != nil {
		suite.Name = *s.Name
	}

	suite.Tests = countAttr(s.Tests, len(s.TestCases))

	var failed, errored, skipped int
	var caseTime float64
	for i := range s.TestCases {
		tc := &s.TestCases[i]
		failed += len(tc.Failure) + len(tc.Failed)
		errored += len(tc.Error)
		skipped += len(tc.Skipped)
		if t, ok := finite(tc.Time); ok {
			caseTime += t
		}
		suite.TestCases = append(suite.TestCases, normalizeCase(tc))
	}
	suite.Failures = countAttr(s.Failures, failed)
	suite.Errors = countAttr(s.Errors, errored)
	suite.Skipped = countAttr(s.Skipped, skipped)
	if t, ok := finite(s.Time); ok {
		suite.Time = t
	} else {
		suite.Time = caseTime
	}

	suite.Success = suite.Tests - suite.Errors - suite.Failures - suite.Skipped
	if suite.Success < 0 {
		log.Warnf("suite %q declares more failures/errors/skipped than tests (tests=%d failures=%d errors=%d skipped=%d)",
			suite.Name, suite.Tests, suite.Failures, suite.Errors, suite.Skipped)
	}
	suite.Status = StatusFromCounts(suite.Tests, suite.Failures, suite.Errors, suite.Skipped)

	return suite
}

func normalizeCase(tc *rawCase) TestCase {
	out := TestCase{
		ClassName: tc.ClassName,
		Name:      tc.Name,
	}
	if t, ok := finite(tc.Time); ok {
		out.Time = ptr.To(t)
	}

	failures := append(append([]rawMarker{}, tc.Failure...), tc.Failed...)
	switch {
	case len(failures) > 0:
		out.Status = TestStatusFailed
		out.Message, out.Type, out.Details = markerFields(&failures[0])
	case len(tc.Error) > 0:
		out.Status = TestStatusError
		out.Message, out.Type, out.Details = markerFields(&tc.Error[0])
	case len(tc.Skipped) > 0:
		out.Status = TestStatusSkipped
		out.Message, _, out.Details = markerFields(&tc.Skipped[0])
	default:
		out.Status = TestStatusSuccess
	}
	return out
}

func markerFields(m *rawMarker) (message, typ, details string) {
	if m.Message != nil {
		message = *m.Message
	}
	if m.Type != nil {
		typ = *m.Type
	}
	return message, typ, m.Text
}

// countAttr returns the attribute as an integer when present and finite,
// otherwise the inferred fallback.
func countAttr(attr *string, fallback int) int {
	if v, ok := finite(attr); ok {
		return int(v)
	}
	return fallback
}

func finite(attr *string) (float64, bool) {
	if attr == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(*attr), 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}
