package report

import (
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

const failuresSheetName = "failures"

// FailuresSheet is a spreadsheet index of failed and errored test cases,
// one row per case, used to triage a broken build.
type FailuresSheet struct {
	file *excelize.File
	rowN int
}

func NewFailuresSheet() *FailuresSheet {
	sheet := excelize.NewFile()
	// the default sheet is the active one
	sheet.SetSheetName(sheet.GetSheetName(0), failuresSheetName)
	createSheet(sheet, failuresSheetName)
	return &FailuresSheet{file: sheet, rowN: 2}
}

func createSheet(sheet *excelize.File, sheetName string) {
	header := map[string]string{
		"A1": "Category", "B1": "Index", "C1": "Project",
		"D1": "Suite", "E1": "Test_Name", "F1": "Status",
		"G1": "Error_Type", "H1": "Message", "I1": "Notes_Review"}
	for k, v := range header {
		_ = sheet.SetCellValue(sheetName, k, v)
	}
}

// Append adds one row per failed case of reports.
func (fs *FailuresSheet) Append(cat string, reports []TestReport) {
	idx := 0
	for _, r := range reports {
		if r.ProjectReport == nil {
			continue
		}
		for _, suite := range r.ProjectReport.TestSuites {
			for i := range suite.TestCases {
				tc := &suite.TestCases[i]
				if !tc.Failed() {
					continue
				}
				idx++
				row := map[string]interface{}{
					"A": cat, "B": idx, "C": r.ProjectName,
					"D": suite.Name, "E": tc.Name, "F": string(tc.Status),
					"G": tc.Type, "H": truncate(tc.Message, messageMaxSize), "I": "",
				}
				for col, v := range row {
					_ = fs.file.SetCellValue(failuresSheetName, fmt.Sprintf("%s%d", col, fs.rowN), v)
				}
				fs.rowN++
			}
		}
	}
}

// Rows returns the number of failure rows written so far.
func (fs *FailuresSheet) Rows() int {
	return fs.rowN - 2
}

// Save writes the sheet to path.
func (fs *FailuresSheet) Save(path string) error {
	if err := fs.file.SaveAs(path); err != nil {
		return errors.Wrapf(err, "unable to save failures sheet %s", path)
	}
	log.Infof("failures sheet saved to %s with %d row(s)", path, fs.Rows())
	return nil
}
