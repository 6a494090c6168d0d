package report

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// DevelocityScanFile is written by the Develocity Gradle plugin in the build root.
const DevelocityScanFile = "develocity-scan-output.ndjson"

type develocityScan struct {
	TaskNames    []string `json:"taskNames"`
	BuildScanURI string   `json:"buildScanUri"`
}

// DevelocityScanURI returns the build scan URI of the first scan that ran a
// "check" task, or an empty string when there is none. Lines that are not
// valid scan records are skipped.
func DevelocityScanURI(workingDir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(workingDir, DevelocityScanFile))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.Wrap(err, "unable to read develocity scan output")
	}
	return scanURIFromNDJSON(data), nil
}

func scanURIFromNDJSON(data []byte) string {
	reader := bufio.NewReader(bytes.NewReader(data))
	for {
		raw, err := reader.ReadBytes('\n')
		if uri := scanURIFromLine(raw); uri != "" {
			return uri
		}
		if err != nil {
			if err != io.EOF {
				log.Debugf("develocity scan output read stopped: %v", err)
			}
			return ""
		}
	}
}

func scanURIFromLine(raw []byte) string {
	line := bytes.TrimSpace(raw)
	if len(line) == 0 {
		return ""
	}
	scan := develocityScan{}
	if err := json.Unmarshal(line, &scan); err != nil {
		log.Debugf("skipping develocity line: %v", err)
		return ""
	}
	if scan.BuildScanURI == "" {
		return ""
	}
	for _, task := range scan.TaskNames {
		if strings.Contains(task, "check") {
			return scan.BuildScanURI
		}
	}
	return ""
}
