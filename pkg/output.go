package pkg

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"
)

var ErrInvalidOutputFormat = errors.New("invalid output format")

// ValidateOutputFormat accepts text, json and yaml.
func ValidateOutputFormat(format string) error {
	switch format {
	case OutputFormatText, OutputFormatJSON, OutputFormatYAML:
		return nil
	}
	return errors.Wrapf(ErrInvalidOutputFormat, "%q, expected one of text, json, yaml", format)
}

// PrintOutput writes text as is, or v encoded in the requested format.
func PrintOutput(w io.Writer, format string, text string, v interface{}) error {
	switch format {
	case OutputFormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(v), "unable to encode json output")
	case OutputFormatYAML:
		out, err := yaml.Marshal(v)
		if err != nil {
			return errors.Wrap(err, "unable to encode yaml output")
		}
		_, err = w.Write(out)
		return err
	case OutputFormatText, "":
		_, err := fmt.Fprint(w, text)
		return err
	}
	return ValidateOutputFormat(format)
}
