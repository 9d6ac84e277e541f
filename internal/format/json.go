package format

import (
	"encoding/json"

	m "github.com/ldomaradzki/xcsift-sub001/internal/model"
)

// JSONFormatter renders the structured-object encoding. Output is a single
// compact JSON object, the default for machine consumers.
type JSONFormatter struct {
	opts Options
}

// Format implements Formatter.
func (f *JSONFormatter) Format(result *m.BuildResult) (string, error) {
	payload, err := json.Marshal(f.opts.withoutWarningDetails(result))
	if err != nil {
		return "", err
	}

	return string(payload), nil
}
