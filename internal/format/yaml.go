package format

import (
	"strings"

	"gopkg.in/yaml.v3"

	m "github.com/ldomaradzki/xcsift-sub001/internal/model"
)

// YAMLFormatter renders the same structure as the JSON encoder in YAML.
type YAMLFormatter struct {
	opts Options
}

// Format implements Formatter.
func (f *YAMLFormatter) Format(result *m.BuildResult) (string, error) {
	payload, err := yaml.Marshal(f.opts.withoutWarningDetails(result))
	if err != nil {
		return "", err
	}

	return strings.TrimRight(string(payload), "\n"), nil
}
