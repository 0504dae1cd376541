package marc

import (
	"encoding/json"
	"fmt"

	"github.com/lehigh-university-libraries/marcextract/internal/models"
	"gopkg.in/yaml.v3"
)

// Formats lists the output formats accepted by Render
var Formats = []string{"mrk", "json", "yaml", "xml"}

// Render serializes one view of a catalog record
func Render(rec models.CatalogRecord, format string) ([]byte, error) {
	switch format {
	case "mrk", "":
		return []byte(rec.MRK), nil
	case "xml", "marcxml":
		return []byte(rec.MARCXML), nil
	case "json":
		data, err := json.MarshalIndent(rec.Structured, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return append(data, '\n'), nil
	case "yaml":
		data, err := yaml.Marshal(&rec.Structured)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: mrk, json, yaml, xml)", format)
	}
}
