// Package results persists evaluation runs as YAML.
package results

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/marcextract/internal/eval/metrics"
)

// EvalConfig represents the configuration section of the eval YAML
type EvalConfig struct {
	Extractor   string `yaml:"extractor"`
	Version     string `yaml:"version"`
	DatasetPath string `yaml:"datasetpath"`
	SampleSize  int    `yaml:"samplesize"`
	Workers     int    `yaml:"workers"`
	Timestamp   string `yaml:"timestamp"`
}

// EvalResult represents a single evaluation result
type EvalResult struct {
	Identifier       string                        `yaml:"identifier"`
	Title            string                        `yaml:"title"`
	Author           string                        `yaml:"author,omitempty"`
	Error            string                        `yaml:"error,omitempty"`
	GeneratedMRK     string                        `yaml:"generatedmrk,omitempty"`
	OverallScore     float64                       `yaml:"overallscore"`
	LevenshteinTotal int                           `yaml:"levenshteintotal"`
	FieldsMatched    int                           `yaml:"fieldsmatched"`
	FieldsMissing    int                           `yaml:"fieldsmissing"`
	FieldsIncorrect  int                           `yaml:"fieldsincorrect"`
	Fields           map[string]metrics.FieldMatch `yaml:"fields,omitempty"`
}

// EvalSummary mirrors the aggregate scores
type EvalSummary struct {
	TotalRecords    int                `yaml:"totalrecords"`
	SuccessCount    int                `yaml:"successcount"`
	FailureCount    int                `yaml:"failurecount"`
	OverallAccuracy float64            `yaml:"overallaccuracy"`
	FieldAccuracy   map[string]float64 `yaml:"fieldaccuracy"`
}

// EvalSpec represents the complete evaluation file
type EvalSpec struct {
	Config  EvalConfig   `yaml:"config"`
	Summary EvalSummary  `yaml:"summary"`
	Results []EvalResult `yaml:"results"`
}

// Build converts an aggregate into the YAML document layout
func Build(cfg EvalConfig, agg *metrics.AggregateResults) EvalSpec {
	spec := EvalSpec{
		Config: cfg,
		Summary: EvalSummary{
			TotalRecords:    agg.TotalRecords,
			SuccessCount:    agg.SuccessCount,
			FailureCount:    agg.FailureCount,
			OverallAccuracy: agg.OverallAccuracy,
			FieldAccuracy:   make(map[string]float64, len(agg.Fields)),
		},
		Results: make([]EvalResult, 0, len(agg.Results)),
	}
	for field, stats := range agg.Fields {
		spec.Summary.FieldAccuracy[field] = stats.AverageScore
	}

	for _, r := range agg.Results {
		res := EvalResult{
			Identifier:   r.Barcode,
			Title:        r.Title,
			Author:       r.Author,
			Error:        r.Error,
			GeneratedMRK: r.GeneratedMRK,
		}
		if r.Comparison != nil {
			res.OverallScore = r.Comparison.OverallScore
			res.LevenshteinTotal = r.Comparison.LevenshteinTotal
			res.FieldsMatched = r.Comparison.FieldsMatched
			res.FieldsMissing = r.Comparison.FieldsMissing
			res.FieldsIncorrect = r.Comparison.FieldsIncorrect
			res.Fields = r.Comparison.Fields
		}
		spec.Results = append(spec.Results, res)
	}

	return spec
}

// SaveToYAML writes the evaluation to dir/<extractor>-<timestamp>.yaml and
// returns the file path.
func SaveToYAML(dir string, cfg EvalConfig, agg *metrics.AggregateResults, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create evals directory: %w", err)
	}

	timestamp := now.Format("2006-01-02_15-04-05")
	cfg.Timestamp = timestamp

	data, err := yaml.Marshal(Build(cfg, agg))
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}

	filename := filepath.Join(dir, fmt.Sprintf("%s-%s.yaml", cfg.Extractor, timestamp))
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write YAML file: %w", err)
	}

	return filename, nil
}
