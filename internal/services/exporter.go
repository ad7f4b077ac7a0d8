package services

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"alfredoptarigan/bundle-evaluator/internal/models"
)

type ExportFormat string

const (
	FormatJSON  ExportFormat = "json"
	FormatJSONL ExportFormat = "jsonl"
)

// ParseExportFormat accepts "json" or "jsonl".
func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(s) {
	case FormatJSON, FormatJSONL:
		return ExportFormat(s), nil
	case "":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// ExportedRecord is the per-record export shape. Detail fields are only set
// when details are requested.
type ExportedRecord struct {
	Timestamp         time.Time                  `json:"timestamp"`
	ProducerID        string                     `json:"producer_id"`
	Location          string                     `json:"location"`
	Grade             models.Grade               `json:"grade"`
	OverallScore      float64                    `json:"overall_score"`
	CompletenessScore float64                    `json:"completeness_score"`
	QualityScore      float64                    `json:"quality_score"`
	HasErrors         bool                       `json:"has_errors"`
	Confidence        float64                    `json:"confidence"`
	TechStack         []string                   `json:"tech_stack,omitempty"`
	Completeness      *models.CompletenessResult `json:"completeness,omitempty"`
	Quality           *models.QualityResult      `json:"quality,omitempty"`
	Recommendations   []models.Recommendation    `json:"recommendations,omitempty"`
	Error             string                     `json:"error,omitempty"`
}

type ExportMetadata struct {
	ExportedAt      time.Time    `json:"exported_at"`
	CriteriaVersion string       `json:"criteria_version"`
	Format          ExportFormat `json:"format"`
	IncludeDetails  bool         `json:"include_details"`
	RecordCount     int          `json:"record_count"`
}

type ExportDocument struct {
	Metadata    ExportMetadata    `json:"metadata"`
	Evaluations []ExportedRecord  `json:"evaluations"`
	Statistics  models.Statistics `json:"statistics"`
}

type ExportOptions struct {
	Format         ExportFormat
	IncludeDetails bool
}

// EvaluationExporter writes records and statistics. Write failures are returned.
type EvaluationExporter struct {
	criteriaVersion string
	aggregator      *StatisticsAggregator
	now             func() time.Time
}

func NewEvaluationExporter(criteriaVersion string) *EvaluationExporter {
	return &EvaluationExporter{
		criteriaVersion: criteriaVersion,
		aggregator:      NewStatisticsAggregator(),
		now:             time.Now,
	}
}

func (x *EvaluationExporter) Export(w io.Writer, records []models.EvaluationRecord, opts ExportOptions) error {
	switch opts.Format {
	case FormatJSONL:
		return x.writeJSONL(w, records, opts.IncludeDetails)
	case FormatJSON, "":
		return x.writeDocument(w, records, opts.IncludeDetails)
	}
	return fmt.Errorf("unsupported export format %q", opts.Format)
}

// ExportToFile writes to path through a temp file and renames it into place.
func (x *EvaluationExporter) ExportToFile(path string, records []models.EvaluationRecord, opts ExportOptions) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("export: ensure dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".export-*")
	if err != nil {
		return fmt.Errorf("export: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := x.Export(tmp, records, opts); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("export: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("export: rename: %w", err)
	}
	return nil
}

func (x *EvaluationExporter) writeJSONL(w io.Writer, records []models.EvaluationRecord, details bool) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for i, rec := range records {
		if err := enc.Encode(toExported(rec, details)); err != nil {
			return fmt.Errorf("export: write record %d: %w", i, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("export: flush: %w", err)
	}
	return nil
}

func (x *EvaluationExporter) writeDocument(w io.Writer, records []models.EvaluationRecord, details bool) error {
	doc := ExportDocument{
		Metadata: ExportMetadata{
			ExportedAt:      x.now().UTC(),
			CriteriaVersion: x.criteriaVersion,
			Format:          FormatJSON,
			IncludeDetails:  details,
			RecordCount:     len(records),
		},
		Evaluations: make([]ExportedRecord, 0, len(records)),
		Statistics:  x.aggregator.Aggregate(records),
	}
	for _, rec := range records {
		doc.Evaluations = append(doc.Evaluations, toExported(rec, details))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("export: write document: %w", err)
	}
	return nil
}

func toExported(rec models.EvaluationRecord, details bool) ExportedRecord {
	out := ExportedRecord{
		Timestamp:         rec.EvaluatedAt,
		ProducerID:        rec.ProducerID,
		Location:          rec.Location,
		Grade:             rec.Grade,
		OverallScore:      rec.OverallScore,
		CompletenessScore: rec.Completeness.Score,
		QualityScore:      rec.Quality.Score,
		HasErrors:         rec.HasErrors(),
		Confidence:        rec.Confidence,
		Error:             rec.Error,
	}
	if details {
		completeness := rec.Completeness
		quality := rec.Quality
		out.TechStack = rec.TechStack
		out.Completeness = &completeness
		out.Quality = &quality
		out.Recommendations = rec.Recommendations
	}
	return out
}
