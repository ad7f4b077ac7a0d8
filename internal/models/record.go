package models

import "time"

// CompletenessResult is the outcome of checking expected file presence.
type CompletenessResult struct {
	MandatoryExpected int      `json:"mandatory_expected"`
	MandatoryFound    int      `json:"mandatory_found"`
	MandatoryMissing  []string `json:"mandatory_missing"`
	AppExpected       int      `json:"app_expected"`
	AppFound          int      `json:"app_found"`
	AppMissing        []string `json:"app_missing"`
	Score             float64  `json:"score"`
}

// QualityIssueKind classifies a non-error quality finding.
type QualityIssueKind string

const (
	IssueFileTooSmall         QualityIssueKind = "file_too_small"
	IssueMalformedStructured  QualityIssueKind = "malformed_structured_file"
	IssueContentTooShort      QualityIssueKind = "content_too_short"
	IssueMissingRequiredToken QualityIssueKind = "missing_required_element"
)

// QualityIssue is a health or content-quality finding on one file.
type QualityIssue struct {
	File   string           `json:"file"`
	Kind   QualityIssueKind `json:"kind"`
	Detail string           `json:"detail"`
}

// ErrorDetail records one error signature matched in one file.
type ErrorDetail struct {
	File      string `json:"file"`
	Signature string `json:"signature"`
	Context   string `json:"context"`
}

// QualityResult is the outcome of the file health, content and error scans.
type QualityResult struct {
	FileHealthHealthy    int            `json:"file_health_healthy"`
	FileHealthTotal      int            `json:"file_health_total"`
	ContentQualityPassed int            `json:"content_quality_passed"`
	ContentQualityTotal  int            `json:"content_quality_total"`
	ErrorsFound          bool           `json:"errors_found"`
	ErrorCount           int            `json:"error_count"`
	ErrorDetails         []ErrorDetail  `json:"error_details"`
	Issues               []QualityIssue `json:"issues"`
	Score                float64        `json:"score"`
}

type RecommendationPriority string

const (
	PriorityHigh   RecommendationPriority = "high"
	PriorityMedium RecommendationPriority = "medium"
)

type RecommendationCategory string

const (
	CategoryCompleteness RecommendationCategory = "completeness"
	CategoryQuality      RecommendationCategory = "quality"
)

type RecommendationImpact string

const (
	ImpactCritical RecommendationImpact = "critical"
	ImpactModerate RecommendationImpact = "moderate"
)

// Recommendation is one remediation item derived from evaluator findings.
type Recommendation struct {
	Priority   RecommendationPriority `json:"priority"`
	Category   RecommendationCategory `json:"category"`
	Issue      string                 `json:"issue"`
	Suggestion string                 `json:"suggestion"`
	Impact     RecommendationImpact   `json:"impact"`
}

// EvaluationRecord is the immutable result of evaluating one bundle.
// Construct it with NewEvaluationRecord or NewFailureRecord.
type EvaluationRecord struct {
	ProducerID      string             `json:"producer_id"`
	Location        string             `json:"location"`
	CriteriaVersion string             `json:"criteria_version"`
	EvaluatedAt     time.Time          `json:"evaluated_at"`
	TechStack       []string           `json:"tech_stack"`
	Completeness    CompletenessResult `json:"completeness"`
	Quality         QualityResult      `json:"quality"`
	Grade           Grade              `json:"grade"`
	OverallScore    float64            `json:"overall_score"`
	Confidence      float64            `json:"confidence"`
	Recommendations []Recommendation   `json:"recommendations"`
	Error           string             `json:"error,omitempty"`
}

// Classification is the grade classifier's output.
type Classification struct {
	Grade        Grade
	OverallScore float64
	Confidence   float64
}

// NewEvaluationRecord assembles a fully-populated record.
func NewEvaluationRecord(
	producerID, location, criteriaVersion string,
	evaluatedAt time.Time,
	techStack []string,
	completeness CompletenessResult,
	quality QualityResult,
	class Classification,
	recommendations []Recommendation,
) EvaluationRecord {
	if producerID == "" {
		producerID = DefaultProducerID
	}
	if techStack == nil {
		techStack = []string{}
	}
	if recommendations == nil {
		recommendations = []Recommendation{}
	}
	return EvaluationRecord{
		ProducerID:      producerID,
		Location:        location,
		CriteriaVersion: criteriaVersion,
		EvaluatedAt:     evaluatedAt.UTC(),
		TechStack:       techStack,
		Completeness:    completeness,
		Quality:         quality,
		Grade:           class.Grade,
		OverallScore:    class.OverallScore,
		Confidence:      class.Confidence,
		Recommendations: recommendations,
	}
}

// NewFailureRecord is the synthetic record for a bundle that could not be evaluated.
func NewFailureRecord(producerID, location, criteriaVersion string, evaluatedAt time.Time, err error) EvaluationRecord {
	rec := NewEvaluationRecord(
		producerID, location, criteriaVersion, evaluatedAt, nil,
		CompletenessResult{MandatoryMissing: []string{}, AppMissing: []string{}},
		QualityResult{ErrorDetails: []ErrorDetail{}, Issues: []QualityIssue{}},
		Classification{Grade: GradeFailure},
		nil,
	)
	if err != nil {
		rec.Error = err.Error()
	}
	return rec
}

// HasErrors reports whether error signatures were found.
func (r EvaluationRecord) HasErrors() bool {
	return r.Quality.ErrorsFound
}
