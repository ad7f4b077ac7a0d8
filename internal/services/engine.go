package services

import (
	"time"

	"alfredoptarigan/bundle-evaluator/internal/models"
)

// Engine runs the pure evaluation pipeline over an in-memory bundle.
type Engine struct {
	criteria     *models.EvaluationCriteria
	detector     *TechStackDetector
	completeness *CompletenessEvaluator
	quality      *QualityEvaluator
	classifier   *GradeClassifier
	recommender  *RecommendationGenerator
	now          func() time.Time
}

func NewEngine(criteria *models.EvaluationCriteria) *Engine {
	return &Engine{
		criteria:     criteria,
		detector:     NewTechStackDetector(),
		completeness: NewCompletenessEvaluator(criteria),
		quality:      NewQualityEvaluator(criteria),
		classifier:   NewGradeClassifier(criteria),
		recommender:  NewRecommendationGenerator(),
		now:          time.Now,
	}
}

// WithClock replaces the timestamp source.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	clone := *e
	clone.now = now
	return &clone
}

func (e *Engine) CriteriaVersion() string {
	return e.criteria.Version
}

func (e *Engine) Evaluate(bundle *models.ArtifactBundle) models.EvaluationRecord {
	techStack := e.detector.Detect(bundle.Files)
	completeness := e.completeness.Evaluate(bundle, techStack)
	quality := e.quality.Evaluate(bundle)
	class := e.classifier.Classify(completeness.Score, quality.Score, quality.ErrorsFound)
	recs := e.recommender.Generate(completeness, quality)

	return models.NewEvaluationRecord(
		bundle.Producer(),
		bundle.Location,
		e.criteria.Version,
		e.now(),
		techStack,
		completeness,
		quality,
		class,
		recs,
	)
}
