package services

import (
	"math"

	"alfredoptarigan/bundle-evaluator/internal/models"
)

const (
	completenessWeight = 0.6
	qualityWeight      = 0.4
)

// GradeClassifier walks the threshold ladder; the first rung that matches wins
// and failure is the fallback.
type GradeClassifier struct {
	thresholds []models.GradeThreshold
}

func NewGradeClassifier(criteria *models.EvaluationCriteria) *GradeClassifier {
	return &GradeClassifier{thresholds: criteria.GradeThresholds}
}

func (g *GradeClassifier) Classify(completeness, quality float64, errorsFound bool) models.Classification {
	grade := models.GradeFailure
	for _, t := range g.thresholds {
		if t.Matches(completeness, quality, errorsFound) {
			grade = t.Grade
			break
		}
	}
	return models.Classification{
		Grade:        grade,
		OverallScore: OverallScore(completeness, quality),
		Confidence:   confidence(grade, completeness, quality),
	}
}

// OverallScore is independent of the grade branch.
func OverallScore(completeness, quality float64) float64 {
	return completenessWeight*completeness + qualityWeight*quality
}

func confidence(grade models.Grade, completeness, quality float64) float64 {
	switch grade {
	case models.GradeComplete:
		return math.Min(completeness, quality)
	case models.GradeGood:
		return math.Min(completeness, quality) * 0.9
	case models.GradeInsufficient:
		return math.Max(completeness, quality) * 0.6
	default:
		return math.Max(completeness, quality) * 0.3
	}
}
