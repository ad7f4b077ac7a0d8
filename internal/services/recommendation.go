package services

import (
	"fmt"
	"strings"

	"alfredoptarigan/bundle-evaluator/internal/models"
)

// RecommendationGenerator derives remediation items. Rules are evaluated
// independently and emitted in a fixed order.
type RecommendationGenerator struct{}

func NewRecommendationGenerator() *RecommendationGenerator {
	return &RecommendationGenerator{}
}

func (r *RecommendationGenerator) Generate(completeness models.CompletenessResult, quality models.QualityResult) []models.Recommendation {
	recs := []models.Recommendation{}

	if n := len(completeness.MandatoryMissing); n > 0 {
		recs = append(recs, models.Recommendation{
			Priority:   models.PriorityHigh,
			Category:   models.CategoryCompleteness,
			Issue:      fmt.Sprintf("%d mandatory file(s) missing", n),
			Suggestion: "Create the missing mandatory files: " + strings.Join(completeness.MandatoryMissing, ", "),
			Impact:     models.ImpactCritical,
		})
	}

	if n := len(completeness.AppMissing); n > 0 {
		recs = append(recs, models.Recommendation{
			Priority:   models.PriorityMedium,
			Category:   models.CategoryCompleteness,
			Issue:      fmt.Sprintf("%d expected application file(s) missing", n),
			Suggestion: "Add the files expected for the detected stack: " + strings.Join(completeness.AppMissing, ", "),
			Impact:     models.ImpactModerate,
		})
	}

	if quality.ErrorsFound {
		recs = append(recs, models.Recommendation{
			Priority:   models.PriorityHigh,
			Category:   models.CategoryQuality,
			Issue:      fmt.Sprintf("%d error signature(s) found in generated output", quality.ErrorCount),
			Suggestion: "Fix the errors left in: " + strings.Join(errorFiles(quality.ErrorDetails), ", "),
			Impact:     models.ImpactCritical,
		})
	}

	if n := len(quality.Issues); n > 0 {
		recs = append(recs, models.Recommendation{
			Priority:   models.PriorityMedium,
			Category:   models.CategoryQuality,
			Issue:      fmt.Sprintf("%d content quality issue(s)", n),
			Suggestion: "Expand or repair: " + strings.Join(issueFiles(quality.Issues), ", "),
			Impact:     models.ImpactModerate,
		})
	}

	return recs
}

func errorFiles(details []models.ErrorDetail) []string {
	var out []string
	seen := map[string]bool{}
	for _, d := range details {
		if !seen[d.File] {
			seen[d.File] = true
			out = append(out, d.File)
		}
	}
	return out
}

func issueFiles(issues []models.QualityIssue) []string {
	var out []string
	seen := map[string]bool{}
	for _, i := range issues {
		if !seen[i.File] {
			seen[i.File] = true
			out = append(out, i.File)
		}
	}
	return out
}
