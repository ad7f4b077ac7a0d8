package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/bundle-evaluator/internal/models"
)

func TestRecommendationsNone(t *testing.T) {
	got := NewRecommendationGenerator().Generate(models.CompletenessResult{}, models.QualityResult{})

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRecommendationsFixedOrder(t *testing.T) {
	completeness := models.CompletenessResult{
		MandatoryMissing: []string{"PLAN.md", "SUMMARY.md"},
		AppMissing:       []string{"styles.css"},
	}
	quality := models.QualityResult{
		ErrorsFound: true,
		ErrorCount:  3,
		ErrorDetails: []models.ErrorDetail{
			{File: "a.log", Signature: "TypeError"},
			{File: "a.log", Signature: "panic:"},
			{File: "b.log", Signature: "TypeError"},
		},
		Issues: []models.QualityIssue{
			{File: "README.md", Kind: models.IssueContentTooShort},
		},
	}

	got := NewRecommendationGenerator().Generate(completeness, quality)

	require.Len(t, got, 4)

	assert.Equal(t, models.PriorityHigh, got[0].Priority)
	assert.Equal(t, models.CategoryCompleteness, got[0].Category)
	assert.Equal(t, models.ImpactCritical, got[0].Impact)
	assert.Equal(t, "2 mandatory file(s) missing", got[0].Issue)
	assert.Equal(t, "Create the missing mandatory files: PLAN.md, SUMMARY.md", got[0].Suggestion)

	assert.Equal(t, models.PriorityMedium, got[1].Priority)
	assert.Equal(t, models.CategoryCompleteness, got[1].Category)
	assert.Contains(t, got[1].Suggestion, "styles.css")

	assert.Equal(t, models.PriorityHigh, got[2].Priority)
	assert.Equal(t, models.CategoryQuality, got[2].Category)
	assert.Equal(t, "3 error signature(s) found in generated output", got[2].Issue)
	assert.Equal(t, "Fix the errors left in: a.log, b.log", got[2].Suggestion)

	assert.Equal(t, models.PriorityMedium, got[3].Priority)
	assert.Equal(t, models.ImpactModerate, got[3].Impact)
	assert.Contains(t, got[3].Suggestion, "README.md")
}

func TestRecommendationsOnlyIssues(t *testing.T) {
	got := NewRecommendationGenerator().Generate(models.CompletenessResult{}, models.QualityResult{
		Issues: []models.QualityIssue{{File: "session.json", Kind: models.IssueMalformedStructured}},
	})

	require.Len(t, got, 1)
	assert.Equal(t, models.CategoryQuality, got[0].Category)
}
