package services

import (
	"path"
	"strings"

	"alfredoptarigan/bundle-evaluator/internal/models"
)

const (
	mandatoryWeight = 0.7
	appWeight       = 0.3
)

var canonicalStems = []string{"main", "app", "index"}

// CompletenessEvaluator scores the presence of mandatory and stack-specific files.
type CompletenessEvaluator struct {
	criteria *models.EvaluationCriteria
}

func NewCompletenessEvaluator(criteria *models.EvaluationCriteria) *CompletenessEvaluator {
	return &CompletenessEvaluator{criteria: criteria}
}

func (c *CompletenessEvaluator) Evaluate(bundle *models.ArtifactBundle, techStack []string) models.CompletenessResult {
	result := models.CompletenessResult{
		MandatoryMissing: []string{},
		AppMissing:       []string{},
	}

	// Mandatory files must match exactly.
	for _, name := range c.criteria.MandatoryCoreFiles {
		result.MandatoryExpected++
		if bundle.Has(name) {
			result.MandatoryFound++
		} else {
			result.MandatoryMissing = append(result.MandatoryMissing, name)
		}
	}

	existing := bundle.ExistingNames()
	for _, name := range c.criteria.ExpectedFilesFor(techStack) {
		result.AppExpected++
		if appFilePresent(name, existing) {
			result.AppFound++
		} else {
			result.AppMissing = append(result.AppMissing, name)
		}
	}

	mandatoryScore := ratioOrOne(result.MandatoryFound, result.MandatoryExpected)
	appScore := ratioOrOne(result.AppFound, result.AppExpected)
	result.Score = clamp01(mandatoryWeight*mandatoryScore + appWeight*appScore)
	return result
}

// appFilePresent tolerates naming drift: plural/singular stems, canonical entry
// stems with the same extension, and containment in any existing name.
func appFilePresent(expected string, existing []string) bool {
	if len(existing) == 0 {
		return false
	}
	variants := nameVariants(expected)
	needle := strings.ToLower(expected)
	for _, name := range existing {
		lower := strings.ToLower(name)
		base := path.Base(lower)
		if _, ok := variants[lower]; ok {
			return true
		}
		if _, ok := variants[base]; ok {
			return true
		}
		if strings.Contains(lower, needle) {
			return true
		}
	}
	return false
}

func nameVariants(expected string) map[string]struct{} {
	lower := strings.ToLower(expected)
	ext := path.Ext(lower)
	stem := strings.TrimSuffix(lower, ext)

	variants := map[string]struct{}{lower: {}}
	variants[stem+"s"+ext] = struct{}{}
	if trimmed := strings.TrimSuffix(stem, "s"); trimmed != stem && trimmed != "" {
		variants[trimmed+ext] = struct{}{}
	}
	if ext != "" {
		for _, canonical := range canonicalStems {
			variants[canonical+ext] = struct{}{}
		}
	}
	return variants
}

func ratioOrOne(found, expected int) float64 {
	if expected == 0 {
		return 1.0
	}
	return float64(found) / float64(expected)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
