package services

import (
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"alfredoptarigan/bundle-evaluator/internal/models"
)

const (
	errorPenalty  = 0.3
	contextRadius = 50
)

// QualityEvaluator scores file health, content sufficiency and error signatures.
// Files that do not exist are left to the CompletenessEvaluator.
type QualityEvaluator struct {
	rules models.QualityRules
}

func NewQualityEvaluator(criteria *models.EvaluationCriteria) *QualityEvaluator {
	return &QualityEvaluator{rules: criteria.QualityRules}
}

func (q *QualityEvaluator) Evaluate(bundle *models.ArtifactBundle) models.QualityResult {
	result := models.QualityResult{
		ErrorDetails: []models.ErrorDetail{},
		Issues:       []models.QualityIssue{},
	}
	existing := bundle.ExistingNames()
	if len(existing) == 0 {
		return result
	}

	for _, name := range existing {
		q.checkHealth(name, bundle.Files[name], &result)
	}
	q.checkContent(bundle, &result)
	for _, name := range existing {
		q.scanErrors(name, bundle.Files[name], &result)
	}

	healthScore := ratioOrOne(result.FileHealthHealthy, result.FileHealthTotal)
	contentScore := ratioOrOne(result.ContentQualityPassed, result.ContentQualityTotal)
	penalty := 0.0
	if result.ErrorsFound {
		penalty = errorPenalty
	}
	score := (healthScore+contentScore)/2 - penalty
	if score < 0 {
		score = 0
	}
	result.Score = clamp01(score)
	return result
}

func (q *QualityEvaluator) checkHealth(name string, rec models.FileRecord, result *models.QualityResult) {
	result.FileHealthTotal++
	if size := rec.ByteSize(); size >= q.rules.MinFileSizeBytes {
		result.FileHealthHealthy++
	} else {
		result.Issues = append(result.Issues, models.QualityIssue{
			File:   name,
			Kind:   models.IssueFileTooSmall,
			Detail: fmt.Sprintf("%d bytes, minimum is %d", size, q.rules.MinFileSizeBytes),
		})
	}

	// A truncated document cannot be judged well-formed or not.
	format, structured := q.rules.StructuredExtensions[strings.ToLower(path.Ext(name))]
	if !structured || rec.Truncated {
		return
	}
	result.FileHealthTotal++
	if err := parseStructured(format, rec.Text()); err != nil {
		result.Issues = append(result.Issues, models.QualityIssue{
			File:   name,
			Kind:   models.IssueMalformedStructured,
			Detail: err.Error(),
		})
		return
	}
	result.FileHealthHealthy++
}

func (q *QualityEvaluator) checkContent(bundle *models.ArtifactBundle, result *models.QualityResult) {
	for _, name := range sortedKeys(q.rules.MinContentLengthByFile) {
		if !bundle.Has(name) {
			continue
		}
		minLen := q.rules.MinContentLengthByFile[name]
		result.ContentQualityTotal++
		if n := utf8.RuneCountInString(bundle.Files[name].Text()); n >= minLen {
			result.ContentQualityPassed++
		} else {
			result.Issues = append(result.Issues, models.QualityIssue{
				File:   name,
				Kind:   models.IssueContentTooShort,
				Detail: fmt.Sprintf("%d characters, minimum is %d", n, minLen),
			})
		}
	}

	// Any one keyword satisfies the requirement.
	for _, name := range sortedKeys(q.rules.RequiredElementsByFile) {
		if !bundle.Has(name) {
			continue
		}
		keywords := q.rules.RequiredElementsByFile[name]
		result.ContentQualityTotal++
		lower := strings.ToLower(bundle.Files[name].Text())
		found := false
		for _, kw := range keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				found = true
				break
			}
		}
		if found {
			result.ContentQualityPassed++
		} else {
			result.Issues = append(result.Issues, models.QualityIssue{
				File:   name,
				Kind:   models.IssueMissingRequiredToken,
				Detail: fmt.Sprintf("none of %s present", strings.Join(keywords, ", ")),
			})
		}
	}
}

// scanErrors is a case-sensitive substring scan. Every (file, signature) match counts.
func (q *QualityEvaluator) scanErrors(name string, rec models.FileRecord, result *models.QualityResult) {
	content := rec.Text()
	if content == "" {
		return
	}
	for _, sig := range q.rules.ErrorSignatures {
		if sig == "" {
			continue
		}
		idx := strings.Index(content, sig)
		if idx < 0 {
			continue
		}
		result.ErrorsFound = true
		result.ErrorCount++
		result.ErrorDetails = append(result.ErrorDetails, models.ErrorDetail{
			File:      name,
			Signature: sig,
			Context:   excerpt(content, idx, len(sig)),
		})
	}
}

func parseStructured(format, content string) error {
	var v any
	switch format {
	case "json":
		if err := json.Unmarshal([]byte(content), &v); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedStructuredFile, err)
		}
	case "yaml":
		if strings.TrimSpace(content) == "" {
			return fmt.Errorf("%w: empty document", ErrMalformedStructuredFile)
		}
		if err := yaml.Unmarshal([]byte(content), &v); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedStructuredFile, err)
		}
	}
	return nil
}

// excerpt returns up to contextRadius bytes either side of a match, snapped to rune boundaries.
func excerpt(content string, idx, length int) string {
	start := idx - contextRadius
	if start < 0 {
		start = 0
	}
	end := idx + length + contextRadius
	if end > len(content) {
		end = len(content)
	}
	for start > 0 && !utf8.RuneStart(content[start]) {
		start--
	}
	for end < len(content) && !utf8.RuneStart(content[end]) {
		end++
	}
	return strings.TrimSpace(content[start:end])
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
