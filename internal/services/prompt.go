package services

import (
	"fmt"
	"strings"

	"alfredoptarigan/bundle-evaluator/internal/models"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildSummaryPrompt asks for a short narrative of an evaluation record. The
// grade itself is already decided and must not be re-judged.
func (pb *PromptBuilder) BuildSummaryPrompt(rec models.EvaluationRecord) string {
	return fmt.Sprintf(`You are reviewing the output of an autonomous content-generation worker.
A deterministic checker has already graded the output. Do not change or dispute the grade.

GRADE: %s
OVERALL SCORE: %.2f (completeness %.2f, quality %.2f, confidence %.2f)
TECH STACK: %s
MISSING MANDATORY FILES: %s
MISSING APPLICATION FILES: %s
ERROR SIGNATURES: %s
QUALITY ISSUES: %s
RECOMMENDATIONS:
%s

Write 3-5 sentences for the worker's operator: what the output achieved, what blocks a better
grade, and the single most valuable next step. Plain text, no markdown.`,
		rec.Grade,
		rec.OverallScore, rec.Completeness.Score, rec.Quality.Score, rec.Confidence,
		listOrNone(rec.TechStack),
		listOrNone(rec.Completeness.MandatoryMissing),
		listOrNone(rec.Completeness.AppMissing),
		listOrNone(errorSummaries(rec.Quality.ErrorDetails)),
		listOrNone(issueSummaries(rec.Quality.Issues)),
		formatRecommendations(rec.Recommendations),
	)
}

// BuildIndexText is the text embedded for similarity search.
func (pb *PromptBuilder) BuildIndexText(rec models.EvaluationRecord, summary string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "grade: %s\n", rec.Grade)
	fmt.Fprintf(&b, "stack: %s\n", listOrNone(rec.TechStack))
	for _, r := range rec.Recommendations {
		fmt.Fprintf(&b, "%s: %s\n", r.Issue, r.Suggestion)
	}
	for _, d := range rec.Quality.ErrorDetails {
		fmt.Fprintf(&b, "error %s in %s: %s\n", d.Signature, d.File, d.Context)
	}
	b.WriteString(summary)
	return b.String()
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

func errorSummaries(details []models.ErrorDetail) []string {
	out := make([]string, 0, len(details))
	for _, d := range details {
		out = append(out, fmt.Sprintf("%q in %s", d.Signature, d.File))
	}
	return out
}

func issueSummaries(issues []models.QualityIssue) []string {
	out := make([]string, 0, len(issues))
	for _, i := range issues {
		out = append(out, fmt.Sprintf("%s (%s)", i.File, i.Kind))
	}
	return out
}

func formatRecommendations(recs []models.Recommendation) string {
	if len(recs) == 0 {
		return "- none"
	}
	lines := make([]string, 0, len(recs))
	for _, r := range recs {
		lines = append(lines, fmt.Sprintf("- [%s/%s] %s: %s", r.Priority, r.Category, r.Issue, r.Suggestion))
	}
	return strings.Join(lines, "\n")
}
