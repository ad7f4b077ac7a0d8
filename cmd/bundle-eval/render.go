package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"alfredoptarigan/bundle-evaluator/internal/models"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	labelStyle = lipgloss.NewStyle().Faint(true).Width(14)
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	gradeColors = map[models.Grade]lipgloss.Color{
		models.GradeComplete:     lipgloss.Color("42"),
		models.GradeGood:         lipgloss.Color("39"),
		models.GradeInsufficient: lipgloss.Color("214"),
		models.GradeFailure:      lipgloss.Color("196"),
	}
)

func gradeBadge(g models.Grade) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(gradeColors[g]).
		Render(strings.ToUpper(g.String()))
}

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), value)
}

func pct(v float64) string {
	return fmt.Sprintf("%5.1f%%", v*100)
}

func renderRecord(rec models.EvaluationRecord) string {
	lines := []string{
		titleStyle.Render(rec.Location),
		row("Grade", gradeBadge(rec.Grade)),
		row("Producer", rec.ProducerID),
		row("Overall", pct(rec.OverallScore)),
		row("Completeness", pct(rec.Completeness.Score)),
		row("Quality", pct(rec.Quality.Score)),
		row("Confidence", pct(rec.Confidence)),
	}
	if len(rec.TechStack) > 0 {
		lines = append(lines, row("Tech stack", strings.Join(rec.TechStack, ", ")))
	}
	if rec.Error != "" {
		lines = append(lines, row("Error", rec.Error))
	}

	if len(rec.Recommendations) > 0 {
		lines = append(lines, "", titleStyle.Render("Recommendations"))
		for _, r := range rec.Recommendations {
			lines = append(lines, fmt.Sprintf("[%s] %s", r.Priority, r.Issue), "  "+r.Suggestion)
		}
	}
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func renderRecordLine(rec models.EvaluationRecord) string {
	line := fmt.Sprintf("%-14s %s overall %s  %s",
		gradeBadge(rec.Grade), rec.ProducerID, pct(rec.OverallScore), rec.Location)
	if rec.Error != "" {
		line += "  (" + rec.Error + ")"
	}
	return line
}

func renderStatistics(stats models.Statistics) string {
	if !stats.HasData {
		return stats.Message
	}

	lines := []string{titleStyle.Render("Statistics")}
	for _, p := range stats.Producers {
		lines = append(lines, fmt.Sprintf("%-20s %3d evaluation(s)  success %s  overall %s  %s",
			p.ProducerID, p.TotalEvaluations, pct(p.SuccessRate), pct(p.AverageScores.Overall),
			distribution(p.GradeDistribution)))
	}
	lines = append(lines, "",
		row("Evaluations", fmt.Sprint(stats.Summary.TotalEvaluations)),
		row("Producers", fmt.Sprint(stats.Summary.ProducerCount)),
		row("Success rate", pct(stats.Summary.AverageSuccessRate)),
		row("Grades", distribution(stats.Summary.GradeDistribution)),
	)
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func distribution(d models.GradeDistribution) string {
	parts := make([]string, 0, len(models.AllGrades))
	for _, g := range models.AllGrades {
		parts = append(parts, fmt.Sprintf("%s=%d", g, d[g]))
	}
	return strings.Join(parts, " ")
}
