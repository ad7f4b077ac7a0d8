package models

import "time"

// AverageScores are per-producer means of the record scores.
type AverageScores struct {
	Overall      float64 `json:"overall"`
	Completeness float64 `json:"completeness"`
	Quality      float64 `json:"quality"`
	Confidence   float64 `json:"confidence"`
}

// ProducerStatistics is a derived view over one producer's records.
type ProducerStatistics struct {
	ProducerID        string            `json:"producer_id"`
	TotalEvaluations  int               `json:"total_evaluations"`
	GradeDistribution GradeDistribution `json:"grade_distribution"`
	AverageScores     AverageScores     `json:"average_scores"`
	SuccessRate       float64           `json:"success_rate"`
	LastActivity      time.Time         `json:"last_activity"`
}

// StatisticsSummary is the cross-producer view.
type StatisticsSummary struct {
	TotalEvaluations   int               `json:"total_evaluations"`
	ProducerCount      int               `json:"producer_count"`
	GradeDistribution  GradeDistribution `json:"grade_distribution"`
	AverageSuccessRate float64           `json:"average_success_rate"`
}

// Statistics is the aggregator output. HasData is false for an empty input.
type Statistics struct {
	HasData   bool                 `json:"has_data"`
	Message   string               `json:"message,omitempty"`
	Producers []ProducerStatistics `json:"producers"`
	Summary   StatisticsSummary    `json:"summary"`
}
