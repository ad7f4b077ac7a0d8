package models

import (
	"time"

	"github.com/google/uuid"
)

type EvaluationStatus string

const (
	StatusQueued     EvaluationStatus = "queued"
	StatusProcessing EvaluationStatus = "processing"
	StatusCompleted  EvaluationStatus = "completed"
	StatusFailed     EvaluationStatus = "failed"
)

// Evaluation is the persisted evaluation job and, once processed, its record.
type Evaluation struct {
	ID                uuid.UUID         `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	BundleID          *uuid.UUID        `gorm:"type:uuid" json:"bundle_id,omitempty"`
	Location          string            `gorm:"type:text;not null" json:"location"`
	ProducerID        string            `gorm:"type:text;index;not null;default:'unknown'" json:"producer_id"`
	Status            EvaluationStatus  `gorm:"not null;default:'queued'" json:"status"`
	CriteriaVersion   string            `gorm:"type:text" json:"criteria_version,omitempty"`
	Grade             *string           `gorm:"type:text;index" json:"grade,omitempty"`
	OverallScore      *float64          `gorm:"type:decimal(5,4)" json:"overall_score,omitempty"`
	CompletenessScore *float64          `gorm:"type:decimal(5,4)" json:"completeness_score,omitempty"`
	QualityScore      *float64          `gorm:"type:decimal(5,4)" json:"quality_score,omitempty"`
	Confidence        *float64          `gorm:"type:decimal(5,4)" json:"confidence,omitempty"`
	HasErrors         bool              `gorm:"not null;default:false" json:"has_errors"`
	Record            *EvaluationRecord `gorm:"type:jsonb;serializer:json" json:"record,omitempty"`
	AISummary         *string           `gorm:"type:text" json:"ai_summary,omitempty"`
	ErrorMessage      *string           `gorm:"type:text" json:"error_message,omitempty"`
	EvaluatedAt       *time.Time        `gorm:"type:timestamp" json:"evaluated_at,omitempty"`
	CreatedAt         time.Time         `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time         `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	Bundle *Bundle `gorm:"foreignKey:BundleID" json:"-"`
}

func (Evaluation) TableName() string {
	return "evaluations"
}
