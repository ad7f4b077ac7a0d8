package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/bundle-evaluator/internal/models"
)

var ErrNotFound = errors.New("not found")

type EvaluationRepository interface {
	Create(eval *models.Evaluation) error
	FindByID(id uuid.UUID) (*models.Evaluation, error)
	UpdateStatus(id uuid.UUID, status models.EvaluationStatus) error
	SaveRecord(id uuid.UUID, record models.EvaluationRecord) error
	UpdateError(id uuid.UUID, errorMsg string) error
	UpdateSummary(id uuid.UUID, summary string) error
	FindPendingJobs(limit int) ([]models.Evaluation, error)
	FindRecords(producerID string) ([]models.EvaluationRecord, error)
	FindEvaluatedIDs(limit int) ([]uuid.UUID, error)
	Fingerprint() (RecordFingerprint, error)
}

// RecordFingerprint changes whenever a record is added or replaced.
type RecordFingerprint struct {
	Count       int64
	LastUpdated time.Time
}

type evaluationRepository struct {
	db *gorm.DB
}

func NewEvaluationRepository(db *gorm.DB) EvaluationRepository {
	return &evaluationRepository{db: db}
}

func (r *evaluationRepository) Create(eval *models.Evaluation) error {
	if err := r.db.Create(eval).Error; err != nil {
		return fmt.Errorf("failed to create evaluation: %w", err)
	}
	return nil
}

func (r *evaluationRepository) FindByID(id uuid.UUID) (*models.Evaluation, error) {
	var eval models.Evaluation
	if err := r.db.Where("id = ?", id).First(&eval).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("evaluation %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find evaluation: %w", err)
	}
	return &eval, nil
}

func (r *evaluationRepository) UpdateStatus(id uuid.UUID, status models.EvaluationStatus) error {
	return r.update(id, map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	})
}

// SaveRecord stores the record and its flattened scores. Synthetic failure
// records mark the job failed but are still kept for statistics.
func (r *evaluationRepository) SaveRecord(id uuid.UUID, record models.EvaluationRecord) error {
	status := models.StatusCompleted
	if record.Error != "" {
		status = models.StatusFailed
	}
	rec := record
	updates := map[string]interface{}{
		"status":             status,
		"producer_id":        record.ProducerID,
		"criteria_version":   record.CriteriaVersion,
		"grade":              record.Grade.String(),
		"overall_score":      record.OverallScore,
		"completeness_score": record.Completeness.Score,
		"quality_score":      record.Quality.Score,
		"confidence":         record.Confidence,
		"has_errors":         record.HasErrors(),
		"evaluated_at":       record.EvaluatedAt,
		"updated_at":         time.Now(),
	}
	if record.Error != "" {
		updates["error_message"] = record.Error
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Evaluation{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return fmt.Errorf("failed to save record: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("evaluation %s: %w", id, ErrNotFound)
		}
		// The serializer only applies to struct updates.
		if err := tx.Model(&models.Evaluation{ID: id}).Select("record").Updates(&models.Evaluation{Record: &rec}).Error; err != nil {
			return fmt.Errorf("failed to save record payload: %w", err)
		}
		return nil
	})
}

func (r *evaluationRepository) UpdateError(id uuid.UUID, errorMsg string) error {
	return r.update(id, map[string]interface{}{
		"status":        models.StatusFailed,
		"error_message": errorMsg,
		"updated_at":    time.Now(),
	})
}

func (r *evaluationRepository) UpdateSummary(id uuid.UUID, summary string) error {
	return r.update(id, map[string]interface{}{
		"ai_summary": summary,
		"updated_at": time.Now(),
	})
}

func (r *evaluationRepository) FindPendingJobs(limit int) ([]models.Evaluation, error) {
	var evals []models.Evaluation
	err := r.db.
		Where("status = ?", models.StatusQueued).
		Order("created_at ASC").
		Limit(limit).
		Find(&evals).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find pending jobs: %w", err)
	}

	return evals, nil
}

// FindRecords returns stored records, optionally for one producer, oldest first.
func (r *evaluationRepository) FindRecords(producerID string) ([]models.EvaluationRecord, error) {
	var evals []models.Evaluation
	q := r.db.Where("record IS NOT NULL")
	if producerID != "" {
		q = q.Where("producer_id = ?", producerID)
	}
	if err := q.Order("evaluated_at ASC").Find(&evals).Error; err != nil {
		return nil, fmt.Errorf("failed to find records: %w", err)
	}

	records := make([]models.EvaluationRecord, 0, len(evals))
	for _, e := range evals {
		if e.Record != nil {
			records = append(records, *e.Record)
		}
	}
	return records, nil
}

func (r *evaluationRepository) FindEvaluatedIDs(limit int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	q := r.db.Model(&models.Evaluation{}).Where("record IS NOT NULL").Order("evaluated_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to find evaluated ids: %w", err)
	}
	return ids, nil
}

func (r *evaluationRepository) Fingerprint() (RecordFingerprint, error) {
	var fp struct {
		Count       int64
		LastUpdated *time.Time
	}
	err := r.db.Model(&models.Evaluation{}).
		Select("COUNT(*) AS count, MAX(updated_at) AS last_updated").
		Where("record IS NOT NULL").
		Scan(&fp).Error
	if err != nil {
		return RecordFingerprint{}, fmt.Errorf("failed to fingerprint records: %w", err)
	}
	out := RecordFingerprint{Count: fp.Count}
	if fp.LastUpdated != nil {
		out.LastUpdated = fp.LastUpdated.UTC()
	}
	return out, nil
}

func (r *evaluationRepository) update(id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.Model(&models.Evaluation{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to update evaluation: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("evaluation %s: %w", id, ErrNotFound)
	}

	return nil
}
