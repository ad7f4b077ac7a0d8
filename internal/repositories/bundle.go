package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/bundle-evaluator/internal/models"
)

type BundleRepository interface {
	Create(bundle *models.Bundle) error
	FindByID(id uuid.UUID) (*models.Bundle, error)
}

type bundleRepository struct {
	db *gorm.DB
}

func NewBundleRepository(db *gorm.DB) BundleRepository {
	return &bundleRepository{db: db}
}

// Create implements BundleRepository.
func (r *bundleRepository) Create(bundle *models.Bundle) error {
	if err := r.db.Create(bundle).Error; err != nil {
		return fmt.Errorf("failed to create bundle: %w", err)
	}
	return nil
}

// FindByID implements BundleRepository.
func (r *bundleRepository) FindByID(id uuid.UUID) (*models.Bundle, error) {
	var bundle models.Bundle
	if err := r.db.Where("id = ?", id).First(&bundle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("bundle not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find bundle: %w", err)
	}
	return &bundle, nil
}
