package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"alfredoptarigan/bundle-evaluator/internal/models"
)

//go:embed criteria.yaml
var defaultCriteriaYAML []byte

// DefaultCriteria returns a fresh copy of the embedded criteria.
func DefaultCriteria() *models.EvaluationCriteria {
	criteria, err := ParseCriteria(defaultCriteriaYAML)
	if err != nil {
		panic(fmt.Sprintf("config: embedded criteria are invalid: %v", err))
	}
	return criteria
}

// LoadCriteria reads criteria from path, or the embedded default when path is empty.
func LoadCriteria(path string) (*models.EvaluationCriteria, error) {
	if path == "" {
		return DefaultCriteria(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read criteria %s: %w", path, err)
	}
	criteria, err := ParseCriteria(data)
	if err != nil {
		return nil, fmt.Errorf("criteria %s: %w", path, err)
	}
	return criteria, nil
}

// ParseCriteria decodes and validates criteria YAML.
func ParseCriteria(data []byte) (*models.EvaluationCriteria, error) {
	var criteria models.EvaluationCriteria
	if err := yaml.Unmarshal(data, &criteria); err != nil {
		return nil, fmt.Errorf("parse criteria: %w", err)
	}
	if err := criteria.Validate(); err != nil {
		return nil, err
	}
	return &criteria, nil
}
