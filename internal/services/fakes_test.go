package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/bundle-evaluator/internal/models"
	"alfredoptarigan/bundle-evaluator/internal/repositories"
)

// fakeEvalRepo is an in-memory EvaluationRepository.
type fakeEvalRepo struct {
	mu            sync.Mutex
	evals         map[uuid.UUID]*models.Evaluation
	findRecordsN  int
	fingerprint   repositories.RecordFingerprint
	statusHistory []models.EvaluationStatus
}

func newFakeEvalRepo() *fakeEvalRepo {
	return &fakeEvalRepo{evals: map[uuid.UUID]*models.Evaluation{}}
}

func (r *fakeEvalRepo) Create(eval *models.Evaluation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *eval
	r.evals[eval.ID] = &cp
	return nil
}

func (r *fakeEvalRepo) FindByID(id uuid.UUID) (*models.Evaluation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	eval, ok := r.evals[id]
	if !ok {
		return nil, fmt.Errorf("evaluation %s: %w", id, repositories.ErrNotFound)
	}
	cp := *eval
	return &cp, nil
}

func (r *fakeEvalRepo) UpdateStatus(id uuid.UUID, status models.EvaluationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statusHistory = append(r.statusHistory, status)
	if eval, ok := r.evals[id]; ok {
		eval.Status = status
	}
	return nil
}

func (r *fakeEvalRepo) SaveRecord(id uuid.UUID, record models.EvaluationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	eval, ok := r.evals[id]
	if !ok {
		return repositories.ErrNotFound
	}
	rec := record
	eval.Record = &rec
	eval.Status = models.StatusCompleted
	if record.Error != "" {
		eval.Status = models.StatusFailed
		msg := record.Error
		eval.ErrorMessage = &msg
	}
	r.statusHistory = append(r.statusHistory, eval.Status)
	r.fingerprint.Count++
	r.fingerprint.LastUpdated = r.fingerprint.LastUpdated.Add(time.Second)
	return nil
}

func (r *fakeEvalRepo) UpdateError(id uuid.UUID, errorMsg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if eval, ok := r.evals[id]; ok {
		eval.Status = models.StatusFailed
		eval.ErrorMessage = &errorMsg
	}
	return nil
}

func (r *fakeEvalRepo) UpdateSummary(id uuid.UUID, summary string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	eval, ok := r.evals[id]
	if !ok {
		return repositories.ErrNotFound
	}
	eval.AISummary = &summary
	return nil
}

func (r *fakeEvalRepo) FindPendingJobs(limit int) ([]models.Evaluation, error) {
	return nil, nil
}

func (r *fakeEvalRepo) FindRecords(producerID string) ([]models.EvaluationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findRecordsN++
	var out []models.EvaluationRecord
	for _, eval := range r.evals {
		if eval.Record == nil {
			continue
		}
		if producerID != "" && eval.Record.ProducerID != producerID {
			continue
		}
		out = append(out, *eval.Record)
	}
	return out, nil
}

func (r *fakeEvalRepo) FindEvaluatedIDs(limit int) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []uuid.UUID
	for id, eval := range r.evals {
		if eval.Record != nil {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *fakeEvalRepo) Fingerprint() (repositories.RecordFingerprint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fingerprint, nil
}

func (r *fakeEvalRepo) get(id uuid.UUID) models.Evaluation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.evals[id]
}

// fakeLoader serves bundles from a map, or a fixed error or panic.
type fakeLoader struct {
	bundles map[string]*models.ArtifactBundle
	err     error
	panic   any
}

func (l *fakeLoader) Load(_ context.Context, location string) (*models.ArtifactBundle, error) {
	if l.panic != nil {
		panic(l.panic)
	}
	if l.err != nil {
		return nil, l.err
	}
	b, ok := l.bundles[location]
	if !ok {
		return nil, errorf(ErrBundleUnavailable, "%s not found", location)
	}
	cp := *b
	return &cp, nil
}

// cancellingLoader cancels its context on every Load and then fails the way
// the filesystem loader does when it sees a cancelled context.
type cancellingLoader struct {
	inner  BundleLoader
	cancel context.CancelFunc
}

func (l *cancellingLoader) Load(ctx context.Context, location string) (*models.ArtifactBundle, error) {
	if l.cancel != nil {
		l.cancel()
	}
	if err := ctx.Err(); err != nil {
		return nil, errorf(ErrBundleUnavailable, "read %s: %v", location, err)
	}
	return l.inner.Load(ctx, location)
}
