package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/cartwise/backend/internal/domain"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// HistoryService records matched queries per user and reads them back
type HistoryService struct {
	repo    domain.HistoryRepository
	inferer *MetadataInferer
	guard   *RequestGuard
	now     func() time.Time
	newID   func() string
}

// NewHistoryService creates a new history service
func NewHistoryService(repo domain.HistoryRepository, inferer *MetadataInferer, guard *RequestGuard) *HistoryService {
	return &HistoryService{
		repo:    repo,
		inferer: inferer,
		guard:   guard,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Record infers metadata for the query and stores it with the match response
func (s *HistoryService) Record(ctx context.Context, userID, storeID, query string, response *domain.MatchResponse) (*domain.HistoryRecord, error) {
	userID, err := s.guard.ValidateUserID(userID)
	if err != nil {
		return nil, err
	}
	if response == nil {
		response = domain.EmptyMatchResponse()
	}

	record := &domain.HistoryRecord{
		ID:                    s.newID(),
		UserID:                userID,
		StoreID:               storeID,
		Query:                 query,
		Timestamp:             s.now().UTC(),
		GeneratedCategories:   response.AllGeneratedCategories,
		ProductMappingResults: response.MatchedProducts,
		ShoppingMetadata:      s.inferer.Infer(ctx, query),
	}

	if err := s.repo.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("saving history for %s: %w", userID, err)
	}

	log.Infof("[HISTORY] stored query %s for user %s", record.ID, userID)
	return record, nil
}

// List returns a user's stored queries, oldest first.
// ErrHistoryNotFound is returned when there are none.
func (s *HistoryService) List(ctx context.Context, userID string) ([]domain.HistoryRecord, error) {
	userID, err := s.guard.ValidateUserID(userID)
	if err != nil {
		return nil, err
	}

	records, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, domain.ErrHistoryNotFound
	}
	return records, nil
}
