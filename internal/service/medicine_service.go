package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"medmarket/internal/auth"
	"medmarket/internal/entity"
	"medmarket/internal/repository"
)

// MedicineService handles catalog CRUD with a redis read-through
// cache on single-medicine lookups. rdb may be nil, in which case
// every read goes to the store.
type MedicineService struct {
	medicines repository.MedicineRepository
	rdb       *redis.Client
}

// NewMedicineService creates a new instance of MedicineService.
func NewMedicineService(medicines repository.MedicineRepository, rdb *redis.Client) *MedicineService {
	return &MedicineService{medicines: medicines, rdb: rdb}
}

func medicineCacheKey(id int) string {
	return fmt.Sprintf("medicine:%d", id)
}

// Create adds a medicine owned by the calling seller (or admin).
func (s *MedicineService) Create(ctx context.Context, p auth.Principal, m *entity.Medicine) (*entity.Medicine, error) {
	if err := auth.Allow(p, auth.NoOwner, auth.CapMedicineCreate); err != nil {
		return nil, err
	}
	if m.Name == "" {
		return nil, ErrMissingFields
	}
	if m.Price.IsNegative() {
		return nil, ErrInvalidPrice
	}
	if m.Stock < 0 {
		return nil, ErrInvalidStock
	}

	m.UserID = p.UserID
	created, err := s.medicines.Create(ctx, m)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating medicine")
		return nil, err
	}
	return created, nil
}

// List is the public catalog listing.
func (s *MedicineService) List(ctx context.Context) ([]entity.Medicine, error) {
	medicines, err := s.medicines.List(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing medicines")
		return nil, err
	}
	return medicines, nil
}

// GetByID returns a single medicine to a seller or admin, reading
// through the cache.
func (s *MedicineService) GetByID(ctx context.Context, p auth.Principal, id int) (*entity.Medicine, error) {
	if err := auth.Allow(p, auth.NoOwner, auth.CapMedicineManage); err != nil {
		return nil, err
	}

	if cached := s.cacheGet(ctx, id); cached != nil {
		return cached, nil
	}

	m, err := s.medicines.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logger.Error().Err(err).Msgf("Error getting medicine by ID %d", id)
		}
		return nil, err
	}

	s.cacheSet(ctx, m)
	return m, nil
}

// Update applies a partial update. Existence is checked before
// ownership; a seller may only touch its own medicines.
func (s *MedicineService) Update(ctx context.Context, p auth.Principal, id int, u entity.MedicineUpdate) error {
	if u.Empty() {
		return ErrEmptyUpdate
	}
	if u.Price != nil && u.Price.IsNegative() {
		return ErrInvalidPrice
	}
	if u.Stock != nil && *u.Stock < 0 {
		return ErrInvalidStock
	}

	m, err := s.medicines.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logger.Error().Err(err).Msgf("Error getting medicine by ID %d", id)
		}
		return err
	}
	if err := auth.Allow(p, m.UserID, auth.CapMedicineManage); err != nil {
		return err
	}

	if err := s.medicines.Update(ctx, id, u); err != nil {
		logger.Error().Err(err).Msgf("Error updating medicine %d", id)
		return err
	}

	s.cacheInvalidate(ctx, id)
	return nil
}

// Delete removes an owned medicine.
func (s *MedicineService) Delete(ctx context.Context, p auth.Principal, id int) error {
	m, err := s.medicines.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logger.Error().Err(err).Msgf("Error getting medicine by ID %d", id)
		}
		return err
	}
	if err := auth.Allow(p, m.UserID, auth.CapMedicineManage); err != nil {
		return err
	}

	if err := s.medicines.Delete(ctx, id); err != nil {
		logger.Error().Err(err).Msgf("Error deleting medicine %d", id)
		return err
	}

	s.cacheInvalidate(ctx, id)
	return nil
}

// Cache failures are logged and swallowed; the store remains the
// source of truth.

func (s *MedicineService) cacheGet(ctx context.Context, id int) *entity.Medicine {
	if s.rdb == nil {
		return nil
	}
	raw, err := s.rdb.Get(ctx, medicineCacheKey(id)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Error().Err(err).Msgf("Error getting medicine %d from cache", id)
		}
		return nil
	}

	m := &entity.Medicine{}
	if err := json.Unmarshal([]byte(raw), m); err != nil {
		logger.Error().Err(err).Msgf("Error unmarshalling cached medicine %d", id)
		return nil
	}
	return m
}

func (s *MedicineService) cacheSet(ctx context.Context, m *entity.Medicine) {
	if s.rdb == nil {
		return
	}
	raw, err := json.Marshal(m)
	if err != nil {
		logger.Error().Err(err).Msgf("Error marshalling medicine %d", m.ID)
		return
	}
	if err := s.rdb.Set(ctx, medicineCacheKey(m.ID), raw, 0).Err(); err != nil {
		logger.Error().Err(err).Msgf("Error setting medicine %d in cache", m.ID)
	}
}

func (s *MedicineService) cacheInvalidate(ctx context.Context, id int) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, medicineCacheKey(id)).Err(); err != nil {
		logger.Error().Err(err).Msgf("Error deleting medicine %d from cache", id)
	}
}
