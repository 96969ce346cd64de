// Package pricing owns the delivery charge table: ordered, non-overlapping
// distance bands mapping to a flat charge, with a formula fallback for
// distances no band covers.
package pricing

import (
	"context"
	"errors"
	"math"

	"github.com/example/localmart/pkg/config"
	"github.com/example/localmart/pkg/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store is the persistence surface the table needs. The overlap probe must
// run against persisted state at write time, not a snapshot.
type Store interface {
	Insert(ctx context.Context, band *models.DeliveryCharge) error
	Update(ctx context.Context, band *models.DeliveryCharge) error
	FindByID(ctx context.Context, id string) (*models.DeliveryCharge, error)
	List(ctx context.Context, includeInactive bool) ([]models.DeliveryCharge, error)
	FindOverlapping(ctx context.Context, minDistance, maxDistance float64, excludeID string) (*models.DeliveryCharge, error)
	Deactivate(ctx context.Context, id string) error
}

// Cache holds the active band set between admin writes.
type Cache interface {
	GetActiveBandsCache(ctx context.Context) ([]models.DeliveryCharge, error)
	CacheActiveBands(ctx context.Context, bands []models.DeliveryCharge) error
	InvalidateActiveBands(ctx context.Context) error
}

type Table struct {
	store  Store
	cache  Cache
	config *config.PricingConfig
	logger *zap.Logger
}

func NewTable(store Store, cache Cache, cfg *config.PricingConfig, logger *zap.Logger) *Table {
	return &Table{
		store:  store,
		cache:  cache,
		config: cfg,
		logger: logger,
	}
}

// Lookup returns the charge of the active band containing distance (km), or
// models.ErrNotFound when no band covers it.
func (t *Table) Lookup(ctx context.Context, distance float64) (float64, error) {
	bands, err := t.activeBands(ctx)
	if err != nil {
		return 0, err
	}
	for i := range bands {
		if bands[i].Contains(distance) {
			return bands[i].Charge, nil
		}
	}
	return 0, models.ErrNotFound
}

// ChargeFor resolves the delivery charge for a distance, falling back to
// base + ceil(distance) * perKm when no band matches or the store is
// unreachable.
func (t *Table) ChargeFor(ctx context.Context, distance float64) float64 {
	charge, err := t.Lookup(ctx, distance)
	if err == nil {
		return charge
	}
	if !errors.Is(err, models.ErrNotFound) {
		t.logger.Error("delivery charge lookup failed, using fallback formula",
			zap.Float64("distance", distance),
			zap.Error(err))
	}
	return t.config.BaseCharge + math.Ceil(distance)*t.config.ChargePerKm
}

// CreateBand validates the range, probes for overlap against active bands,
// and persists the new band active.
func (t *Table) CreateBand(ctx context.Context, minDistance, maxDistance, charge float64) (*models.DeliveryCharge, error) {
	if err := validateRange(minDistance, maxDistance, charge); err != nil {
		return nil, err
	}
	if err := t.checkOverlap(ctx, minDistance, maxDistance, ""); err != nil {
		return nil, err
	}

	band := &models.DeliveryCharge{
		ID:          uuid.NewString(),
		MinDistance: minDistance,
		MaxDistance: maxDistance,
		Charge:      charge,
		IsActive:    true,
	}
	if err := t.store.Insert(ctx, band); err != nil {
		return nil, err
	}
	t.dropCache(ctx)

	t.logger.Info("delivery charge band created",
		zap.String("band_id", band.ID),
		zap.Float64("min_distance", minDistance),
		zap.Float64("max_distance", maxDistance),
		zap.Float64("charge", charge))
	return band, nil
}

// BandUpdate carries the mutable band fields; nil leaves a field unchanged.
type BandUpdate struct {
	MinDistance *float64
	MaxDistance *float64
	Charge      *float64
	IsActive    *bool
}

// UpdateBand applies the patch and re-runs the overlap probe (excluding the
// band itself) whenever either boundary changes.
func (t *Table) UpdateBand(ctx context.Context, id string, patch BandUpdate) (*models.DeliveryCharge, error) {
	band, err := t.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	boundsChanged := false
	if patch.MinDistance != nil {
		band.MinDistance = *patch.MinDistance
		boundsChanged = true
	}
	if patch.MaxDistance != nil {
		band.MaxDistance = *patch.MaxDistance
		boundsChanged = true
	}
	if patch.Charge != nil {
		band.Charge = *patch.Charge
	}
	if patch.IsActive != nil {
		band.IsActive = *patch.IsActive
	}

	if err := validateRange(band.MinDistance, band.MaxDistance, band.Charge); err != nil {
		return nil, err
	}
	if boundsChanged && band.IsActive {
		if err := t.checkOverlap(ctx, band.MinDistance, band.MaxDistance, band.ID); err != nil {
			return nil, err
		}
	}

	if err := t.store.Update(ctx, band); err != nil {
		return nil, err
	}
	t.dropCache(ctx)
	return band, nil
}

// DeactivateBand soft-deletes the band; it stays listed for audit.
func (t *Table) DeactivateBand(ctx context.Context, id string) error {
	if err := t.store.Deactivate(ctx, id); err != nil {
		return err
	}
	t.dropCache(ctx)
	return nil
}

func (t *Table) GetBand(ctx context.Context, id string) (*models.DeliveryCharge, error) {
	return t.store.FindByID(ctx, id)
}

// ListBands returns bands ascending by minDistance; active only unless
// includeInactive is set.
func (t *Table) ListBands(ctx context.Context, includeInactive bool) ([]models.DeliveryCharge, error) {
	return t.store.List(ctx, includeInactive)
}

func (t *Table) activeBands(ctx context.Context) ([]models.DeliveryCharge, error) {
	if t.cache != nil {
		if bands, err := t.cache.GetActiveBandsCache(ctx); err == nil {
			return bands, nil
		}
	}

	bands, err := t.store.List(ctx, false)
	if err != nil {
		return nil, err
	}
	if t.cache != nil {
		if err := t.cache.CacheActiveBands(ctx, bands); err != nil {
			t.logger.Warn("failed to cache active bands", zap.Error(err))
		}
	}
	return bands, nil
}

func (t *Table) checkOverlap(ctx context.Context, minDistance, maxDistance float64, excludeID string) error {
	existing, err := t.store.FindOverlapping(ctx, minDistance, maxDistance, excludeID)
	if errors.Is(err, models.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return &models.OverlapError{Existing: *existing}
}

func (t *Table) dropCache(ctx context.Context) {
	if t.cache == nil {
		return
	}
	if err := t.cache.InvalidateActiveBands(ctx); err != nil {
		t.logger.Warn("failed to invalidate band cache", zap.Error(err))
	}
}

func validateRange(minDistance, maxDistance, charge float64) error {
	if minDistance < 0 {
		return models.NewValidationError("minDistance must be >= 0")
	}
	if maxDistance <= minDistance {
		return models.NewValidationError("maxDistance must be greater than minDistance")
	}
	if charge < 0 {
		return models.NewValidationError("charge must be >= 0")
	}
	return nil
}
