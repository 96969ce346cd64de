package pricing

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/example/localmart/pkg/config"
	"github.com/example/localmart/pkg/models"
	"go.uber.org/zap"
)

type fakeBandStore struct {
	bands map[string]*models.DeliveryCharge
}

func newFakeBandStore() *fakeBandStore {
	return &fakeBandStore{bands: make(map[string]*models.DeliveryCharge)}
}

func (f *fakeBandStore) Insert(_ context.Context, band *models.DeliveryCharge) error {
	copied := *band
	f.bands[band.ID] = &copied
	return nil
}

func (f *fakeBandStore) Update(_ context.Context, band *models.DeliveryCharge) error {
	if _, ok := f.bands[band.ID]; !ok {
		return models.ErrNotFound
	}
	copied := *band
	f.bands[band.ID] = &copied
	return nil
}

func (f *fakeBandStore) FindByID(_ context.Context, id string) (*models.DeliveryCharge, error) {
	band, ok := f.bands[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *band
	return &copied, nil
}

func (f *fakeBandStore) List(_ context.Context, includeInactive bool) ([]models.DeliveryCharge, error) {
	var out []models.DeliveryCharge
	for _, band := range f.bands {
		if includeInactive || band.IsActive {
			out = append(out, *band)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MinDistance < out[j].MinDistance })
	return out, nil
}

func (f *fakeBandStore) FindOverlapping(_ context.Context, minDistance, maxDistance float64, excludeID string) (*models.DeliveryCharge, error) {
	for _, band := range f.bands {
		if !band.IsActive || band.ID == excludeID {
			continue
		}
		if models.RangesOverlap(minDistance, maxDistance, band.MinDistance, band.MaxDistance) {
			copied := *band
			return &copied, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeBandStore) Deactivate(_ context.Context, id string) error {
	band, ok := f.bands[id]
	if !ok {
		return models.ErrNotFound
	}
	band.IsActive = false
	return nil
}

func newTable(store Store) *Table {
	cfg := &config.PricingConfig{BaseCharge: 20, ChargePerKm: 10, TrustClientPrices: true}
	return NewTable(store, nil, cfg, zap.NewNop())
}

func TestLookupReturnsMatchingBandCharge(t *testing.T) {
	store := newFakeBandStore()
	table := newTable(store)
	ctx := context.Background()

	if _, err := table.CreateBand(ctx, 0, 3, 30); err != nil {
		t.Fatalf("CreateBand: %v", err)
	}
	if _, err := table.CreateBand(ctx, 3, 8, 55); err != nil {
		t.Fatalf("CreateBand: %v", err)
	}

	tests := []struct {
		distance float64
		want     float64
	}{
		{0, 30},
		{2.99, 30},
		{3, 55}, // boundary belongs to the next band
		{7.9, 55},
	}
	for _, tt := range tests {
		got, err := table.Lookup(ctx, tt.distance)
		if err != nil {
			t.Fatalf("Lookup(%g): %v", tt.distance, err)
		}
		if got != tt.want {
			t.Errorf("Lookup(%g) = %g, want %g", tt.distance, got, tt.want)
		}
	}

	if _, err := table.Lookup(ctx, 8); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Lookup(8) err = %v, want ErrNotFound", err)
	}
}

func TestChargeForFallbackFormula(t *testing.T) {
	table := newTable(newFakeBandStore())
	ctx := context.Background()

	tests := []struct {
		distance float64
		want     float64
	}{
		{3.2, 60}, // 20 + ceil(3.2)*10
		{0, 20},
		{5, 70},
		{0.1, 30},
	}
	for _, tt := range tests {
		if got := table.ChargeFor(ctx, tt.distance); got != tt.want {
			t.Errorf("ChargeFor(%g) = %g, want %g", tt.distance, got, tt.want)
		}
	}
}

func TestChargeForPrefersBandOverFormula(t *testing.T) {
	table := newTable(newFakeBandStore())
	ctx := context.Background()

	if _, err := table.CreateBand(ctx, 0, 10, 25); err != nil {
		t.Fatalf("CreateBand: %v", err)
	}
	if got := table.ChargeFor(ctx, 3.2); got != 25 {
		t.Errorf("ChargeFor(3.2) = %g, want band charge 25", got)
	}
}

func TestCreateBandRejectsMalformedRanges(t *testing.T) {
	table := newTable(newFakeBandStore())
	ctx := context.Background()

	tests := []struct {
		name                       string
		minDist, maxDist, charge float64
	}{
		{"max equal min", 5, 5, 10},
		{"max below min", 5, 3, 10},
		{"negative min", -1, 3, 10},
		{"negative charge", 0, 3, -10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var validationErr *models.ValidationError
			_, err := table.CreateBand(ctx, tt.minDist, tt.maxDist, tt.charge)
			if !errors.As(err, &validationErr) {
				t.Errorf("CreateBand(%g,%g,%g) err = %v, want ValidationError",
					tt.minDist, tt.maxDist, tt.charge, err)
			}
		})
	}
}

func TestCreateBandRejectsOverlapAndLeavesTableUnchanged(t *testing.T) {
	store := newFakeBandStore()
	table := newTable(store)
	ctx := context.Background()

	if _, err := table.CreateBand(ctx, 0, 5, 30); err != nil {
		t.Fatalf("CreateBand: %v", err)
	}

	var overlapErr *models.OverlapError
	_, err := table.CreateBand(ctx, 3, 8, 50)
	if !errors.As(err, &overlapErr) {
		t.Fatalf("CreateBand overlap err = %v, want OverlapError", err)
	}
	if overlapErr.Existing.MinDistance != 0 || overlapErr.Existing.MaxDistance != 5 {
		t.Errorf("OverlapError reports [%g,%g), want [0,5)",
			overlapErr.Existing.MinDistance, overlapErr.Existing.MaxDistance)
	}

	bands, err := table.ListBands(ctx, true)
	if err != nil {
		t.Fatalf("ListBands: %v", err)
	}
	if len(bands) != 1 {
		t.Errorf("table has %d bands after rejected insert, want 1", len(bands))
	}
}

func TestCreateBandAllowsAdjacentRanges(t *testing.T) {
	table := newTable(newFakeBandStore())
	ctx := context.Background()

	if _, err := table.CreateBand(ctx, 0, 5, 30); err != nil {
		t.Fatalf("CreateBand: %v", err)
	}
	if _, err := table.CreateBand(ctx, 5, 10, 50); err != nil {
		t.Errorf("adjacent band rejected: %v", err)
	}
}

func TestUpdateBandReRunsOverlapCheckExcludingSelf(t *testing.T) {
	table := newTable(newFakeBandStore())
	ctx := context.Background()

	first, err := table.CreateBand(ctx, 0, 5, 30)
	if err != nil {
		t.Fatalf("CreateBand: %v", err)
	}
	if _, err := table.CreateBand(ctx, 5, 10, 50); err != nil {
		t.Fatalf("CreateBand: %v", err)
	}

	// Shrinking within its own old range only overlaps itself, which the
	// check must exclude.
	newMax := 4.0
	if _, err := table.UpdateBand(ctx, first.ID, BandUpdate{MaxDistance: &newMax}); err != nil {
		t.Errorf("UpdateBand shrink err = %v, want nil", err)
	}

	// Growing into the neighbour must fail.
	var overlapErr *models.OverlapError
	badMax := 7.0
	if _, err := table.UpdateBand(ctx, first.ID, BandUpdate{MaxDistance: &badMax}); !errors.As(err, &overlapErr) {
		t.Errorf("UpdateBand grow err = %v, want OverlapError", err)
	}
}

func TestUpdateBandChargeOnlySkipsOverlapCheck(t *testing.T) {
	table := newTable(newFakeBandStore())
	ctx := context.Background()

	band, err := table.CreateBand(ctx, 0, 5, 30)
	if err != nil {
		t.Fatalf("CreateBand: %v", err)
	}

	newCharge := 45.0
	updated, err := table.UpdateBand(ctx, band.ID, BandUpdate{Charge: &newCharge})
	if err != nil {
		t.Fatalf("UpdateBand: %v", err)
	}
	if updated.Charge != 45 {
		t.Errorf("Charge = %g, want 45", updated.Charge)
	}
}

func TestUpdateBandNotFound(t *testing.T) {
	table := newTable(newFakeBandStore())
	charge := 10.0
	if _, err := table.UpdateBand(context.Background(), "missing", BandUpdate{Charge: &charge}); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("UpdateBand err = %v, want ErrNotFound", err)
	}
}

func TestDeactivateBandExcludesFromLookupKeepsForAudit(t *testing.T) {
	table := newTable(newFakeBandStore())
	ctx := context.Background()

	band, err := table.CreateBand(ctx, 0, 5, 30)
	if err != nil {
		t.Fatalf("CreateBand: %v", err)
	}
	if err := table.DeactivateBand(ctx, band.ID); err != nil {
		t.Fatalf("DeactivateBand: %v", err)
	}

	// Lookup falls through to the formula now.
	if got := table.ChargeFor(ctx, 1.5); got != 40 {
		t.Errorf("ChargeFor after deactivate = %g, want fallback 40", got)
	}

	// An overlapping range may now be inserted.
	if _, err := table.CreateBand(ctx, 0, 5, 35); err != nil {
		t.Errorf("CreateBand over deactivated range err = %v, want nil", err)
	}

	all, err := table.ListBands(ctx, true)
	if err != nil {
		t.Fatalf("ListBands: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("audit listing has %d bands, want 2", len(all))
	}
	active, err := table.ListBands(ctx, false)
	if err != nil {
		t.Fatalf("ListBands: %v", err)
	}
	if len(active) != 1 {
		t.Errorf("active listing has %d bands, want 1", len(active))
	}
}

func TestDeactivateBandNotFound(t *testing.T) {
	table := newTable(newFakeBandStore())
	if err := table.DeactivateBand(context.Background(), "missing"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("DeactivateBand err = %v, want ErrNotFound", err)
	}
}

func TestListBandsSortedByMinDistance(t *testing.T) {
	table := newTable(newFakeBandStore())
	ctx := context.Background()

	for _, r := range [][3]float64{{10, 15, 90}, {0, 5, 30}, {5, 10, 60}} {
		if _, err := table.CreateBand(ctx, r[0], r[1], r[2]); err != nil {
			t.Fatalf("CreateBand: %v", err)
		}
	}

	bands, err := table.ListBands(ctx, false)
	if err != nil {
		t.Fatalf("ListBands: %v", err)
	}
	for i := 1; i < len(bands); i++ {
		if bands[i-1].MinDistance > bands[i].MinDistance {
			t.Errorf("bands not sorted ascending: %g before %g",
				bands[i-1].MinDistance, bands[i].MinDistance)
		}
	}
}
