package provider

import (
	"context"

	"github.com/RogerDodger/gp-kitchen/internal/domain"
)

// Ensure Fake implements PriceProvider.
var _ PriceProvider = (*Fake)(nil)

// Fake serves canned data for tests and local development.
type Fake struct {
	LatestData  map[int]LatestEntry
	VolumesData map[int]int64
	MappingData []*domain.Item
	Err         error
}

func (f *Fake) Latest(_ context.Context) (map[int]LatestEntry, error) {
	return f.LatestData, f.Err
}

func (f *Fake) Volumes(_ context.Context) (map[int]int64, error) {
	return f.VolumesData, f.Err
}

func (f *Fake) Mapping(_ context.Context) ([]*domain.Item, error) {
	return f.MappingData, f.Err
}
