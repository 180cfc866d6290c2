package dashboard

import (
	"context"

	domain "github.com/xthome/home-manager/internal/domain/household"
	"github.com/xthome/home-manager/internal/models"
)

// Store is the persistence surface the summary needs.
type Store interface {
	ListRecordsOwned(ctx context.Context, ownerID string) ([]models.Record, error)
	ListViewerLinks(ctx context.Context, viewerID string) ([]models.RecordViewer, error)
	CountEntries(ctx context.Context, recordIDs []uint) (domain.EntryCounts, error)
}

type Output struct {
	OwnedRecords  int64 `json:"owned_records"`
	SharedRecords int64 `json:"shared_records"`
	MilkEntries   int64 `json:"milk_entries"`
	BillEntries   int64 `json:"bill_entries"`
	RentEntries   int64 `json:"rent_entries"`
}

// ======================================================
// USE CASE
// ======================================================

type Summary struct {
	store Store
}

func NewSummary(store Store) *Summary {
	return &Summary{store: store}
}

// Execute counts records and entries visible to the user. Entry counts
// follow the same visibility rule as reads: owned records plus records
// shared through an accepted, access-allowed grant. A revoked or pending
// grant contributes nothing.
func (uc *Summary) Execute(
	ctx context.Context,
	userID string,
) (*Output, error) {

	owned, err := uc.store.ListRecordsOwned(ctx, userID)
	if err != nil {
		return nil, err
	}

	links, err := uc.store.ListViewerLinks(ctx, userID)
	if err != nil {
		return nil, err
	}

	readable := make([]uint, 0, len(owned)+len(links))
	for _, r := range owned {
		readable = append(readable, r.ID)
	}

	var shared int64
	for _, link := range links {
		if link.Grants() {
			shared++
			readable = append(readable, link.RecordID)
		}
	}

	var counts domain.EntryCounts
	if len(readable) > 0 {
		counts, err = uc.store.CountEntries(ctx, readable)
		if err != nil {
			return nil, err
		}
	}

	return &Output{
		OwnedRecords:  int64(len(owned)),
		SharedRecords: shared,
		MilkEntries:   counts.Milk,
		BillEntries:   counts.Bills,
		RentEntries:   counts.Rent,
	}, nil
}
