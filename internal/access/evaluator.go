// Package access decides who may read or mutate a record. Authorization
// is always record-scoped: entries inherit visibility from their parent
// record, so the permission model stays a two-level tree.
package access

import (
	"context"

	"github.com/xthome/home-manager/internal/httperr"
	"github.com/xthome/home-manager/internal/models"
)

// Store is the minimal persistence surface the evaluator needs. Both
// lookups return (nil, nil) when the row does not exist.
type Store interface {
	GetRecordByID(ctx context.Context, recordID uint) (*models.Record, error)
	GetViewerLink(ctx context.Context, recordID uint, viewerID string) (*models.RecordViewer, error)
}

type Evaluator struct {
	store Store
}

func NewEvaluator(store Store) *Evaluator {
	return &Evaluator{store: store}
}

// CanRead permits the record owner, or a viewer holding an accepted and
// access-allowed grant. Everyone else gets access_denied; a missing
// record gets record_not_found.
func (e *Evaluator) CanRead(ctx context.Context, userID string, recordID uint) (*models.Record, error) {
	record, err := e.store.GetRecordByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, httperr.ErrBusiness(httperr.CodeRecordNotFound)
	}

	if record.OwnerID == userID {
		return record, nil
	}

	link, err := e.store.GetViewerLink(ctx, recordID, userID)
	if err != nil {
		return nil, err
	}
	if link != nil && link.Grants() {
		return record, nil
	}

	return nil, httperr.ErrBusiness(httperr.CodeAccessDenied)
}

// RequireOwner gates mutations: only the owning admin passes. The record
// existence is not hidden from participants, so a non-owner gets
// access_denied rather than record_not_found.
func (e *Evaluator) RequireOwner(ctx context.Context, userID string, recordID uint) (*models.Record, error) {
	record, err := e.store.GetRecordByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, httperr.ErrBusiness(httperr.CodeRecordNotFound)
	}
	if record.OwnerID != userID {
		return nil, httperr.ErrBusiness(httperr.CodeAccessDenied)
	}
	return record, nil
}
