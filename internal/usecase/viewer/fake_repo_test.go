package viewer

import (
	"context"
	"fmt"
	"strings"
	"sync"

	domain "github.com/xthome/home-manager/internal/domain/household"
	"github.com/xthome/home-manager/internal/httperr"
	"github.com/xthome/home-manager/internal/models"
)

// fakeRepo is an in-memory domain.Repository with the same uniqueness
// guarantees the database enforces.
type fakeRepo struct {
	mu      sync.Mutex
	records map[uint]*models.Record
	users   map[string]*models.User
	links   []*models.RecordViewer
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		records: make(map[uint]*models.Record),
		users:   make(map[string]*models.User),
	}
}

func (f *fakeRepo) addRecord(r *models.Record) *models.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[r.ID] = r
	return r
}

func (f *fakeRepo) addUser(u *models.User) *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.ID] = u
	return u
}

func (f *fakeRepo) GetRecordByID(ctx context.Context, recordID uint) (*models.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.records[recordID], nil
}

func (f *fakeRepo) GetRecordOwned(ctx context.Context, recordID uint, ownerID string) (*models.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := f.records[recordID]
	if r == nil || r.OwnerID != ownerID {
		return nil, nil
	}
	return r, nil
}

func (f *fakeRepo) ListRecordsOwned(ctx context.Context, ownerID string) ([]models.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Record
	for _, r := range f.records {
		if r.OwnerID == ownerID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetRecordOwnedByName(ctx context.Context, name, ownerID string) (*models.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.Name == name && r.OwnerID == ownerID {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[userID], nil
}

func (f *fakeRepo) CreateUser(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if strings.EqualFold(u.Email, user.Email) {
			return fmt.Errorf("duplicate email %s", user.Email)
		}
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeRepo) UpdateUser(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.ID] = user
	return nil
}

func (f *fakeRepo) GetViewerLink(ctx context.Context, recordID uint, viewerID string) (*models.RecordViewer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.links {
		if l.RecordID == recordID && l.ViewerID == viewerID {
			return l, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) ListViewerLinks(ctx context.Context, viewerID string) ([]models.RecordViewer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.RecordViewer
	for _, l := range f.links {
		if l.ViewerID == viewerID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (f *fakeRepo) CreateViewerLink(ctx context.Context, link *models.RecordViewer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.links {
		if l.RecordID == link.RecordID && l.ViewerID == link.ViewerID {
			return httperr.ErrBusiness(httperr.CodeAlreadyViewer)
		}
	}
	f.links = append(f.links, link)
	return nil
}

func (f *fakeRepo) UpdateViewerLink(ctx context.Context, link *models.RecordViewer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, l := range f.links {
		if l.RecordID == link.RecordID && l.ViewerID == link.ViewerID {
			f.links[i] = link
			return nil
		}
	}
	return fmt.Errorf("link not found")
}

func (f *fakeRepo) AcceptPendingLinks(ctx context.Context, viewerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.links {
		if l.ViewerID == viewerID && !l.IsAccepted {
			l.IsAccepted = true
		}
	}
	return nil
}

func (f *fakeRepo) ListInvitedViewers(ctx context.Context, adminID string) ([]domain.InvitedViewer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	byViewer := make(map[string][]domain.SharedState)
	for _, l := range f.links {
		r := f.records[l.RecordID]
		if r == nil || r.OwnerID != adminID {
			continue
		}
		byViewer[l.ViewerID] = append(byViewer[l.ViewerID], domain.SharedState{
			RecordID:   r.ID,
			Name:       r.Name,
			Type:       r.Type,
			Allowed:    l.AllowViewerAccess,
			IsAccepted: l.IsAccepted,
		})
	}

	var out []domain.InvitedViewer
	for viewerID, states := range byViewer {
		u := f.users[viewerID]
		if u == nil || u.Role != models.RoleViewer {
			continue
		}
		out = append(out, domain.InvitedViewer{
			ID:       u.ID,
			Email:    u.Email,
			FullName: u.FullName,
			Role:     u.Role,
			Records:  states,
		})
	}
	return out, nil
}

func (f *fakeRepo) CountEntries(ctx context.Context, recordIDs []uint) (domain.EntryCounts, error) {
	return domain.EntryCounts{}, nil
}

var _ domain.Repository = (*fakeRepo)(nil)
