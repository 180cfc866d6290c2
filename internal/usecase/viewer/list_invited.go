package viewer

import (
	"context"

	domain "github.com/xthome/home-manager/internal/domain/household"
)

type ListInvitedViewers struct {
	repo domain.Repository
}

func NewListInvitedViewers(repo domain.Repository) *ListInvitedViewers {
	return &ListInvitedViewers{repo: repo}
}

func (uc *ListInvitedViewers) Execute(
	ctx context.Context,
	adminID string,
) ([]domain.InvitedViewer, error) {
	return uc.repo.ListInvitedViewers(ctx, adminID)
}
