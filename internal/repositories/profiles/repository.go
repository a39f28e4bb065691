package profiles

import (
	"context"

	"github.com/dmitrijs2005/interntrack/internal/models"
)

type Repository interface {
	Get(ctx context.Context, userID string) (*models.Profile, error)
	Create(ctx context.Context, p models.Profile) (*models.Profile, error)
	Upsert(ctx context.Context, userID string, patch models.ProfilePatch) (*models.Profile, error)
	Delete(ctx context.Context, userID string) error
}
