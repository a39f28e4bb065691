package applications

import (
	"context"
	"time"

	"github.com/dmitrijs2005/interntrack/internal/models"
)

type Repository interface {
	List(ctx context.Context, userID string) ([]models.Application, error)
	FindByInternship(ctx context.Context, userID string, internshipIDs ...string) ([]models.Application, error)
	Create(ctx context.Context, a models.Application) (*models.Application, error)
	UpdateStatus(ctx context.Context, userID, id string, status models.Status) (time.Time, error)
	UpdateNotes(ctx context.Context, userID, id, notes string) (time.Time, error)
	Delete(ctx context.Context, userID, id string) error
	DeleteByUser(ctx context.Context, userID string) error
}
