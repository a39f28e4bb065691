package subscriptions

import (
	"context"

	"github.com/dmitrijs2005/interntrack/internal/models"
)

type Repository interface {
	List(ctx context.Context, userID string) ([]models.Subscription, error)
	FindByKeyword(ctx context.Context, userID, keyword string) (*models.Subscription, error)
	Count(ctx context.Context, userID string) (int, error)
	Create(ctx context.Context, userID, keyword string) (*models.Subscription, error)
	Delete(ctx context.Context, userID, id string) error
	DeleteByUser(ctx context.Context, userID string) error
}
