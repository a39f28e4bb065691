package client

import (
	"context"

	"github.com/dmitrijs2005/interntrack/internal/models"
)

type Client interface {
	GetProfile(ctx context.Context, token string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, token string, patch models.ProfilePatch) (*models.Profile, error)
	DeleteAccount(ctx context.Context, token string) error
	SearchInternships(ctx context.Context, token, keyword, location string) ([]models.Internship, error)
}
