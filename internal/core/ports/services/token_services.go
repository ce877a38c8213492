package services

import (
	"context"
	"time"

	"github.com/finledger/finledger_backend/internal/core/domain"
)

// TokenSvcFacade defines operations for issuing session tokens.
type TokenSvcFacade interface {
	// GenerateAccessToken creates a signed JWT for the given user and returns
	// it along with its expiry time.
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)
}
