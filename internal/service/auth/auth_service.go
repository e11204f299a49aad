// Package auth is the identity-provider boundary: whether a caller is signed
// in, and the caller's stable identifier.
package auth

import (
	"context"

	"github.com/declaradash/declaradash/internal/domain"
	"github.com/declaradash/declaradash/internal/pkg/utils"
)

type ctxKey struct{}

// WithUser attaches the authenticated user to the request context.
func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, user)
}

// UserFrom reports the authenticated user, if any.
func UserFrom(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(ctxKey{}).(*domain.User)
	return user, ok && user != nil
}

// IsSignedIn mirrors the identity provider's signed-in check.
func IsSignedIn(ctx context.Context) bool {
	_, ok := UserFrom(ctx)
	return ok
}

type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Authenticate resolves a bearer token into a user.
func (svc *Service) Authenticate(token string) (*domain.User, error) {
	wrapper, err := utils.ParseAuthToken(token)
	if err != nil {
		return nil, err
	}

	return &domain.User{ID: wrapper.UserID, Email: wrapper.Email}, nil
}

// IssueToken signs a token for a user; the hosted identity provider does this
// in the original deployment, kept here for local development and tests.
func (svc *Service) IssueToken(user *domain.User) (string, error) {
	return utils.GenerateAuthToken(&utils.AuthTokenWrapper{UserID: user.ID, Email: user.Email})
}
