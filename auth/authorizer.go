package auth

import (
	"context"
	"errors"

	"github.com/talesoul/talesoul-api/apperror"
	"github.com/talesoul/talesoul-api/models"
	"github.com/talesoul/talesoul-api/repository"
)

type AccountFinder interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
}

// Authorizer resolves the acting account for a request and applies the access policy.
type Authorizer struct {
	tokens   *TokenService
	accounts AccountFinder
}

func NewAuthorizer(tokens *TokenService, accounts AccountFinder) *Authorizer {
	return &Authorizer{tokens: tokens, accounts: accounts}
}

func (a *Authorizer) Tokens() *TokenService {
	return a.tokens
}

func (a *Authorizer) Authenticate(ctx context.Context, token string) (*models.User, error) {
	identity, err := a.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	return a.Resolve(ctx, identity)
}

// Resolve runs the existence and active checks for an already verified identity.
func (a *Authorizer) Resolve(ctx context.Context, identity Identity) (*models.User, error) {
	user, err := a.accounts.FindByID(ctx, identity.AccountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Unauthenticated("could not validate credentials")
		}
		return nil, apperror.Internal(err)
	}
	if !user.IsActive {
		return nil, apperror.Forbidden("account inactive")
	}
	return user, nil
}

// Authorize applies the role and relationship checks for action.
func Authorize(user *models.User, action Action, rel Relation) error {
	if user == nil {
		return apperror.Unauthenticated("not authenticated")
	}
	if !Can(user.Role, action, rel) {
		return apperror.Forbidden(denyMessage(action))
	}
	return nil
}
