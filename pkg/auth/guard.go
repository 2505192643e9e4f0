// Package auth holds the user credential store and the access guard that turns
// a bearer token into an authenticated Identity.
package auth

import (
	"context"

	"moneytracker/models"
	"moneytracker/pkg/apperr"
	"moneytracker/pkg/token"
)

var (
	ErrUserNotFound = apperr.New(apperr.Unauthenticated, "user not found")
	ErrForbidden    = apperr.New(apperr.Forbidden, "not authorized, superadmin access required")
)

// Identity is an authenticated user. Only this package creates one, so any
// Identity value in hand has passed through token verification or a password
// check.
type Identity struct {
	id       string
	username string
	role     models.Role
}

func identityOf(u models.User) Identity {
	return Identity{id: u.ID, username: u.Username, role: u.Role}
}

func (i Identity) ID() string         { return i.id }
func (i Identity) Username() string   { return i.username }
func (i Identity) Role() models.Role  { return i.role }
func (i Identity) IsSuperadmin() bool { return i.role == models.RoleSuperadmin }

// Guard authenticates requests.
type Guard struct {
	tokens *token.Service
	users  *Credentials
}

func NewGuard(tokens *token.Service, users *Credentials) *Guard {
	return &Guard{tokens: tokens, users: users}
}

// Authenticate verifies raw and loads the live user it names. The returned
// role is the stored one, so role changes apply before the token expires.
func (g *Guard) Authenticate(ctx context.Context, raw string) (Identity, error) {
	claims, err := g.tokens.Verify(raw)
	if err != nil {
		return Identity{}, err
	}
	user, err := g.users.FindByID(ctx, claims.Subject)
	if err != nil {
		return Identity{}, err
	}
	return identityOf(user), nil
}

// IssueToken signs a session token for id.
func (g *Guard) IssueToken(id Identity) (string, error) {
	return g.tokens.Issue(id.id, id.username, id.role)
}

// RequireSuperadmin passes id through only when it holds the superadmin role.
func RequireSuperadmin(id Identity) (Identity, error) {
	if !id.IsSuperadmin() {
		return Identity{}, ErrForbidden
	}
	return id, nil
}
