package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"moneytracker/models"
	"moneytracker/pkg/apperr"
	"moneytracker/pkg/store"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = apperr.New(apperr.Unauthenticated, "invalid username or password")
	ErrUsernameTaken      = apperr.New(apperr.Conflict, "username already exists")
	ErrUsernameRequired   = apperr.New(apperr.Unprocessable, "username required")
	ErrPasswordRequired   = apperr.New(apperr.Unprocessable, "password required")
	ErrPasswordTooShort   = apperr.New(apperr.Unprocessable, fmt.Sprintf("password too short (min %d characters)", MinPasswordLength))
	ErrSuperadminRole     = apperr.New(apperr.Conflict, "bootstrap user exists without superadmin role")
)

// MinPasswordLength applies to every path that sets a password.
const MinPasswordLength = 6

func checkPassword(password string) error {
	if password == "" {
		return ErrPasswordRequired
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

// Credentials is the user store: password hashing, lookup and creation.
type Credentials struct {
	db   *gorm.DB
	cost int

	dummyOnce sync.Once
	dummyHash []byte
}

type CredentialsOption func(*Credentials)

// WithHashCost sets the bcrypt cost. Tests use bcrypt.MinCost.
func WithHashCost(cost int) CredentialsOption {
	return func(c *Credentials) { c.cost = cost }
}

func NewCredentials(s *store.Store, opts ...CredentialsOption) *Credentials {
	c := &Credentials{db: s.DB, cost: bcrypt.DefaultCost}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Login checks a username/password pair. Unknown users still pay for one
// bcrypt comparison so both failures take about the same time.
func (c *Credentials) Login(ctx context.Context, username, password string) (Identity, error) {
	username = strings.TrimSpace(username)
	var user models.User
	err := c.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if !store.IsNotFound(err) {
			return Identity{}, fmt.Errorf("load user: %w", err)
		}
		_ = bcrypt.CompareHashAndPassword(c.dummy(), []byte(password))
		return Identity{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return Identity{}, ErrInvalidCredentials
	}
	return identityOf(user), nil
}

// Register creates a user. The existence check is optimistic; the unique
// index on username settles races.
func (c *Credentials) Register(ctx context.Context, username, password string, role models.Role) (models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return models.User{}, ErrUsernameRequired
	}
	if err := checkPassword(password); err != nil {
		return models.User{}, err
	}
	if !role.Valid() {
		return models.User{}, models.ErrInvalidRole
	}

	db := c.db.WithContext(ctx)
	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return models.User{}, fmt.Errorf("check username: %w", err)
	}
	if count > 0 {
		return models.User{}, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), c.cost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}
	user := models.User{Username: username, PasswordHash: hash, Role: role}
	if err := db.Create(&user).Error; err != nil {
		if store.IsUniqueViolation(err) {
			return models.User{}, ErrUsernameTaken
		}
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// EnsureSuperadmin creates the bootstrap superadmin when no user with that
// username exists yet. It reports whether a user was created. An existing
// user with that name but a lesser role is an error, not a silent success.
func (c *Credentials) EnsureSuperadmin(ctx context.Context, username, password string) (bool, error) {
	existing, err := c.FindByUsername(ctx, username)
	switch {
	case err == nil:
		if existing.Role != models.RoleSuperadmin {
			return false, fmt.Errorf("user %q has role %s: %w", existing.Username, existing.Role, ErrSuperadminRole)
		}
		return false, nil
	case !errors.Is(err, ErrUserNotFound):
		return false, fmt.Errorf("check superadmin: %w", err)
	}
	if _, err := c.Register(ctx, username, password, models.RoleSuperadmin); err != nil {
		return false, err
	}
	return true, nil
}

// ResetPassword replaces the password hash of an existing user.
func (c *Credentials) ResetPassword(ctx context.Context, username, password string) error {
	if err := checkPassword(password); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), c.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	res := c.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ?", strings.TrimSpace(username)).
		Update("password_hash", hash)
	if res.Error != nil {
		return fmt.Errorf("update password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ListUsers returns every user, oldest first.
func (c *Credentials) ListUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := c.db.WithContext(ctx).Order("created_at asc").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// FindByID loads a user by id, reading the role fresh from the store.
func (c *Credentials) FindByID(ctx context.Context, id string) (models.User, error) {
	var user models.User
	if err := c.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if store.IsNotFound(err) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

// FindByUsername is FindByID for operator tooling.
func (c *Credentials) FindByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	if err := c.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).First(&user).Error; err != nil {
		if store.IsNotFound(err) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

func (c *Credentials) dummy() []byte {
	c.dummyOnce.Do(func() {
		c.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password"), c.cost)
	})
	return c.dummyHash
}
