package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/isdelr/geonotes-be/internal/models"
	"github.com/patrickmn/go-cache"
	"golang.org/x/crypto/bcrypt"
)

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

// AccountServiceProvider defines the interface for account services.
type AccountServiceProvider interface {
	Register(ctx context.Context, username, password, email, name string) error
	Authenticate(ctx context.Context, username, password string) (models.User, error)
	GetUser(ctx context.Context, id int64) (models.User, error)
}

// AccountService provides registration and credential checks over the users store.
type AccountService struct {
	db           *sql.DB
	eventService EventServiceProvider
	users        *cache.Cache
}

// NewAccountService creates a new AccountService. Users are never mutated, so
// lookups by id are cached for cacheTTL.
func NewAccountService(db *sql.DB, eventService EventServiceProvider, cacheTTL time.Duration) *AccountService {
	return &AccountService{
		db:           db,
		eventService: eventService,
		users:        cache.New(cacheTTL, 2*cacheTTL),
	}
}

// Register creates a new user with a bcrypt-hashed password.
func (s *AccountService) Register(ctx context.Context, username, password, email, name string) error {
	if missing := missingFields(map[string]string{
		"username": username,
		"password": password,
		"email":    email,
		"name":     name,
	}, "username", "password", "email", "name"); len(missing) > 0 {
		return NewValidationError("missing fields: %s", strings.Join(missing, ", "))
	}
	if len(password) > maxPasswordBytes {
		return NewValidationError("password must be at most %d bytes", maxPasswordBytes)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return NewValidationError("password must be at most %d bytes", maxPasswordBytes)
		}
		return fmt.Errorf("failed to hash password: %w", err)
	}

	// The unique index decides between concurrent registrations of one username.
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO users(username, password_hash, email, name) VALUES(?, ?, ?, ?)",
		username, string(hashedPassword), email, name)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user %q %w", username, ErrConflict)
		}
		return storageError("insert user", err)
	}

	var userID *int64
	if id, err := res.LastInsertId(); err == nil {
		userID = &id
	}
	recordEvent(ctx, s.eventService, EventUserRegister, fmt.Sprintf("User '%s' registered.", username), userID)
	return nil
}

// Authenticate verifies a user's credentials. An unknown username and a wrong
// password yield the same error.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	if missing := missingFields(map[string]string{
		"username": username,
		"password": password,
	}, "username", "password"); len(missing) > 0 {
		return models.User{}, NewValidationError("missing fields: %s", strings.Join(missing, ", "))
	}

	row := s.db.QueryRowContext(ctx,
		"SELECT id, username, password_hash, name, email FROM users WHERE username = ?", username)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Spend the same bcrypt work as a real comparison.
			_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, storageError("query user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}

// GetUser retrieves a single user by id.
func (s *AccountService) GetUser(ctx context.Context, id int64) (models.User, error) {
	key := strconv.FormatInt(id, 10)
	if cached, ok := s.users.Get(key); ok {
		return cached.(models.User), nil
	}

	row := s.db.QueryRowContext(ctx,
		"SELECT id, username, password_hash, name, email FROM users WHERE id = ?", id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, notFoundError("user with id %d", id)
		}
		return models.User{}, storageError("query user", err)
	}

	user.PasswordHash = ""
	s.users.Set(key, user, cache.DefaultExpiration)
	return user, nil
}

func scanUser(row *sql.Row) (models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Name, &user.Email)
	return user, err
}

// missingFields returns, in order, the names whose value is empty.
func missingFields(values map[string]string, order ...string) []string {
	var missing []string
	for _, field := range order {
		if strings.TrimSpace(values[field]) == "" {
			missing = append(missing, field)
		}
	}
	return missing
}

var (
	dummyHashOnce  sync.Once
	dummyHashValue []byte
)

func dummyHash() []byte {
	dummyHashOnce.Do(func() {
		dummyHashValue, _ = bcrypt.GenerateFromPassword([]byte("geonotes-placeholder"), bcrypt.DefaultCost)
	})
	return dummyHashValue
}
