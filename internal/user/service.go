package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/fkhayef/yatube/internal/auth"
	"github.com/fkhayef/yatube/pkg/validation"
)

// Common errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("a user with that username already exists")
	ErrInvalidCredentials = errors.New("please enter a correct username and password")
)

// Store is the persistence the user service needs
type Store interface {
	Create(ctx context.Context, username, email, passwordHash string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
}

// Service handles user business logic
type Service struct {
	repo      Store
	hashCost  int
	dummyHash []byte
}

// NewService creates a new user service with repository dependency injected
func NewService(repo Store) *Service {
	return newService(repo, bcrypt.DefaultCost)
}

func newService(repo Store, cost int) *Service {
	// compared against for unknown usernames to keep login timing uniform
	dummy, _ := bcrypt.GenerateFromPassword([]byte("yatube-dummy-password"), cost)
	return &Service{repo: repo, hashCost: cost, dummyHash: dummy}
}

// Register validates the signup form and creates the user
func (s *Service) Register(ctx context.Context, req *SignupRequest) (*User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if errs := validation.Struct(req); errs != nil {
		return nil, errs
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.repo.Create(ctx, req.Username, req.Email, string(hash))
	if errors.Is(err, ErrUsernameTaken) {
		return nil, validation.Errors{"username": {ErrUsernameTaken.Error()}}
	}
	return user, err
}

// Authenticate checks a username and password pair
func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	user, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetByID retrieves a user by their ID
func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// GetByUsername retrieves a user by their username
func (s *Service) GetByUsername(ctx context.Context, username string) (*User, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// LookupIdentity resolves a user id for the auth provider
func (s *Service) LookupIdentity(ctx context.Context, userID int64) (*auth.Identity, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil || user == nil {
		return nil, err
	}
	return &auth.Identity{ID: user.ID, Username: user.Username}, nil
}
