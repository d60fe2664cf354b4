package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/fkhayef/yatube/pkg/validation"
)

// MockStore is a testify mock of Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Create(ctx context.Context, username, email, passwordHash string) (*User, error) {
	args := m.Called(ctx, username, email, passwordHash)
	if u := args.Get(0); u != nil {
		return u.(*User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) GetByID(ctx context.Context, id int64) (*User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) GetByUsername(ctx context.Context, username string) (*User, error) {
	args := m.Called(ctx, username)
	if u := args.Get(0); u != nil {
		return u.(*User), args.Error(1)
	}
	return nil, args.Error(1)
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestService_Register_Success(t *testing.T) {
	ctx := context.Background()
	store := new(MockStore)
	svc := newService(store, bcrypt.MinCost)

	store.On("Create", ctx, "auth", "auth@example.com", mock.MatchedBy(func(hash string) bool {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret-pass")) == nil
	})).Return(&User{ID: 1, Username: "auth", CreatedAt: time.Now()}, nil)

	user, err := svc.Register(ctx, &SignupRequest{Username: " auth ", Email: "auth@example.com", Password: "s3cret-pass"})

	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	store.AssertExpectations(t)
}

func TestService_Register_Invalid(t *testing.T) {
	store := new(MockStore)
	svc := newService(store, bcrypt.MinCost)

	_, err := svc.Register(context.Background(), &SignupRequest{Username: "bad name", Email: "nope", Password: "short"})

	errs, ok := validation.AsErrors(err)
	require.True(t, ok)
	assert.Contains(t, errs, "username")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Register_UsernameTaken(t *testing.T) {
	ctx := context.Background()
	store := new(MockStore)
	svc := newService(store, bcrypt.MinCost)

	store.On("Create", ctx, "auth", "", mock.Anything).Return(nil, ErrUsernameTaken)

	_, err := svc.Register(ctx, &SignupRequest{Username: "auth", Password: "long-enough"})

	errs, ok := validation.AsErrors(err)
	require.True(t, ok)
	assert.Equal(t, []string{ErrUsernameTaken.Error()}, errs["username"])
}

func TestService_Authenticate(t *testing.T) {
	ctx := context.Background()
	store := new(MockStore)
	svc := newService(store, bcrypt.MinCost)

	store.On("GetByUsername", ctx, "auth").Return(&User{ID: 3, Username: "auth", PasswordHash: hashed(t, "right-pass")}, nil)
	store.On("GetByUsername", ctx, "ghost").Return(nil, nil)

	user, err := svc.Authenticate(ctx, "auth", "right-pass")
	require.NoError(t, err)
	assert.Equal(t, int64(3), user.ID)

	_, err = svc.Authenticate(ctx, "auth", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "ghost", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Lookups(t *testing.T) {
	ctx := context.Background()
	store := new(MockStore)
	svc := newService(store, bcrypt.MinCost)
	dbErr := errors.New("connection refused")

	store.On("GetByUsername", ctx, "auth").Return(&User{ID: 1, Username: "auth"}, nil)
	store.On("GetByUsername", ctx, "unknown").Return(nil, nil)
	store.On("GetByID", ctx, int64(1)).Return(&User{ID: 1, Username: "auth"}, nil)
	store.On("GetByID", ctx, int64(2)).Return(nil, nil)
	store.On("GetByID", ctx, int64(3)).Return(nil, dbErr)

	_, err := svc.GetByUsername(ctx, "unknown")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.GetByID(ctx, 2)
	assert.ErrorIs(t, err, ErrUserNotFound)

	identity, err := svc.LookupIdentity(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "auth", identity.Username)

	identity, err = svc.LookupIdentity(ctx, 2)
	require.NoError(t, err)
	assert.Nil(t, identity)

	_, err = svc.LookupIdentity(ctx, 3)
	assert.ErrorIs(t, err, dbErr)
}
