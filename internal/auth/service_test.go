package auth

import (
	"context"
	"errors"
	"sync"
	"testing"

	"cinevault-backend/internal/models"
	"cinevault-backend/internal/tokenstore"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserSource struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserSource() *fakeUserSource {
	return &fakeUserSource{users: make(map[string]*models.User)}
}

func (f *fakeUserSource) GetUserByEmail(email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeUserSource) GetUserByID(id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	clone := *u
	return &clone, nil
}

func (f *fakeUserSource) CreateUser(user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserSource) UpdateUser(user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeUserSource, *tokenstore.MemoryStore) {
	t.Helper()
	users := newFakeUserSource()
	store := tokenstore.NewMemoryStore()
	svc := NewService(users, NewIssuer(testAuthConfig()), store)
	return svc, users, store
}

func seedUser(t *testing.T, users *fakeUserSource, email, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		ID:       uuid.New().String(),
		Email:    email,
		Name:     "Test User",
		Provider: "local",
		Password: string(hash),
		Accesses: models.StringArray{"user"},
		IsActive: true,
	}
	require.NoError(t, users.CreateUser(user))
	return user
}

func TestLoginIssuesWhitelistedPair(t *testing.T) {
	svc, users, store := newTestService(t)
	user := seedUser(t, users, "alice@example.com", "password123")

	session, err := svc.Login(context.Background(), "alice@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, session.User.ID)
	assert.NotEmpty(t, session.AccessToken)

	rec, err := store.WhitelistLookup(context.Background(), session.Refresh.Token)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, user.ID, rec.UserID)

	status := svc.StatusFromToken(context.Background(), session.AccessToken)
	assert.True(t, status.IsAuthenticated)
	assert.Equal(t, user.ID, status.UserID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, users, _ := newTestService(t)
	seedUser(t, users, "alice@example.com", "password123")

	_, err := svc.Login(context.Background(), "alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRejectsDeactivatedAccount(t *testing.T) {
	svc, users, _ := newTestService(t)
	user := seedUser(t, users, "alice@example.com", "password123")
	user.IsActive = false
	require.NoError(t, users.UpdateUser(user))

	_, err := svc.Login(context.Background(), "alice@example.com", "password123")
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestSilentRefreshRotatesExactlyOnce(t *testing.T) {
	svc, users, _ := newTestService(t)
	seedUser(t, users, "alice@example.com", "password123")

	session, err := svc.Login(context.Background(), "alice@example.com", "password123")
	require.NoError(t, err)
	original := session.Refresh.Token

	renewed, err := svc.SilentRefresh(context.Background(), original)
	require.NoError(t, err)
	assert.NotEqual(t, original, renewed.Refresh.Token)
	assert.NotEmpty(t, renewed.AccessToken)

	// The consumed token must be dead for every later caller.
	_, err = svc.SilentRefresh(context.Background(), original)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	// The rotated token still works.
	_, err = svc.SilentRefresh(context.Background(), renewed.Refresh.Token)
	require.NoError(t, err)
}

func TestSilentRefreshRejectsUnknownToken(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.SilentRefresh(context.Background(), "never-issued")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	_, err = svc.SilentRefresh(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestSilentRefreshRejectsAfterPasswordChange(t *testing.T) {
	svc, users, store := newTestService(t)
	user := seedUser(t, users, "alice@example.com", "password123")

	session, err := svc.Login(context.Background(), "alice@example.com", "password123")
	require.NoError(t, err)

	require.NoError(t, svc.ChangePassword(user.ID, "password123", "password456"))

	_, err = svc.SilentRefresh(context.Background(), session.Refresh.Token)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	// The stale record is removed, not just rejected.
	rec, err := store.WhitelistLookup(context.Background(), session.Refresh.Token)
	require.NoError(t, err)
	assert.Nil(t, rec)

	// The old access token dies the same way.
	status := svc.StatusFromToken(context.Background(), session.AccessToken)
	assert.False(t, status.IsAuthenticated)

	// Logging in with the new password works.
	_, err = svc.Login(context.Background(), "alice@example.com", "password456")
	require.NoError(t, err)
}

func TestSilentRefreshConcurrencySingleWinner(t *testing.T) {
	svc, users, _ := newTestService(t)
	seedUser(t, users, "alice@example.com", "password123")

	session, err := svc.Login(context.Background(), "alice@example.com", "password123")
	require.NoError(t, err)

	const n = 16
	var wg sync.WaitGroup
	wg.Add(n)

	results := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.SilentRefresh(context.Background(), session.Refresh.Token)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	success := 0
	fail := 0
	for err := range results {
		if err == nil {
			success++
			continue
		}
		if errors.Is(err, ErrInvalidRefreshToken) {
			fail++
			continue
		}
		t.Fatalf("unexpected refresh error: %v", err)
	}

	assert.Equal(t, 1, success, "expected exactly one refresh success")
	assert.Equal(t, n-1, fail)
}

func TestLogoutRevokesAccessTokenBeforeExpiry(t *testing.T) {
	svc, users, _ := newTestService(t)
	seedUser(t, users, "alice@example.com", "password123")

	session, err := svc.Login(context.Background(), "alice@example.com", "password123")
	require.NoError(t, err)

	status := svc.StatusFromToken(context.Background(), session.AccessToken)
	require.True(t, status.IsAuthenticated)

	require.NoError(t, svc.Logout(context.Background(), session.AccessToken, session.Refresh.Token))

	// Blacklisted even though natural expiry has not passed.
	status = svc.StatusFromToken(context.Background(), session.AccessToken)
	assert.False(t, status.IsAuthenticated)

	// The refresh token is delisted.
	_, err = svc.SilentRefresh(context.Background(), session.Refresh.Token)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestLogoutIsIdempotent(t *testing.T) {
	svc, users, _ := newTestService(t)
	seedUser(t, users, "alice@example.com", "password123")

	session, err := svc.Login(context.Background(), "alice@example.com", "password123")
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, svc.Logout(ctx, session.AccessToken, session.Refresh.Token))
	require.NoError(t, svc.Logout(ctx, session.AccessToken, session.Refresh.Token))
	require.NoError(t, svc.Logout(ctx, "", ""))
	require.NoError(t, svc.Logout(ctx, "garbage-token", "never-issued"))
}

func TestStatusFromTokenCollapsesFailures(t *testing.T) {
	svc, users, _ := newTestService(t)
	user := seedUser(t, users, "alice@example.com", "password123")

	// Missing, malformed and foreign-signed tokens all read as anonymous.
	assert.False(t, svc.StatusFromToken(context.Background(), "").IsAuthenticated)
	assert.False(t, svc.StatusFromToken(context.Background(), "garbage").IsAuthenticated)

	other := NewIssuer(testAuthConfig())
	other.secret = []byte("different")
	foreign, err := other.IssueAccessToken(user.ID, user.PasswordFingerprint())
	require.NoError(t, err)
	assert.False(t, svc.StatusFromToken(context.Background(), foreign).IsAuthenticated)

	// Deactivating the account kills an otherwise valid token.
	session, err := svc.Login(context.Background(), "alice@example.com", "password123")
	require.NoError(t, err)
	user.IsActive = false
	require.NoError(t, users.UpdateUser(user))
	assert.False(t, svc.StatusFromToken(context.Background(), session.AccessToken).IsAuthenticated)
}

func TestRegisterThenLogin(t *testing.T) {
	svc, _, _ := newTestService(t)

	user, err := svc.Register("bob@example.com", "hunter2secret", "Bob")
	require.NoError(t, err)
	assert.Equal(t, "local", user.Provider)
	assert.True(t, user.IsActive)

	_, err = svc.Register("bob@example.com", "hunter2secret", "Bob")
	assert.Error(t, err, "duplicate registration must fail")

	session, err := svc.Login(context.Background(), "bob@example.com", "hunter2secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, session.User.ID)
}
