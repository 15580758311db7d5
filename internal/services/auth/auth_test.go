package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/pbkdf2"

	"github.com/magabrotheeeer/bonus-tracker/internal/lib/jwt"
	"github.com/magabrotheeeer/bonus-tracker/internal/models"
	"github.com/magabrotheeeer/bonus-tracker/internal/storage"
)

type fakeUserRepo struct {
	users map[string]models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]models.User)}
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user models.User) error {
	if _, ok := r.users[user.Email]; ok {
		return storage.ErrDuplicateEmail
	}
	r.users[user.Email] = user
	return nil
}

func (r *fakeUserRepo) GetUser(_ context.Context, email string) (*models.User, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) GetUserBySession(_ context.Context, sid string) (*models.User, error) {
	for _, u := range r.users {
		if u.SessionSID != nil && *u.SessionSID == sid {
			return &u, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (r *fakeUserRepo) UpdateUser(_ context.Context, user models.User) error {
	if _, ok := r.users[user.Email]; !ok {
		return storage.ErrUserNotFound
	}
	r.users[user.Email] = user
	return nil
}

func (r *fakeUserRepo) DeleteUser(_ context.Context, email string) error {
	if _, ok := r.users[email]; !ok {
		return storage.ErrUserNotFound
	}
	delete(r.users, email)
	return nil
}

func (r *fakeUserRepo) ListUsers(_ context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func newTestService(repo *fakeUserRepo) *Service {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	maker := jwt.NewJWTMaker("test-secret", time.Hour)
	return New(repo, maker, 8*time.Hour, log)
}

func legacyHash(password, salt string) string {
	digest := pbkdf2.Key([]byte(password), []byte(salt), 200_000, sha256.Size, sha256.New)
	return fmt.Sprintf("pbkdf2$%s$%s", salt, hex.EncodeToString(digest))
}

func TestRegister_NormalizesEmail(t *testing.T) {
	repo := newFakeUserRepo()
	s := newTestService(repo)

	user, err := s.Register(context.Background(), "  Agent@Example.COM ", "Agent", "alpha", "secret")
	require.NoError(t, err)
	assert.Equal(t, "agent@example.com", user.Email)
	assert.False(t, user.IsAdmin)
	assert.NotEmpty(t, user.Color)
	assert.Zero(t, user.Goals)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	s := newTestService(repo)
	ctx := context.Background()

	_, err := s.Register(ctx, "a@x.com", "A", "alpha", "secret")
	require.NoError(t, err)
	_, err = s.Register(ctx, "A@X.COM", "A2", "alpha", "secret")
	assert.ErrorIs(t, err, storage.ErrDuplicateEmail)
}

func TestLogin_Success(t *testing.T) {
	repo := newFakeUserRepo()
	s := newTestService(repo)
	ctx := context.Background()

	_, err := s.Register(ctx, "a@x.com", "A", "alpha", "secret")
	require.NoError(t, err)

	res, err := s.Login(ctx, "A@x.com", "secret")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.NotEmpty(t, res.SessionSID)
	require.NotNil(t, res.User.LastLoginAt)
	require.NotNil(t, res.User.SessionExpiresAt)
	assert.True(t, res.User.SessionExpiresAt.After(time.Now()))
}

func TestLogin_InvalidCredentials(t *testing.T) {
	repo := newFakeUserRepo()
	s := newTestService(repo)
	ctx := context.Background()

	_, err := s.Register(ctx, "a@x.com", "A", "alpha", "secret")
	require.NoError(t, err)

	_, err = s.Login(ctx, "a@x.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.ErrorIs(t, err, ErrWrongPassword)
	assert.NotErrorIs(t, err, storage.ErrUserNotFound)

	_, err = s.Login(ctx, "nobody@x.com", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
	assert.NotErrorIs(t, err, ErrWrongPassword)
}

func TestLogin_UpgradesLegacyHash(t *testing.T) {
	repo := newFakeUserRepo()
	s := newTestService(repo)
	ctx := context.Background()

	repo.users["old@x.com"] = models.User{
		Email:        "old@x.com",
		Name:         "Old",
		PasswordHash: legacyHash("secret", "somesalt"),
		CreatedAt:    time.Now().UTC(),
	}

	res, err := s.Login(ctx, "old@x.com", "secret")
	require.NoError(t, err)
	assert.NotContains(t, res.User.PasswordHash, "pbkdf2$")

	// Повторный вход уже по bcrypt-хэшу.
	_, err = s.Login(ctx, "old@x.com", "secret")
	require.NoError(t, err)
}

func TestResumeAndLogout(t *testing.T) {
	repo := newFakeUserRepo()
	s := newTestService(repo)
	ctx := context.Background()

	_, err := s.Register(ctx, "a@x.com", "A", "alpha", "secret")
	require.NoError(t, err)
	res, err := s.Login(ctx, "a@x.com", "secret")
	require.NoError(t, err)

	resumed, err := s.Resume(ctx, res.SessionSID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", resumed.User.Email)
	assert.NotEmpty(t, resumed.Token)

	require.NoError(t, s.Logout(ctx, "a@x.com"))
	_, err = s.Resume(ctx, res.SessionSID)
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestResume_ExpiredSession(t *testing.T) {
	repo := newFakeUserRepo()
	s := newTestService(repo)
	ctx := context.Background()

	sid := "expired-sid"
	expired := time.Now().Add(-time.Minute)
	repo.users["a@x.com"] = models.User{
		Email:            "a@x.com",
		PasswordHash:     "hash",
		SessionSID:       &sid,
		SessionExpiresAt: &expired,
	}

	_, err := s.Resume(ctx, sid)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestUpdateProfile_CannotGrantAdmin(t *testing.T) {
	repo := newFakeUserRepo()
	s := newTestService(repo)
	ctx := context.Background()

	_, err := s.Register(ctx, "a@x.com", "A", "alpha", "secret")
	require.NoError(t, err)

	name := "New Name"
	goals := models.Goals{Daily: 10, Weekly: 50, Monthly: 200}
	updated, err := s.UpdateProfile(ctx, "a@x.com", ProfileUpdate{Name: &name, Goals: &goals})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, 50, updated.Goals.Weekly)
	assert.False(t, updated.IsAdmin)
}

func TestUpdateUserAsAdmin_SetsAdminFlag(t *testing.T) {
	repo := newFakeUserRepo()
	s := newTestService(repo)
	ctx := context.Background()

	_, err := s.Register(ctx, "a@x.com", "A", "alpha", "secret")
	require.NoError(t, err)

	isAdmin := true
	updated, err := s.UpdateUserAsAdmin(ctx, "a@x.com", AdminUpdate{IsAdmin: &isAdmin})
	require.NoError(t, err)
	assert.True(t, updated.IsAdmin)
	assert.Equal(t, "admin", updated.Role())
}
