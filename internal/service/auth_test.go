package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/plantyard/api/internal/apperror"
	"github.com/plantyard/api/internal/auth"
	"github.com/plantyard/api/internal/repository/sqlite"
	"github.com/plantyard/api/internal/service"
)

// newTestAuthService wires an AuthService against a fresh in-memory
// database, with minimum bcrypt cost so tests stay fast.
func newTestAuthService(t *testing.T) (*service.AuthService, *sqlite.DB) {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tokens, err := auth.NewTokenService(
		"test-access-secret-16-chars!!!!!",
		"test-refresh-secret-16-chars!!!!",
		time.Hour,
		7*24*time.Hour,
	)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.NewAuthService(
		db.Users(),
		db.Invites(),
		db.Groups(),
		tokens,
		auth.NewPasswordServiceForTest(bcrypt.MinCost),
		logger,
	)
	return svc, db
}

// inviteAndRegister runs the full happy path: issue an invite for the
// username, then register with the issued code.
func inviteAndRegister(t *testing.T, svc *service.AuthService, username, password string) int64 {
	t.Helper()
	ctx := context.Background()

	invite, err := svc.Invite(ctx, username)
	require.NoError(t, err)

	user, err := svc.Register(ctx, username, invite.Code, password)
	require.NoError(t, err)
	return user.ID
}

func TestRegister_HappyPath(t *testing.T) {
	svc, db := newTestAuthService(t)
	ctx := context.Background()

	invite, err := svc.Invite(ctx, "alice")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[A-Z0-9]{6}$`), invite.Code)

	user, err := svc.Register(ctx, "alice", invite.Code, "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.False(t, user.Admin)
	assert.NotEqual(t, "s3cret", user.HashedPassword)

	// Registration auto-creates the default group.
	has, err := db.Groups().HasDefault(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	inviteAndRegister(t, svc, "alice", "s3cret")

	invite, err := svc.Invite(ctx, "alice2")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", invite.Code, "other")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.EqualError(t, err, "Username already registered")
}

func TestRegister_InvalidInviteCode(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Invite(ctx, "alice")
	require.NoError(t, err)

	// Wrong code for an invited username.
	_, err = svc.Register(ctx, "alice", "WRONG1", "s3cret")
	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.EqualError(t, err, "Invalid invite code")

	// No invite at all.
	_, err = svc.Register(ctx, "mallory", "ABC123", "s3cret")
	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.EqualError(t, err, "Invalid invite code")
}

func TestRegister_RequiredFields(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "  ", "ABC123", "s3cret")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = svc.Register(ctx, "alice", "ABC123", "")
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestLogin_IssuesVerifiableTokenPair(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	inviteAndRegister(t, svc, "alice", "s3cret")

	pair, err := svc.Login(ctx, "alice", "s3cret")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	// The refresh token round-trips into a new usable access token.
	access, err := svc.Refresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, access)
}

func TestLogin_IdenticalErrorForUnknownUserAndWrongPassword(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	inviteAndRegister(t, svc, "alice", "s3cret")

	_, errUnknown := svc.Login(ctx, "nobody", "whatever")
	_, errWrong := svc.Login(ctx, "alice", "wrongpass")

	require.Error(t, errUnknown)
	require.Error(t, errWrong)
	// Same message for both, so login can't be used to probe usernames.
	assert.Equal(t, errUnknown.Error(), errWrong.Error())
	assert.ErrorIs(t, errUnknown, apperror.ErrValidation)
	assert.ErrorIs(t, errWrong, apperror.ErrValidation)
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	inviteAndRegister(t, svc, "alice", "s3cret")
	pair, err := svc.Login(ctx, "alice", "s3cret")
	require.NoError(t, err)

	_, err = svc.Refresh(pair.AccessToken)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestChangePassword(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	userID := inviteAndRegister(t, svc, "alice", "oldpass")

	err := svc.ChangePassword(ctx, userID, "wrongold", "newpass")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	err = svc.ChangePassword(ctx, userID, "oldpass", "newpass")
	require.NoError(t, err)

	// Old password no longer works, new one does.
	_, err = svc.Login(ctx, "alice", "oldpass")
	assert.Error(t, err)
	_, err = svc.Login(ctx, "alice", "newpass")
	assert.NoError(t, err)
}

func TestInvite_AlreadyInvited(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Invite(ctx, "alice")
	require.NoError(t, err)

	_, err = svc.Invite(ctx, "alice")
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.EqualError(t, err, "User already invited")
}

func TestInvite_CodesAreUnique(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	seen := map[string]bool{}
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		invite, err := svc.Invite(ctx, name)
		require.NoError(t, err)
		assert.False(t, seen[invite.Code], "duplicate invite code %q", invite.Code)
		seen[invite.Code] = true
	}
}

func TestInvite_SurvivesRegistration(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	inviteAndRegister(t, svc, "alice", "s3cret")

	// Invites have no consumption marker; the code stays listed after use.
	invites, err := svc.ListInvites(ctx)
	require.NoError(t, err)
	require.Len(t, invites, 1)
	assert.Equal(t, "alice", invites[0].Username)
}

func TestGetUser_NotFound(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.GetUser(context.Background(), 9999)
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestListUsers(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	inviteAndRegister(t, svc, "alice", "pw")
	inviteAndRegister(t, svc, "bob", "pw")

	users, err := svc.ListUsers(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
