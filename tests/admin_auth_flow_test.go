// Package tests contains integration tests for admin authentication
package tests

import (
	"context"
	"testing"
	"time"

	"github.com/breezeline/interiors-api/app/dto"
	"github.com/breezeline/interiors-api/app/services"
	businessflow "github.com/breezeline/interiors-api/business_flow"
	"github.com/breezeline/interiors-api/models"
	testingutil "github.com/breezeline/interiors-api/testing"
	"github.com/breezeline/interiors-api/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthFlow(t *testing.T, fixtures *testingutil.TestFixtures) businessflow.AdminAuthFlow {
	t.Helper()
	store := services.NewMemorySessionStore(time.Minute)
	t.Cleanup(store.Close)
	sessionService := services.NewSessionService(store, time.Hour)
	return businessflow.NewAdminAuthFlow(fixtures.Admins, sessionService)
}

func TestAdminLogin(t *testing.T) {
	metadata := businessflow.NewClientMetadata("127.0.0.1", "Test User Agent")

	t.Run("SuccessfulLogin", func(t *testing.T) {
		fixtures := testingutil.NewTestFixtures()
		flow := newAuthFlow(t, fixtures)

		admin, err := fixtures.CreateTestAdmin("studio")
		require.NoError(t, err)

		resp, session, err := flow.Login(context.Background(), &dto.AdminLoginRequest{
			Username: "studio",
			Password: testingutil.TestAdminPassword,
		}, metadata)
		require.NoError(t, err)
		require.NotNil(t, resp)
		require.NotNil(t, session)

		assert.Equal(t, "studio", resp.Username)
		assert.Equal(t, int(time.Hour.Seconds()), resp.ExpiresIn)
		assert.Empty(t, resp.LastLoginAt, "first login has no previous login to report")

		assert.Equal(t, admin.ID, session.AdminID)
		assert.NotEmpty(t, session.Token)
		assert.True(t, session.ExpiresAt.After(utils.UTCNow()))

		// the login is recorded for the next session to display
		reloaded, err := fixtures.Admins.ByID(context.Background(), admin.ID)
		require.NoError(t, err)
		assert.NotNil(t, reloaded.LastLoginAt)
	})

	t.Run("SecondLoginReportsLastLogin", func(t *testing.T) {
		fixtures := testingutil.NewTestFixtures()
		flow := newAuthFlow(t, fixtures)
		_, err := fixtures.CreateTestAdmin("studio")
		require.NoError(t, err)

		req := &dto.AdminLoginRequest{Username: "studio", Password: testingutil.TestAdminPassword}
		_, _, err = flow.Login(context.Background(), req, metadata)
		require.NoError(t, err)

		resp, _, err := flow.Login(context.Background(), req, metadata)
		require.NoError(t, err)
		assert.NotEmpty(t, resp.LastLoginAt)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		fixtures := testingutil.NewTestFixtures()
		flow := newAuthFlow(t, fixtures)
		_, err := fixtures.CreateTestAdmin("studio")
		require.NoError(t, err)

		_, _, err = flow.Login(context.Background(), &dto.AdminLoginRequest{
			Username: "studio",
			Password: "WrongPass123!",
		}, metadata)
		assert.True(t, businessflow.IsIncorrectPassword(err))
	})

	t.Run("UnknownUsernameLooksLikeWrongPassword", func(t *testing.T) {
		fixtures := testingutil.NewTestFixtures()
		flow := newAuthFlow(t, fixtures)

		_, _, unknownErr := flow.Login(context.Background(), &dto.AdminLoginRequest{
			Username: "ghost",
			Password: "whatever",
		}, metadata)
		require.Error(t, unknownErr)
		assert.True(t, businessflow.IsIncorrectPassword(unknownErr))

		_, err := fixtures.CreateTestAdmin("studio")
		require.NoError(t, err)
		_, _, wrongErr := flow.Login(context.Background(), &dto.AdminLoginRequest{
			Username: "studio",
			Password: "whatever",
		}, metadata)
		require.Error(t, wrongErr)
		assert.Equal(t, unknownErr.Error(), wrongErr.Error(), "the two failures must be indistinguishable")
	})

	t.Run("InactiveAdmin", func(t *testing.T) {
		fixtures := testingutil.NewTestFixtures()
		flow := newAuthFlow(t, fixtures)

		admin, err := fixtures.CreateTestAdmin("studio")
		require.NoError(t, err)
		admin.IsActive = utils.ToPtr(false)
		require.NoError(t, fixtures.Admins.Save(context.Background(), admin))

		_, _, err = flow.Login(context.Background(), &dto.AdminLoginRequest{
			Username: "studio",
			Password: testingutil.TestAdminPassword,
		}, metadata)
		assert.True(t, businessflow.IsAdminInactive(err))
	})

	t.Run("EmptyCredentials", func(t *testing.T) {
		flow := newAuthFlow(t, testingutil.NewTestFixtures())
		_, _, err := flow.Login(context.Background(), &dto.AdminLoginRequest{}, metadata)
		assert.Error(t, err)
	})
}

func TestAdminLogoutAndCheck(t *testing.T) {
	metadata := businessflow.NewClientMetadata("127.0.0.1", "Test User Agent")

	fixtures := testingutil.NewTestFixtures()
	flow := newAuthFlow(t, fixtures)
	_, err := fixtures.CreateTestAdmin("studio")
	require.NoError(t, err)

	_, session, err := flow.Login(context.Background(), &dto.AdminLoginRequest{
		Username: "studio",
		Password: testingutil.TestAdminPassword,
	}, metadata)
	require.NoError(t, err)

	t.Run("CheckLiveSession", func(t *testing.T) {
		check := flow.Check(context.Background(), session.Token)
		assert.True(t, check.Authenticated)
		assert.Equal(t, "studio", check.Username)
	})

	t.Run("CheckUnknownToken", func(t *testing.T) {
		check := flow.Check(context.Background(), "not-a-token")
		assert.False(t, check.Authenticated)
		assert.Empty(t, check.Username)
	})

	t.Run("LogoutDestroysSession", func(t *testing.T) {
		require.NoError(t, flow.Logout(context.Background(), session.Token))
		check := flow.Check(context.Background(), session.Token)
		assert.False(t, check.Authenticated)
	})

	t.Run("LogoutIsIdempotent", func(t *testing.T) {
		assert.NoError(t, flow.Logout(context.Background(), session.Token))
		assert.NoError(t, flow.Logout(context.Background(), ""))
	})
}

func TestEnsureBootstrapAdmin(t *testing.T) {
	t.Run("SeedsMissingAdmin", func(t *testing.T) {
		fixtures := testingutil.NewTestFixtures()
		flow := newAuthFlow(t, fixtures)

		require.NoError(t, flow.EnsureBootstrapAdmin(context.Background(), "studio", "Bootstrap123!", bcrypt.MinCost))

		admin, err := fixtures.Admins.ByUsername(context.Background(), "studio")
		require.NoError(t, err)
		require.NotNil(t, admin)
		assert.True(t, utils.IsTrue(admin.IsActive))
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("Bootstrap123!")))
	})

	t.Run("RefusesShortPassword", func(t *testing.T) {
		fixtures := testingutil.NewTestFixtures()
		flow := newAuthFlow(t, fixtures)

		// a password the login DTO can never carry must not be seeded,
		// otherwise the account is unreachable forever
		for _, password := range []string{"", "short"} {
			err := flow.EnsureBootstrapAdmin(context.Background(), "studio", password, bcrypt.MinCost)
			require.Error(t, err, "password %q", password)
		}

		admin, err := fixtures.Admins.ByUsername(context.Background(), "studio")
		require.NoError(t, err)
		assert.Nil(t, admin)
	})

	t.Run("LeavesExistingAdminUntouched", func(t *testing.T) {
		fixtures := testingutil.NewTestFixtures()
		flow := newAuthFlow(t, fixtures)

		existing, err := fixtures.CreateTestAdmin("studio")
		require.NoError(t, err)

		require.NoError(t, flow.EnsureBootstrapAdmin(context.Background(), "studio", "NewPassword123!", bcrypt.MinCost))

		reloaded, err := fixtures.Admins.ByID(context.Background(), existing.ID)
		require.NoError(t, err)
		assert.Equal(t, existing.PasswordHash, reloaded.PasswordHash)

		count, err := fixtures.Admins.Count(context.Background(), models.AdminFilter{Username: utils.ToPtr("studio")})
		require.NoError(t, err)
		assert.Equal(t, int64(1), count, "seeding must not duplicate the account")
	})
}
