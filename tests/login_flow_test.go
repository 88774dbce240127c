package tests

import (
	"context"
	"testing"
	"time"

	"github.com/marafiq-hq/staffing-crm/app/dto"
	"github.com/marafiq-hq/staffing-crm/app/services"
	businessflow "github.com/marafiq-hq/staffing-crm/business_flow"
	"github.com/marafiq-hq/staffing-crm/repository"
	testingutil "github.com/marafiq-hq/staffing-crm/testing"
	"github.com/marafiq-hq/staffing-crm/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLoginFlow(t *testing.T, testDB *testingutil.TestDB) businessflow.LoginFlow {
	t.Helper()

	tokenService, err := services.NewTokenService(
		15*time.Minute,
		24*time.Hour,
		"staffing-crm",
		"staffing-crm-api",
		false,
		"", "",
		"test-secret-key-with-enough-entropy-0123456789",
	)
	require.NoError(t, err)

	return businessflow.NewLoginFlow(
		repository.NewUserRepository(testDB.DB),
		repository.NewUserSessionRepository(testDB.DB),
		repository.NewAuditLogRepository(testDB.DB),
		repository.NewRoleRepository(testDB.DB),
		tokenService,
		testDB.DB,
	)
}

func TestLoginFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newTestLoginFlow(t, testDB)
		ctx := testingutil.CreateTestContext()
		metadata := businessflow.NewClientMetadata("127.0.0.1", "go-test")

		role, err := fixtures.CreateTestRole("sales_agent", nil)
		require.NoError(t, err)
		user, err := fixtures.CreateTestUser(role.ID)
		require.NoError(t, err)

		t.Run("SuccessfulLogin", func(t *testing.T) {
			resp, err := flow.Login(ctx, &dto.LoginRequest{
				Email:    user.Email,
				Password: "TestPass123!",
			}, metadata)
			require.NoError(t, err)
			require.NotNil(t, resp)

			assert.Equal(t, user.ID, resp.User.ID)
			assert.Equal(t, user.Email, resp.User.Email)
			assert.Equal(t, "sales_agent", resp.User.RoleName)
			assert.NotEmpty(t, resp.Session.SessionToken)
			require.NotNil(t, resp.Session.RefreshToken)
			assert.NotEmpty(t, *resp.Session.RefreshToken)
		})

		t.Run("IncorrectPassword", func(t *testing.T) {
			resp, err := flow.Login(ctx, &dto.LoginRequest{
				Email:    user.Email,
				Password: "WrongPass999!",
			}, metadata)
			require.Error(t, err)
			assert.Nil(t, resp)
			assert.ErrorIs(t, err, businessflow.ErrIncorrectPassword)
		})

		t.Run("UnknownEmail", func(t *testing.T) {
			resp, err := flow.Login(ctx, &dto.LoginRequest{
				Email:    "nobody@example.com",
				Password: "TestPass123!",
			}, metadata)
			require.Error(t, err)
			assert.Nil(t, resp)
			assert.ErrorIs(t, err, businessflow.ErrUserNotFound)
		})

		t.Run("InactiveUser", func(t *testing.T) {
			inactive, err := fixtures.CreateTestUser(role.ID)
			require.NoError(t, err)
			inactive.IsActive = utils.ToPtr(false)
			require.NoError(t, testDB.DB.Save(inactive).Error)

			resp, err := flow.Login(ctx, &dto.LoginRequest{
				Email:    inactive.Email,
				Password: "TestPass123!",
			}, metadata)
			require.Error(t, err)
			assert.Nil(t, resp)
			assert.ErrorIs(t, err, businessflow.ErrAccountInactive)
		})

		t.Run("InactiveRole", func(t *testing.T) {
			disabledRole, err := fixtures.CreateTestRole("disabled_role", nil)
			require.NoError(t, err)
			disabledRole.IsActive = utils.ToPtr(false)
			require.NoError(t, testDB.DB.Save(disabledRole).Error)

			blocked, err := fixtures.CreateTestUser(disabledRole.ID)
			require.NoError(t, err)

			resp, err := flow.Login(ctx, &dto.LoginRequest{
				Email:    blocked.Email,
				Password: "TestPass123!",
			}, metadata)
			require.Error(t, err)
			assert.Nil(t, resp)
			assert.ErrorIs(t, err, businessflow.ErrRoleInactive)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestRefreshToken(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newTestLoginFlow(t, testDB)
		ctx := testingutil.CreateTestContext()
		metadata := businessflow.NewClientMetadata("127.0.0.1", "go-test")

		role, err := fixtures.CreateTestRole("refresh_role", nil)
		require.NoError(t, err)
		user, err := fixtures.CreateTestUser(role.ID)
		require.NoError(t, err)

		loginResp, err := flow.Login(ctx, &dto.LoginRequest{
			Email:    user.Email,
			Password: "TestPass123!",
		}, metadata)
		require.NoError(t, err)
		require.NotNil(t, loginResp.Session.RefreshToken)

		t.Run("RotatesSession", func(t *testing.T) {
			resp, err := flow.RefreshToken(ctx, &dto.RefreshTokenRequest{
				RefreshToken: *loginResp.Session.RefreshToken,
			}, metadata)
			require.NoError(t, err)
			require.NotNil(t, resp)

			assert.Equal(t, user.ID, resp.User.ID)
			assert.NotEqual(t, loginResp.Session.SessionToken, resp.Session.SessionToken)

			// The old refresh token must be dead after rotation
			replay, err := flow.RefreshToken(ctx, &dto.RefreshTokenRequest{
				RefreshToken: *loginResp.Session.RefreshToken,
			}, metadata)
			require.Error(t, err)
			assert.Nil(t, replay)
		})

		t.Run("UnknownToken", func(t *testing.T) {
			resp, err := flow.RefreshToken(ctx, &dto.RefreshTokenRequest{
				RefreshToken: "not-a-real-token",
			}, metadata)
			require.Error(t, err)
			assert.Nil(t, resp)
			assert.ErrorIs(t, err, businessflow.ErrSessionNotFound)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestChangePassword(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newTestLoginFlow(t, testDB)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "go-test")

		role, err := fixtures.CreateTestRole("password_role", nil)
		require.NoError(t, err)
		user, err := fixtures.CreateTestUser(role.ID)
		require.NoError(t, err)

		ctx := context.WithValue(testingutil.CreateTestContext(), utils.UserIDKey, user.ID)

		t.Run("WrongCurrentPassword", func(t *testing.T) {
			resp, err := flow.ChangePassword(ctx, &dto.ChangePasswordRequest{
				CurrentPassword: "NotTheRightOne!",
				NewPassword:     "BrandNewPass123!",
				ConfirmPassword: "BrandNewPass123!",
			}, metadata)
			require.Error(t, err)
			assert.Nil(t, resp)
			assert.ErrorIs(t, err, businessflow.ErrIncorrectPassword)
		})

		t.Run("SuccessExpiresSessions", func(t *testing.T) {
			loginResp, err := flow.Login(ctx, &dto.LoginRequest{
				Email:    user.Email,
				Password: "TestPass123!",
			}, metadata)
			require.NoError(t, err)

			resp, err := flow.ChangePassword(ctx, &dto.ChangePasswordRequest{
				CurrentPassword: "TestPass123!",
				NewPassword:     "BrandNewPass123!",
				ConfirmPassword: "BrandNewPass123!",
			}, metadata)
			require.NoError(t, err)
			assert.Equal(t, "Password changed successfully", resp.Message)

			// Old password no longer works, new one does
			_, err = flow.Login(ctx, &dto.LoginRequest{
				Email:    user.Email,
				Password: "TestPass123!",
			}, metadata)
			require.Error(t, err)

			_, err = flow.Login(ctx, &dto.LoginRequest{
				Email:    user.Email,
				Password: "BrandNewPass123!",
			}, metadata)
			require.NoError(t, err)

			// The session issued before the change is expired
			_, err = flow.RefreshToken(ctx, &dto.RefreshTokenRequest{
				RefreshToken: *loginResp.Session.RefreshToken,
			}, metadata)
			require.Error(t, err)
		})

		t.Run("NoUserInContext", func(t *testing.T) {
			resp, err := flow.ChangePassword(testingutil.CreateTestContext(), &dto.ChangePasswordRequest{
				CurrentPassword: "BrandNewPass123!",
				NewPassword:     "AnotherPass123!",
				ConfirmPassword: "AnotherPass123!",
			}, metadata)
			require.Error(t, err)
			assert.Nil(t, resp)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestLogout(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newTestLoginFlow(t, testDB)
		ctx := testingutil.CreateTestContext()
		metadata := businessflow.NewClientMetadata("127.0.0.1", "go-test")

		role, err := fixtures.CreateTestRole("logout_role", nil)
		require.NoError(t, err)
		user, err := fixtures.CreateTestUser(role.ID)
		require.NoError(t, err)

		loginResp, err := flow.Login(ctx, &dto.LoginRequest{
			Email:    user.Email,
			Password: "TestPass123!",
		}, metadata)
		require.NoError(t, err)

		resp, err := flow.Logout(ctx, loginResp.Session.SessionToken, metadata)
		require.NoError(t, err)
		assert.Equal(t, "Logged out successfully", resp.Message)

		// The refresh token belonging to the logged-out session is dead
		_, err = flow.RefreshToken(ctx, &dto.RefreshTokenRequest{
			RefreshToken: *loginResp.Session.RefreshToken,
		}, metadata)
		require.Error(t, err)
		assert.ErrorIs(t, err, businessflow.ErrSessionExpired)

		return nil
	})
	require.NoError(t, err)
}
