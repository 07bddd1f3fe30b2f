package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"coworkops/internal/common"
	"coworkops/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	users   *MockUserRepository
	cache   *MockCacheService
	clock   *clockwork.FakeClock
	service AuthService
	user    *models.User
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.users = &MockUserRepository{}
	suite.cache = &MockCacheService{}
	suite.clock = clockwork.NewFakeClockAt(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	suite.service = NewAuthService(suite.users, suite.cache, suite.clock, "test-secret", time.Hour, zap.NewNop())

	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(suite.T(), err)
	suite.user = &models.User{
		ID:           uuid.New(),
		Email:        "ana@example.com",
		PasswordHash: string(hash),
		FullName:     "Ana Silva",
		Role:         models.RoleStaff,
		IsActive:     true,
	}
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func (suite *AuthServiceTestSuite) TestLogin_Success() {
	suite.cache.On("IsRateLimited", mock.Anything, "login:ana@example.com", loginAttemptLimit, loginAttemptWindow).Return(false, nil)
	suite.users.On("GetByEmail", mock.Anything, "ana@example.com").Return(suite.user, nil)
	suite.cache.On("ResetRateLimit", mock.Anything, "login:ana@example.com").Return(nil)

	resp, err := suite.service.Login(suite.ctx, " Ana@Example.com ", "correct horse")

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Bearer", resp.TokenType)
	assert.Equal(suite.T(), 3600, resp.ExpiresIn)
	assert.Equal(suite.T(), suite.user.ID, resp.User.ID)

	claims, err := suite.service.ValidateToken(resp.AccessToken)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.user.ID.String(), claims.UserID)
	assert.Equal(suite.T(), "staff", claims.Role)
	suite.cache.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestLogin_WrongPassword() {
	suite.cache.On("IsRateLimited", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
	suite.users.On("GetByEmail", mock.Anything, "ana@example.com").Return(suite.user, nil)

	_, err := suite.service.Login(suite.ctx, "ana@example.com", "wrong")

	assert.ErrorIs(suite.T(), err, common.ErrUnauthorized)
	suite.cache.AssertNotCalled(suite.T(), "ResetRateLimit", mock.Anything, mock.Anything)
}

func (suite *AuthServiceTestSuite) TestLogin_UnknownEmail() {
	suite.cache.On("IsRateLimited", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
	suite.users.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, common.ErrNotFound)

	_, err := suite.service.Login(suite.ctx, "nobody@example.com", "whatever")
	assert.ErrorIs(suite.T(), err, common.ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestLogin_Throttled() {
	suite.cache.On("IsRateLimited", mock.Anything, "login:ana@example.com", loginAttemptLimit, loginAttemptWindow).Return(true, nil)

	_, err := suite.service.Login(suite.ctx, "ana@example.com", "correct horse")

	assert.ErrorIs(suite.T(), err, common.ErrTooManyRequests)
	suite.users.AssertNotCalled(suite.T(), "GetByEmail", mock.Anything, mock.Anything)
}

func (suite *AuthServiceTestSuite) TestLogin_CacheDownStillLogsIn() {
	suite.cache.On("IsRateLimited", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(false, errors.New("dial tcp: refused"))
	suite.users.On("GetByEmail", mock.Anything, "ana@example.com").Return(suite.user, nil)
	suite.cache.On("ResetRateLimit", mock.Anything, mock.Anything).Return(errors.New("dial tcp: refused"))

	_, err := suite.service.Login(suite.ctx, "ana@example.com", "correct horse")
	assert.NoError(suite.T(), err)
}

func (suite *AuthServiceTestSuite) TestLogin_DisabledAccount() {
	suite.user.IsActive = false
	suite.cache.On("IsRateLimited", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
	suite.users.On("GetByEmail", mock.Anything, "ana@example.com").Return(suite.user, nil)

	_, err := suite.service.Login(suite.ctx, "ana@example.com", "correct horse")
	assert.ErrorIs(suite.T(), err, common.ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestValidateToken_Expired() {
	resp, err := suite.service.GenerateToken(suite.user)
	require.NoError(suite.T(), err)

	suite.clock.Advance(2 * time.Hour)
	_, err = suite.service.ValidateToken(resp.AccessToken)
	assert.ErrorIs(suite.T(), err, common.ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestValidateToken_WrongSecret() {
	other := NewAuthService(suite.users, suite.cache, suite.clock, "other-secret", time.Hour, zap.NewNop())
	resp, err := other.GenerateToken(suite.user)
	require.NoError(suite.T(), err)

	_, err = suite.service.ValidateToken(resp.AccessToken)
	assert.ErrorIs(suite.T(), err, common.ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestValidateToken_RejectsNoneAlgorithm() {
	claims := TokenClaims{UserID: suite.user.ID.String(), Role: "admin"}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(suite.T(), err)

	_, err = suite.service.ValidateToken(token)
	assert.ErrorIs(suite.T(), err, common.ErrUnauthorized)
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret-pass")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("other")))
}
