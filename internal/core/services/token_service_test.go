package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/saurabhtripathi7/mediqueue/internal/apperrors"
	"github.com/saurabhtripathi7/mediqueue/internal/core/domain"
	portssvc "github.com/saurabhtripathi7/mediqueue/internal/core/ports/services"
	"github.com/saurabhtripathi7/mediqueue/internal/core/services"
	"github.com/saurabhtripathi7/mediqueue/internal/platform/config"
	"github.com/saurabhtripathi7/mediqueue/internal/utils"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:                  "test-access-secret",
		JWTExpiryDuration:          15 * time.Minute,
		JWTIssuer:                  "mediqueue-test",
		RefreshTokenSecret:         "test-refresh-secret",
		RefreshTokenExpiryDuration: 24 * time.Hour,
	}
}

type TokenServiceTestSuite struct {
	suite.Suite
	cfg          *config.Config
	mockUserRepo *MockUserRepository
	service      portssvc.TokenSvcFacade
}

func (suite *TokenServiceTestSuite) SetupTest() {
	suite.cfg = testConfig()
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewTokenService(suite.cfg, suite.mockUserRepo)
}

func (suite *TokenServiceTestSuite) testUser() *domain.User {
	return &domain.User{
		UserID: uuid.NewString(),
		Email:  "asha@example.com",
		Role:   domain.RolePatient,
	}
}

// --- IssueTokens ---

func (suite *TokenServiceTestSuite) TestIssueTokens_PersistsHashedRefreshToken() {
	ctx := context.Background()
	user := suite.testUser()

	var persistedHash string
	suite.mockUserRepo.SupersedeRefreshTokenFn = func(ctx context.Context, userID string, refreshTokenHash string, expiryTime time.Time) error {
		suite.Equal(user.UserID, userID)
		suite.True(expiryTime.After(time.Now()))
		persistedHash = refreshTokenHash
		return nil
	}

	pair, err := suite.service.IssueTokens(ctx, user)

	suite.Require().NoError(err)
	suite.NotEmpty(pair.AccessToken)
	suite.NotEmpty(pair.RefreshToken)
	suite.NotEqual(pair.AccessToken, pair.RefreshToken)
	// Only the hash reaches storage, never the raw token.
	suite.NotEqual(pair.RefreshToken, persistedHash)
	suite.Equal(utils.HashRefreshToken(pair.RefreshToken), persistedHash)
}

func (suite *TokenServiceTestSuite) TestIssueTokens_PersistFailure() {
	ctx := context.Background()
	user := suite.testUser()

	suite.mockUserRepo.On("SupersedeRefreshToken", ctx, user.UserID, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
		Return(assert.AnError).Once()

	pair, err := suite.service.IssueTokens(ctx, user)

	suite.Require().Error(err)
	suite.Nil(pair)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

// --- VerifyAccessToken ---

func (suite *TokenServiceTestSuite) TestVerifyAccessToken_RoundTrip() {
	ctx := context.Background()
	user := suite.testUser()
	user.Role = domain.RoleDoctor

	suite.mockUserRepo.SupersedeRefreshTokenFn = func(context.Context, string, string, time.Time) error { return nil }
	pair, err := suite.service.IssueTokens(ctx, user)
	suite.Require().NoError(err)

	authUser, err := suite.service.VerifyAccessToken(pair.AccessToken)

	suite.Require().NoError(err)
	suite.Equal(user.UserID, authUser.UserID)
	suite.Equal(domain.RoleDoctor, authUser.Role)
}

func (suite *TokenServiceTestSuite) TestVerifyAccessToken_Expired() {
	user := suite.testUser()
	expired, err := utils.GenerateAccessJWT(user.UserID, string(user.Role), suite.cfg.JWTSecret, -time.Minute, suite.cfg.JWTIssuer)
	suite.Require().NoError(err)

	authUser, err := suite.service.VerifyAccessToken(expired)

	suite.Require().Error(err)
	suite.Nil(authUser)
}

func (suite *TokenServiceTestSuite) TestVerifyAccessToken_WrongSecret() {
	user := suite.testUser()
	forged, err := utils.GenerateAccessJWT(user.UserID, string(user.Role), "some-other-secret", time.Minute, suite.cfg.JWTIssuer)
	suite.Require().NoError(err)

	authUser, err := suite.service.VerifyAccessToken(forged)

	suite.Require().Error(err)
	suite.Nil(authUser)
}

// A refresh token must never be accepted where an access token is expected,
// even though both are HS256 JWTs.
func (suite *TokenServiceTestSuite) TestVerifyAccessToken_RejectsRefreshToken() {
	user := suite.testUser()
	refreshToken, err := utils.GenerateRefreshJWT(user.UserID, suite.cfg.RefreshTokenSecret, time.Hour, suite.cfg.JWTIssuer)
	suite.Require().NoError(err)

	authUser, err := suite.service.VerifyAccessToken(refreshToken)

	suite.Require().Error(err)
	suite.Nil(authUser)
}

// --- Refresh ---

// storedSession wires the mock repo to behave like the single persisted
// refresh-token row: reads see the current hash, rotation compare-and-swaps it.
func (suite *TokenServiceTestSuite) storedSession(user *domain.User, hash string, expiry time.Time) *struct {
	Hash    string
	Rotates int
} {
	state := &struct {
		Hash    string
		Rotates int
	}{Hash: hash}

	u := *user
	suite.mockUserRepo.FindUserByIDFn = func(ctx context.Context, userID string) (*domain.User, error) {
		if userID != u.UserID {
			return nil, apperrors.ErrNotFound
		}
		copied := u
		copied.RefreshTokenHash = state.Hash
		copied.RefreshTokenExpiryTime = &expiry
		return &copied, nil
	}
	suite.mockUserRepo.RotateRefreshTokenFn = func(ctx context.Context, userID string, currentHash string, newHash string, expiryTime time.Time) error {
		if state.Hash != currentHash {
			return apperrors.ErrRefreshTokenMismatch
		}
		state.Hash = newHash
		state.Rotates++
		return nil
	}
	return state
}

func (suite *TokenServiceTestSuite) TestRefresh_Success() {
	ctx := context.Background()
	user := suite.testUser()

	refreshToken, err := utils.GenerateRefreshJWT(user.UserID, suite.cfg.RefreshTokenSecret, time.Hour, suite.cfg.JWTIssuer)
	suite.Require().NoError(err)
	state := suite.storedSession(user, utils.HashRefreshToken(refreshToken), time.Now().Add(time.Hour))

	pair, err := suite.service.Refresh(ctx, refreshToken)

	suite.Require().NoError(err)
	suite.NotEmpty(pair.AccessToken)
	suite.NotEqual(refreshToken, pair.RefreshToken)
	suite.Equal(1, state.Rotates)
	suite.Equal(utils.HashRefreshToken(pair.RefreshToken), state.Hash)
}

// Reusing the pre-rotation token after a successful refresh must fail: the
// stored hash now belongs to the new token.
func (suite *TokenServiceTestSuite) TestRefresh_OldTokenUnusableAfterRotation() {
	ctx := context.Background()
	user := suite.testUser()

	refreshToken, err := utils.GenerateRefreshJWT(user.UserID, suite.cfg.RefreshTokenSecret, time.Hour, suite.cfg.JWTIssuer)
	suite.Require().NoError(err)
	state := suite.storedSession(user, utils.HashRefreshToken(refreshToken), time.Now().Add(time.Hour))

	first, err := suite.service.Refresh(ctx, refreshToken)
	suite.Require().NoError(err)

	replay, err := suite.service.Refresh(ctx, refreshToken)
	suite.Require().Error(err)
	suite.Nil(replay)
	suite.ErrorIs(err, apperrors.ErrRefreshTokenMismatch)
	suite.Equal(1, state.Rotates)

	// The rotated token still works.
	second, err := suite.service.Refresh(ctx, first.RefreshToken)
	suite.Require().NoError(err)
	suite.NotNil(second)
	suite.Equal(2, state.Rotates)
}

func (suite *TokenServiceTestSuite) TestRefresh_SupersededBySecondLogin() {
	ctx := context.Background()
	user := suite.testUser()

	oldToken, err := utils.GenerateRefreshJWT(user.UserID, suite.cfg.RefreshTokenSecret, time.Hour, suite.cfg.JWTIssuer)
	suite.Require().NoError(err)
	// A later login replaced the stored hash with another token's hash.
	suite.storedSession(user, utils.HashRefreshToken("a-newer-session-token"), time.Now().Add(time.Hour))

	pair, err := suite.service.Refresh(ctx, oldToken)

	suite.Require().Error(err)
	suite.Nil(pair)
	suite.ErrorIs(err, apperrors.ErrRefreshTokenMismatch)
}

func (suite *TokenServiceTestSuite) TestRefresh_AfterLogout() {
	ctx := context.Background()
	user := suite.testUser()

	refreshToken, err := utils.GenerateRefreshJWT(user.UserID, suite.cfg.RefreshTokenSecret, time.Hour, suite.cfg.JWTIssuer)
	suite.Require().NoError(err)

	// Logout cleared the stored token.
	suite.mockUserRepo.FindUserByIDFn = func(ctx context.Context, userID string) (*domain.User, error) {
		copied := *user
		return &copied, nil
	}

	pair, err := suite.service.Refresh(ctx, refreshToken)

	suite.Require().Error(err)
	suite.Nil(pair)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *TokenServiceTestSuite) TestRefresh_StoredTokenExpired() {
	ctx := context.Background()
	user := suite.testUser()

	refreshToken, err := utils.GenerateRefreshJWT(user.UserID, suite.cfg.RefreshTokenSecret, time.Hour, suite.cfg.JWTIssuer)
	suite.Require().NoError(err)
	suite.storedSession(user, utils.HashRefreshToken(refreshToken), time.Now().Add(-time.Minute))

	pair, err := suite.service.Refresh(ctx, refreshToken)

	suite.Require().Error(err)
	suite.Nil(pair)
	suite.ErrorIs(err, apperrors.ErrRefreshTokenExpired)
}

func (suite *TokenServiceTestSuite) TestRefresh_MalformedToken() {
	ctx := context.Background()

	pair, err := suite.service.Refresh(ctx, "not-a-jwt")

	suite.Require().Error(err)
	suite.Nil(pair)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

// An access token signed with the access secret must not be exchangeable as
// a refresh token.
func (suite *TokenServiceTestSuite) TestRefresh_RejectsAccessToken() {
	ctx := context.Background()
	user := suite.testUser()

	accessToken, err := utils.GenerateAccessJWT(user.UserID, string(user.Role), suite.cfg.JWTSecret, time.Minute, suite.cfg.JWTIssuer)
	suite.Require().NoError(err)

	pair, err := suite.service.Refresh(ctx, accessToken)

	suite.Require().Error(err)
	suite.Nil(pair)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *TokenServiceTestSuite) TestRefresh_LosesRotationRace() {
	ctx := context.Background()
	user := suite.testUser()

	refreshToken, err := utils.GenerateRefreshJWT(user.UserID, suite.cfg.RefreshTokenSecret, time.Hour, suite.cfg.JWTIssuer)
	suite.Require().NoError(err)

	expiry := time.Now().Add(time.Hour)
	suite.mockUserRepo.FindUserByIDFn = func(ctx context.Context, userID string) (*domain.User, error) {
		copied := *user
		copied.RefreshTokenHash = utils.HashRefreshToken(refreshToken)
		copied.RefreshTokenExpiryTime = &expiry
		return &copied, nil
	}
	// Another request rotated the token between the read and the swap.
	suite.mockUserRepo.RotateRefreshTokenFn = func(context.Context, string, string, string, time.Time) error {
		return apperrors.ErrRefreshTokenMismatch
	}

	pair, err := suite.service.Refresh(ctx, refreshToken)

	suite.Require().Error(err)
	suite.Nil(pair)
	suite.ErrorIs(err, apperrors.ErrRefreshTokenMismatch)
}

// --- RevokeRefreshToken ---

func (suite *TokenServiceTestSuite) TestRevokeRefreshToken() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.mockUserRepo.On("ClearRefreshToken", ctx, userID).Return(nil).Once()

	err := suite.service.RevokeRefreshToken(ctx, userID)

	suite.Require().NoError(err)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func TestTokenServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TokenServiceTestSuite))
}
