package service_test

import (
	"database/sql"
	"errors"
	"net/http"
	"testing"
	"time"

	appErrors "github.com/aaravmahajanofficial/storefront-sync/internal/errors"
	"github.com/aaravmahajanofficial/storefront-sync/internal/models"
	repository "github.com/aaravmahajanofficial/storefront-sync/internal/repositories"
	"github.com/aaravmahajanofficial/storefront-sync/internal/repositories/mocks"
	service "github.com/aaravmahajanofficial/storefront-sync/internal/services"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testJWTKey = []byte("test-key")

func setupUserServiceTest(t *testing.T) (service.UserService, *mocks.UserRepository, *mocks.RateLimitRepository) {
	userRepo := mocks.NewUserRepository(t)
	rateLimitRepo := mocks.NewRateLimitRepository(t)

	return service.NewUserService(userRepo, rateLimitRepo, testJWTKey, time.Hour), userRepo, rateLimitRepo
}

func parseClaims(t *testing.T, token string) *models.Claims {
	t.Helper()

	claims := &models.Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) { return testJWTKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	require.NoError(t, err)

	return claims
}

func TestUserService_Register(t *testing.T) {
	t.Run("Success - User Registration", func(t *testing.T) {
		// Arrange
		svc, userRepo, _ := setupUserServiceTest(t)
		req := &models.RegisterRequest{Name: " Test User ", Email: "Test@Example.com", Password: "P@ssword123!"}
		newID := uuid.New()

		userRepo.On("CreateUser", mock.Anything, mock.AnythingOfType("*models.User")).
			Run(func(args mock.Arguments) {
				user := args.Get(1).(*models.User)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)))
				user.ID = newID
			}).
			Return(nil).Once()

		// Act
		resp, err := svc.Register(t.Context(), req)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, newID, resp.User.ID)
		assert.Equal(t, "Test User", resp.User.Name)
		assert.Equal(t, "test@example.com", resp.User.Email)
		assert.Equal(t, 3600, resp.ExpiresIn)
		assert.Equal(t, newID, parseClaims(t, resp.Token).UserID)
	})

	t.Run("Failure - Duplicate Email", func(t *testing.T) {
		// Arrange
		svc, userRepo, _ := setupUserServiceTest(t)
		req := &models.RegisterRequest{Name: "Dup", Email: "dup@example.com", Password: "P@ssword123!"}
		userRepo.On("CreateUser", mock.Anything, mock.Anything).Return(repository.ErrDuplicateEmail).Once()

		// Act
		resp, err := svc.Register(t.Context(), req)

		// Assert
		assert.Nil(t, resp)
		requireAppError(t, err, appErrors.ErrCodeDuplicateEntry, http.StatusConflict)
	})

	t.Run("Failure - Database error", func(t *testing.T) {
		// Arrange
		svc, userRepo, _ := setupUserServiceTest(t)
		req := &models.RegisterRequest{Name: "X", Email: "x@example.com", Password: "P@ssword123!"}
		userRepo.On("CreateUser", mock.Anything, mock.Anything).Return(errors.New("db down")).Once()

		// Act
		_, err := svc.Register(t.Context(), req)

		// Assert
		requireAppError(t, err, appErrors.ErrCodeDatabaseError, http.StatusInternalServerError)
	})
}

func TestUserService_Login(t *testing.T) {
	password := "P@ssword123!"
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{ID: uuid.New(), Name: "Jane", Email: "jane@example.com", Password: string(hash)}

	t.Run("Success - Valid credentials", func(t *testing.T) {
		// Arrange
		svc, userRepo, rateLimitRepo := setupUserServiceTest(t)
		rateLimitRepo.On("CheckLoginRateLimit", mock.Anything, user.Email).Return(true, 4, 0, nil).Once()
		userRepo.On("GetUserByEmail", mock.Anything, user.Email).Return(user, nil).Once()

		// Act
		resp, err := svc.Login(t.Context(), &models.LoginRequest{Email: "Jane@Example.com", Password: password})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, user.ID, resp.User.ID)
		claims := parseClaims(t, resp.Token)
		assert.Equal(t, user.Email, claims.Email)
		assert.Equal(t, "Jane", claims.Name)
	})

	t.Run("Failure - Wrong password", func(t *testing.T) {
		// Arrange
		svc, userRepo, rateLimitRepo := setupUserServiceTest(t)
		rateLimitRepo.On("CheckLoginRateLimit", mock.Anything, user.Email).Return(true, 3, 0, nil).Once()
		userRepo.On("GetUserByEmail", mock.Anything, user.Email).Return(user, nil).Once()

		// Act
		resp, err := svc.Login(t.Context(), &models.LoginRequest{Email: user.Email, Password: "wrong"})

		// Assert
		assert.Nil(t, resp)
		requireAppError(t, err, appErrors.ErrCodeUnauthorized, http.StatusUnauthorized)
	})

	t.Run("Failure - Unknown email", func(t *testing.T) {
		// Arrange
		svc, userRepo, rateLimitRepo := setupUserServiceTest(t)
		rateLimitRepo.On("CheckLoginRateLimit", mock.Anything, "ghost@example.com").Return(true, 3, 0, nil).Once()
		userRepo.On("GetUserByEmail", mock.Anything, "ghost@example.com").Return(nil, sql.ErrNoRows).Once()

		// Act
		_, err := svc.Login(t.Context(), &models.LoginRequest{Email: "ghost@example.com", Password: password})

		// Assert
		requireAppError(t, err, appErrors.ErrCodeUnauthorized, http.StatusUnauthorized)
	})

	t.Run("Failure - Rate limited", func(t *testing.T) {
		// Arrange
		svc, _, rateLimitRepo := setupUserServiceTest(t)
		rateLimitRepo.On("CheckLoginRateLimit", mock.Anything, user.Email).Return(false, 0, 42, nil).Once()

		// Act
		_, err := svc.Login(t.Context(), &models.LoginRequest{Email: user.Email, Password: password})

		// Assert
		requireAppError(t, err, appErrors.ErrCodeTooManyRequests, http.StatusTooManyRequests)
		appErr, _ := appErrors.IsAppError(err)
		assert.Contains(t, appErr.Detail, "42")
	})

	t.Run("Failure - Rate limiter unavailable", func(t *testing.T) {
		// Arrange
		svc, _, rateLimitRepo := setupUserServiceTest(t)
		rateLimitRepo.On("CheckLoginRateLimit", mock.Anything, user.Email).Return(false, 0, 0, errors.New("redis down")).Once()

		// Act
		_, err := svc.Login(t.Context(), &models.LoginRequest{Email: user.Email, Password: password})

		// Assert
		requireAppError(t, err, appErrors.ErrCodeThirdPartyError, http.StatusInternalServerError)
	})
}

func TestUserService_GetUserByID(t *testing.T) {
	t.Run("Failure - Not found", func(t *testing.T) {
		// Arrange
		svc, userRepo, _ := setupUserServiceTest(t)
		id := uuid.New()
		userRepo.On("GetUserByID", mock.Anything, id).Return(nil, sql.ErrNoRows).Once()

		// Act
		_, err := svc.GetUserByID(t.Context(), id)

		// Assert
		requireAppError(t, err, appErrors.ErrCodeNotFound, http.StatusNotFound)
	})
}
