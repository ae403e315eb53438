package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront-sync/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront-sync/internal/models"
	service "github.com/aaravmahajanofficial/storefront-sync/internal/services"
	"github.com/aaravmahajanofficial/storefront-sync/internal/utils"
	"github.com/aaravmahajanofficial/storefront-sync/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type UserHandler struct {
	userService service.UserService
	validator   *validator.Validate
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService, validator: validator.New()}
}

// Register godoc
//	@Summary		Register a new user
//	@Description	Creates an account and returns a token so the client is signed in immediately.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			user	body		models.RegisterRequest							true	"Registration details"
//	@Success		201		{object}	response.APIResponse{data=models.AuthResponse}	"Registered"
//	@Failure		400		{object}	response.ErrorResponse							"Validation error"
//	@Failure		409		{object}	response.ErrorResponse							"Email already registered"
//	@Router			/user/register [post]
func (h *UserHandler) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.RegisterRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid register input")
			return
		}

		auth, err := h.userService.Register(r.Context(), &req)
		if err != nil {
			logger.Warn("Registration failed", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("User registered", slog.String("userId", auth.User.ID.String()))
		response.Success(w, http.StatusCreated, auth)
	}
}

// Login godoc
//	@Summary		Log in
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			credentials	body		models.LoginRequest								true	"Credentials"
//	@Success		200			{object}	response.APIResponse{data=models.AuthResponse}	"Signed in"
//	@Failure		400			{object}	response.ErrorResponse							"Validation error"
//	@Failure		401			{object}	response.ErrorResponse							"Invalid email or password"
//	@Failure		429			{object}	response.ErrorResponse							"Too many login attempts"
//	@Router			/user/login [post]
func (h *UserHandler) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.LoginRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid login input")
			return
		}

		auth, err := h.userService.Login(r.Context(), &req)
		if err != nil {
			logger.Warn("Login failed", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("User logged in", slog.String("userId", auth.User.ID.String()))
		response.Success(w, http.StatusOK, auth)
	}
}
