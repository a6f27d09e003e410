package handler

import (
	"github.com/labstack/echo/v4"

	"solgigs/internal/domain/entity"
	"solgigs/internal/domain/repository"
	"solgigs/internal/infrastructure/firebase"
	"solgigs/pkg/response"
)

type AuthHandler struct {
	authClient *firebase.FirebaseAuthClient
	userRepo   repository.UserRepository
}

func NewAuthHandler(authClient *firebase.FirebaseAuthClient, userRepo repository.UserRepository) *AuthHandler {
	return &AuthHandler{
		authClient: authClient,
		userRepo:   userRepo,
	}
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Username string `json:"username" validate:"required,min=3,max=30"`
}

// Register creates the Firebase account and its profile document. Sign
// in happens client side against Firebase directly; the API only ever
// sees ID tokens.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	ctx := c.Request().Context()

	uid, err := h.authClient.CreateUser(ctx, req.Email, req.Password, req.Username)
	if err != nil {
		return response.Error(c, err)
	}

	user := &entity.User{
		ID:       uid,
		Email:    req.Email,
		Username: req.Username,
	}
	if err := h.userRepo.Create(ctx, user); err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, user)
}
