package handler

import (
	"github.com/labstack/echo/v4"

	"solgigs/internal/domain/entity"
	"solgigs/internal/domain/repository"
	"solgigs/pkg/errors"
	"solgigs/pkg/response"
)

type UserHandler struct {
	userRepo repository.UserRepository
}

func NewUserHandler(userRepo repository.UserRepository) *UserHandler {
	return &UserHandler{
		userRepo: userRepo,
	}
}

type updateProfileRequest struct {
	Username      string `json:"username" validate:"required,min=3,max=30"`
	Email         string `json:"email" validate:"required,email"`
	Bio           string `json:"bio" validate:"max=500"`
	AvatarURL     string `json:"avatar_url" validate:"omitempty,url"`
	WalletAddress string `json:"wallet_address" validate:"max=64"`
}

func (h *UserHandler) GetMe(c echo.Context) error {
	userID := c.Get("uid").(string)

	user, err := h.userRepo.GetByID(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

// UpdateProfile creates or updates the caller's profile document.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)
	ctx := c.Request().Context()

	user, err := h.userRepo.GetByID(ctx, userID)
	if errors.Is(err, "NOT_FOUND") {
		user = &entity.User{ID: userID}
		user.Username = req.Username
		user.Email = req.Email
		user.Bio = req.Bio
		user.AvatarURL = req.AvatarURL
		user.WalletAddress = req.WalletAddress
		if err := h.userRepo.Create(ctx, user); err != nil {
			return response.Error(c, err)
		}
		return response.Created(c, user)
	}
	if err != nil {
		return response.Error(c, err)
	}

	user.Username = req.Username
	user.Email = req.Email
	user.Bio = req.Bio
	user.AvatarURL = req.AvatarURL
	user.WalletAddress = req.WalletAddress

	if err := h.userRepo.Update(ctx, user); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}
