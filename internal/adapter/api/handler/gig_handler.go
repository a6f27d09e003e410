package handler

import (
	"github.com/labstack/echo/v4"

	"solgigs/internal/usecase"
	"solgigs/pkg/response"
	"solgigs/pkg/utils"
)

type GigHandler struct {
	gigUseCase *usecase.GigUseCase
}

func NewGigHandler(gigUseCase *usecase.GigUseCase) *GigHandler {
	return &GigHandler{
		gigUseCase: gigUseCase,
	}
}

type createGigRequest struct {
	Title       string   `json:"title" validate:"required,min=3,max=120"`
	Description string   `json:"description" validate:"required"`
	Category    string   `json:"category" validate:"required"`
	PriceSOL    float64  `json:"price_sol" validate:"required,gt=0"`
	ImageURLs   []string `json:"image_urls" validate:"omitempty,dive,url"`
}

func (h *GigHandler) CreateGig(c echo.Context) error {
	var req createGigRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	sellerID := c.Get("uid").(string)

	gig, err := h.gigUseCase.CreateGig(c.Request().Context(), sellerID, usecase.CreateGigInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		PriceSOL:    req.PriceSOL,
		ImageURLs:   req.ImageURLs,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, gig)
}

func (h *GigHandler) GetGig(c echo.Context) error {
	gig, err := h.gigUseCase.GetGig(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, gig)
}

func (h *GigHandler) ListGigs(c echo.Context) error {
	params := utils.GetPaginationParams(c)

	gigs, total, err := h.gigUseCase.ListGigs(c.Request().Context(), c.QueryParam("category"), params.PageSize, params.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, gigs, total, params.Page, params.PageSize)
}
