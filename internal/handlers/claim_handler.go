package handlers

import (
	"net/http"
	"strconv"

	"github.com/ecobite/backend/internal/lifecycle"
	"github.com/ecobite/backend/internal/models"
	"github.com/ecobite/backend/internal/repositories"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// ClaimHandler handles HTTP requests related to claims
type ClaimHandler struct {
	claimRepository repositories.ClaimRepository
	engine          *lifecycle.Engine
}

// NewClaimHandler creates a new ClaimHandler
func NewClaimHandler(claimRepo repositories.ClaimRepository, engine *lifecycle.Engine) *ClaimHandler {
	return &ClaimHandler{
		claimRepository: claimRepo,
		engine:          engine,
	}
}

// RegisterClaimRoutes registers claim-related routes
func (h *ClaimHandler) RegisterClaimRoutes(g *echo.Group) {
	g.POST("/posts/:id/claims", h.CreateClaim)
	g.POST("/claims", h.CreateClaimByBody)
	g.GET("/claims/mine", h.GetMyClaims)
	g.GET("/claims/for-my-posts", h.GetIncomingClaims)
	g.PATCH("/claims/:id", h.DecideClaim)
	g.PATCH("/claims/:id/cancel", h.CancelClaim)
}

// CreateClaim requests (part of) a post's offering for the current actor
func (h *ClaimHandler) CreateClaim(c echo.Context) error {
	claims, err := actorClaims(c)
	if err != nil {
		return err
	}

	postID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}

	var req models.CreateClaimRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	requested := req.RequestedQuantity
	if requested == "" {
		requested = "1"
	}

	claim, err := h.engine.CreateClaim(uint(postID), claims.UserID, requested, req.Message)
	if err != nil {
		return lifecycleHTTPError(err)
	}

	return c.JSON(http.StatusCreated, claim)
}

// createClaimBody is the flat body form carrying the post id itself
type createClaimBody struct {
	PostID            uint   `json:"post_id" validate:"required"`
	RequestedQuantity string `json:"requested_quantity" validate:"omitempty,max=255"`
	Message           string `json:"message" validate:"omitempty,max=1000"`
}

// CreateClaimByBody is the flat variant of CreateClaim taking the post id in
// the request body instead of the path
func (h *ClaimHandler) CreateClaimByBody(c echo.Context) error {
	claims, err := actorClaims(c)
	if err != nil {
		return err
	}

	var req createClaimBody
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	requested := req.RequestedQuantity
	if requested == "" {
		requested = "1"
	}

	claim, err := h.engine.CreateClaim(req.PostID, claims.UserID, requested, req.Message)
	if err != nil {
		return lifecycleHTTPError(err)
	}

	return c.JSON(http.StatusCreated, claim)
}

// GetMyClaims retrieves the claims the current actor has made
func (h *ClaimHandler) GetMyClaims(c echo.Context) error {
	claims, err := actorClaims(c)
	if err != nil {
		return err
	}

	list, err := h.claimRepository.ListClaimsByClaimer(claims.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, list)
}

// GetIncomingClaims retrieves the claims received on the actor's posts
func (h *ClaimHandler) GetIncomingClaims(c echo.Context) error {
	claims, err := actorClaims(c)
	if err != nil {
		return err
	}

	list, err := h.claimRepository.ListClaimsForOwner(claims.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, list)
}

// DecideClaim applies the post owner's approve/reject decision
func (h *ClaimHandler) DecideClaim(c echo.Context) error {
	claims, err := actorClaims(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid claim ID")
	}

	var req models.DecideClaimRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	claim, err := h.engine.DecideClaim(uint(id), claims.UserID, req.Decision)
	if err != nil {
		return lifecycleHTTPError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "status": claim.Status})
}

// CancelClaim cancels the actor's own claim
func (h *ClaimHandler) CancelClaim(c echo.Context) error {
	claims, err := actorClaims(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid claim ID")
	}

	if err := h.engine.CancelClaim(uint(id), claims.UserID); err != nil {
		return lifecycleHTTPError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
