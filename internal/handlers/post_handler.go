package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ecobite/backend/internal/lifecycle"
	"github.com/ecobite/backend/internal/models"
	"github.com/ecobite/backend/internal/repositories"
	"github.com/ecobite/backend/internal/storage"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// PostHandler handles HTTP requests related to food posts
type PostHandler struct {
	postRepository  repositories.PostRepository
	claimRepository repositories.ClaimRepository
	engine          *lifecycle.Engine
	uploader        storage.Uploader
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(
	postRepo repositories.PostRepository,
	claimRepo repositories.ClaimRepository,
	engine *lifecycle.Engine,
	uploader storage.Uploader,
) *PostHandler {
	return &PostHandler{
		postRepository:  postRepo,
		claimRepository: claimRepo,
		engine:          engine,
		uploader:        uploader,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts", h.GetPosts)
	g.GET("/posts/mine", h.GetMyPosts)
	g.GET("/posts/:id", h.GetPost)
	g.PATCH("/posts/:id/status", h.UpdatePostStatus)
}

// Accepted layouts for pickup window and expiry timestamps. The second form
// is what HTML datetime-local inputs submit.
var timeLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02 15:04:05"}

func parseTimePtr(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	var lastErr error
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return &t, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// CreatePost creates a new food post. The create page submits
// multipart/form-data with an optional photo; JSON bodies are accepted too.
func (h *PostHandler) CreatePost(c echo.Context) error {
	claims, err := actorClaims(c)
	if err != nil {
		return err
	}

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	pickupStart, err := parseTimePtr(req.PickupWindowStart)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid pickup_window_start")
	}
	pickupEnd, err := parseTimePtr(req.PickupWindowEnd)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid pickup_window_end")
	}
	expiresAt, err := parseTimePtr(req.ExpiresAt)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid expires_at")
	}

	category := req.Category
	if category == "" {
		category = "Other"
	}

	post := &models.Post{
		UserID:            claims.UserID,
		Title:             req.Title,
		Description:       req.Description,
		Category:          category,
		Quantity:          req.Quantity,
		EstimatedWeightKg: req.EstimatedWeightKg,
		Location:          req.Location,
		PickupWindowStart: pickupStart,
		PickupWindowEnd:   pickupEnd,
		ExpiresAt:         expiresAt,
		Status:            models.PostStatusActive,
	}
	post.SetDietaryTags(req.DietaryTags)

	// Optional photo upload via the storage collaborator. A failed upload is
	// non-fatal: the post is created without an image.
	if file, ferr := c.FormFile("photo"); ferr == nil && file != nil {
		if storage.AllowedImage(file.Filename) {
			src, oerr := file.Open()
			if oerr == nil {
				url, uerr := h.uploader.Upload(c.Request().Context(), file.Filename, src)
				src.Close()
				if uerr == nil {
					post.ImageURL = url
				} else {
					c.Logger().Warnf("image upload failed: %v", uerr)
				}
			}
		}
	}

	if err := h.postRepository.CreatePost(post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, post)
}

// GetPosts retrieves the filtered public post listing
func (h *PostHandler) GetPosts(c echo.Context) error {
	filter := repositories.PostFilter{
		Status:   c.QueryParam("status"),
		Search:   c.QueryParam("search"),
		Category: c.QueryParam("type"),
		Dietary:  c.QueryParam("dietary"),
		Sort:     c.QueryParam("sort"),
	}
	if filter.Status == "" {
		filter.Status = repositories.FilterStatusAvailable
	}
	if filter.Category == "All Types" {
		filter.Category = ""
	}

	posts, err := h.postRepository.ListPosts(filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, posts)
}

// GetMyPosts retrieves the authenticated user's posts with claim summaries
func (h *PostHandler) GetMyPosts(c echo.Context) error {
	claims, err := actorClaims(c)
	if err != nil {
		return err
	}

	posts, err := h.postRepository.ListPostsByOwner(claims.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, posts)
}

// GetPost retrieves a single post. The owner additionally gets the post's
// claim list with claimer contact emails.
func (h *PostHandler) GetPost(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}

	post, err := h.postRepository.GetPostWithOwner(uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	claims, _ := c.Get("user").(*models.JwtCustomClaims)
	if claims != nil && claims.UserID == post.UserID {
		postClaims, err := h.claimRepository.ListClaimsByPost(post.ID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, echo.Map{
			"post":   post,
			"claims": postClaims,
		})
	}

	return c.JSON(http.StatusOK, echo.Map{"post": post})
}

// UpdatePostStatus applies an owner-initiated status change through the
// lifecycle engine's transition table
func (h *PostHandler) UpdatePostStatus(c echo.Context) error {
	claims, err := actorClaims(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}

	var req models.UpdatePostStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.engine.UpdatePostStatus(uint(id), claims.UserID, req.Status); err != nil {
		return lifecycleHTTPError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "status": req.Status})
}
