package handlers

import (
	"net/http"

	"github.com/Radhe743/full-stack-social-media-app/internal/metrics"
	"github.com/Radhe743/full-stack-social-media-app/internal/models"
	"github.com/Radhe743/full-stack-social-media-app/internal/repositories"
	"github.com/labstack/echo/v4"
)

// SavedPostHandler handles saved post HTTP requests
type SavedPostHandler struct {
	savedPostRepository repositories.SavedPostRepository
	postRepository      repositories.PostRepository
	userRepository      repositories.UserRepository
	presenter           *postPresenter
}

// NewSavedPostHandler creates a new SavedPostHandler
func NewSavedPostHandler(
	savedPostRepo repositories.SavedPostRepository,
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	likeRepo repositories.LikeRepository,
	commentRepo repositories.CommentRepository,
) *SavedPostHandler {
	return &SavedPostHandler{
		savedPostRepository: savedPostRepo,
		postRepository:      postRepo,
		userRepository:      userRepo,
		presenter: &postPresenter{
			likeRepository:      likeRepo,
			commentRepository:   commentRepo,
			savedPostRepository: savedPostRepo,
		},
	}
}

// RegisterSavedPostRoutes registers saved post routes
func (h *SavedPostHandler) RegisterSavedPostRoutes(g *echo.Group) {
	g.GET("/saved-posts", h.GetSavedPosts)
	g.POST("/saved-posts", h.ToggleSavedPost)
}

// GetSavedPosts lists the requester's saved posts, most recently saved first
func (h *SavedPostHandler) GetSavedPosts(c echo.Context) error {
	ctx := c.Request().Context()
	viewer, err := currentUser(c, h.userRepository)
	if err != nil {
		return err
	}

	saved, err := h.savedPostRepository.GetSavedPostsByProfile(ctx, viewer.Profile.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	ids := make([]uint, 0, len(saved))
	for _, s := range saved {
		ids = append(ids, s.PostID)
	}
	posts, err := h.postRepository.ListPostsByIDs(ctx, ids)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp, err := h.presenter.present(ctx, viewer, posts)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}

// ToggleSavedPost saves the post, or unsaves it if it was already saved
func (h *SavedPostHandler) ToggleSavedPost(c echo.Context) error {
	ctx := c.Request().Context()
	viewer, err := currentUser(c, h.userRepository)
	if err != nil {
		return err
	}

	var req models.SavePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if _, err := h.postRepository.GetPostByID(ctx, req.PostID); err != nil {
		return notFoundOr(err, "Post not found")
	}

	saved, err := h.savedPostRepository.ToggleSavedPost(ctx, viewer.Profile.ID, req.PostID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	metrics.RecordToggle("saved_post", saved)

	return c.JSON(http.StatusOK, echo.Map{"saved": saved})
}
