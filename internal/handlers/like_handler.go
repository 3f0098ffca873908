package handlers

import (
	"net/http"

	"github.com/Radhe743/full-stack-social-media-app/internal/metrics"
	"github.com/Radhe743/full-stack-social-media-app/internal/repositories"
	"github.com/labstack/echo/v4"
)

// LikeHandler handles HTTP requests related to post likes
type LikeHandler struct {
	likeRepository repositories.LikeRepository
	postRepository repositories.PostRepository
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(likeRepo repositories.LikeRepository, postRepo repositories.PostRepository) *LikeHandler {
	return &LikeHandler{
		likeRepository: likeRepo,
		postRepository: postRepo,
	}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:id", h.ToggleLike)
}

// ToggleLike likes the post, or removes the like if the requester already
// liked it. msg is "1" when the post ends up liked and "0" otherwise.
func (h *LikeHandler) ToggleLike(c echo.Context) error {
	ctx := c.Request().Context()
	postID, err := parseIDParam(c, "id", "post")
	if err != nil {
		return err
	}
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	if _, err := h.postRepository.GetPostByID(ctx, postID); err != nil {
		return notFoundOr(err, "Post not found")
	}

	liked, count, err := h.likeRepository.TogglePostLike(ctx, postID, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	metrics.RecordToggle("post_like", liked)

	msg := "0"
	if liked {
		msg = "1"
	}
	return c.JSON(http.StatusOK, echo.Map{"msg": msg, "liked": liked, "likes_count": count})
}
