package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Radhe743/full-stack-social-media-app/internal/metrics"
	"github.com/Radhe743/full-stack-social-media-app/internal/models"
	"github.com/Radhe743/full-stack-social-media-app/internal/repositories"
	"github.com/Radhe743/full-stack-social-media-app/internal/thread"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository     repositories.CommentRepository
	commentLikeRepository repositories.CommentLikeRepository
	postRepository        repositories.PostRepository
	threads               *thread.Materializer
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(
	commentRepo repositories.CommentRepository,
	commentLikeRepo repositories.CommentLikeRepository,
	postRepo repositories.PostRepository,
	threads *thread.Materializer,
) *CommentHandler {
	return &CommentHandler{
		commentRepository:     commentRepo,
		commentLikeRepository: commentLikeRepo,
		postRepository:        postRepo,
		threads:               threads,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.GET("/posts/:id/comments", h.GetCommentsByPostID)
	g.POST("/posts/:id/comments", h.CreateComment)
	g.GET("/comments/:id/replies", h.GetReplies)
	g.POST("/comments/:id/like", h.LikeComment)
	g.POST("/comments/:id/dislike", h.DislikeComment)
	g.PUT("/comments/:id", h.UpdateComment)
	g.DELETE("/comments/:id", h.DeleteComment)
}

// GetCommentsByPostID returns the top-level comments of a post: pinned first,
// then most liked, then newest.
func (h *CommentHandler) GetCommentsByPostID(c echo.Context) error {
	ctx := c.Request().Context()
	postID, err := parseIDParam(c, "id", "post")
	if err != nil {
		return err
	}
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	post, err := h.postRepository.GetPostByID(ctx, postID)
	if err != nil {
		return notFoundOr(err, "Post not found")
	}
	arena, err := h.threads.Load(ctx, postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	roots := arena.Roots()
	liked, err := h.likedComments(ctx, userID, roots)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	out := make([]models.CommentResponse, 0, len(roots))
	for _, comment := range roots {
		resp := newCommentResponse(comment, post.UserID, liked[comment.ID])
		resp.ReplyCount = arena.ReplyCount(comment.ID)
		out = append(out, resp)
	}
	return c.JSON(http.StatusOK, out)
}

// CreateComment adds a comment to a post, or a reply when parent_id is set
func (h *CommentHandler) CreateComment(c echo.Context) error {
	ctx := c.Request().Context()
	postID, err := parseIDParam(c, "id", "post")
	if err != nil {
		return err
	}
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	post, err := h.postRepository.GetPostByID(ctx, postID)
	if err != nil {
		return notFoundOr(err, "Post not found")
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	req.Content = strings.TrimSpace(req.Content)
	if err := c.Validate(&req); err != nil {
		return err
	}

	var topLevelID *uint
	if req.ParentID != nil {
		parent, err := h.commentRepository.GetCommentLink(ctx, *req.ParentID)
		if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && parent.PostID != postID) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid parent comment")
		}
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		top, err := h.topLevelParent(ctx, parent)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		topLevelID = &top
	}

	comment := &models.Comment{
		PostID:   postID,
		UserID:   userID,
		ParentID: req.ParentID,
		Content:  req.Content,
	}
	if err := h.commentRepository.CreateComment(ctx, comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	created, err := h.commentRepository.GetCommentByID(ctx, comment.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp := newCommentResponse(*created, post.UserID, false)
	resp.TopLevelParentID = topLevelID
	return c.JSON(http.StatusCreated, resp)
}

// topLevelParent walks up the parent links starting at parent. The walk ends
// at a comment without a parent, or early at a missing, foreign or already
// visited ancestor.
func (h *CommentHandler) topLevelParent(ctx context.Context, parent *models.Comment) (uint, error) {
	top := parent
	seen := map[uint]bool{top.ID: true}
	for top.ParentID != nil && !seen[*top.ParentID] {
		next, err := h.commentRepository.GetCommentLink(ctx, *top.ParentID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			break
		}
		if err != nil {
			return 0, err
		}
		if next.PostID != top.PostID {
			break
		}
		seen[next.ID] = true
		top = next
	}
	return top.ID, nil
}

// GetReplies returns the whole reply thread below a comment, flattened.
// Each entry carries its depth relative to the requested comment.
func (h *CommentHandler) GetReplies(c echo.Context) error {
	ctx := c.Request().Context()
	commentID, err := parseIDParam(c, "id", "comment")
	if err != nil {
		return err
	}
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	entries, arena, err := h.threads.Replies(ctx, commentID)
	if err != nil {
		if errors.Is(err, thread.ErrCommentNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	metrics.Get().ThreadReplies.Observe(float64(len(entries)))

	root, _ := arena.Lookup(commentID)
	post, err := h.postRepository.GetPostByID(ctx, root.PostID)
	if err != nil {
		return notFoundOr(err, "Post not found")
	}

	comments := make([]models.Comment, 0, len(entries))
	for _, e := range entries {
		comments = append(comments, e.Comment)
	}
	liked, err := h.likedComments(ctx, userID, comments)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	out := make([]models.CommentResponse, 0, len(entries))
	for _, e := range entries {
		resp := newCommentResponse(e.Comment, post.UserID, liked[e.Comment.ID])
		resp.Depth = e.Depth
		resp.ReplyCount = arena.ReplyCount(e.Comment.ID)
		if top, ok := arena.TopLevelParent(e.Comment.ID); ok {
			resp.TopLevelParentID = &top
		}
		out = append(out, resp)
	}
	return c.JSON(http.StatusOK, out)
}

// LikeComment adds the requester's like to a comment
func (h *CommentHandler) LikeComment(c echo.Context) error {
	return h.setCommentLike(c, true)
}

// DislikeComment removes the requester's like from a comment
func (h *CommentHandler) DislikeComment(c echo.Context) error {
	return h.setCommentLike(c, false)
}

func (h *CommentHandler) setCommentLike(c echo.Context, like bool) error {
	ctx := c.Request().Context()
	commentID, err := parseIDParam(c, "id", "comment")
	if err != nil {
		return err
	}
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	if _, err := h.commentRepository.GetCommentByID(ctx, commentID); err != nil {
		return notFoundOr(err, "Comment not found")
	}

	if like {
		err = h.commentLikeRepository.AddLike(ctx, commentID, userID)
	} else {
		err = h.commentLikeRepository.RemoveLike(ctx, commentID, userID)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	metrics.RecordToggle("comment_like", like)

	count, err := h.commentLikeRepository.CountLikes(ctx, commentID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"liked": like, "like_count": count})
}

// UpdateComment lets the author edit the content and the post owner pin or
// unpin a top-level comment.
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	ctx := c.Request().Context()
	commentID, err := parseIDParam(c, "id", "comment")
	if err != nil {
		return err
	}
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req models.UpdateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if req.Content != nil {
		trimmed := strings.TrimSpace(*req.Content)
		req.Content = &trimmed
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.Content == nil && req.Pinned == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Nothing to update")
	}

	comment, err := h.commentRepository.GetCommentByID(ctx, commentID)
	if err != nil {
		return notFoundOr(err, "Comment not found")
	}
	post, err := h.postRepository.GetPostByID(ctx, comment.PostID)
	if err != nil {
		return notFoundOr(err, "Post not found")
	}

	if req.Content != nil {
		if comment.UserID != userID {
			return echo.NewHTTPError(http.StatusForbidden, "You can only edit your own comments")
		}
		comment.Content = *req.Content
	}
	if req.Pinned != nil {
		if post.UserID == nil || *post.UserID != userID {
			return echo.NewHTTPError(http.StatusForbidden, "Only the post owner can pin comments")
		}
		if comment.ParentID != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Only top-level comments can be pinned")
		}
		comment.Pinned = *req.Pinned
	}

	if err := h.commentRepository.UpdateComment(ctx, comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	liked, err := h.likedComments(ctx, userID, []models.Comment{*comment})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, newCommentResponse(*comment, post.UserID, liked[comment.ID]))
}

// DeleteComment removes a comment and every reply below it. Allowed for the
// comment author and the owner of the post.
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	ctx := c.Request().Context()
	commentID, err := parseIDParam(c, "id", "comment")
	if err != nil {
		return err
	}
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	comment, err := h.commentRepository.GetCommentByID(ctx, commentID)
	if err != nil {
		return notFoundOr(err, "Comment not found")
	}
	post, err := h.postRepository.GetPostByID(ctx, comment.PostID)
	if err != nil {
		return notFoundOr(err, "Post not found")
	}
	isPostOwner := post.UserID != nil && *post.UserID == userID
	if comment.UserID != userID && !isPostOwner {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to delete this comment")
	}

	arena, err := h.threads.Load(ctx, comment.PostID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	ids := arena.Subtree(commentID)
	if len(ids) == 0 {
		ids = []uint{commentID}
	}
	if err := h.commentRepository.DeleteComments(ctx, ids); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CommentHandler) likedComments(ctx context.Context, userID uint, comments []models.Comment) (map[uint]bool, error) {
	ids := make([]uint, 0, len(comments))
	for _, comment := range comments {
		ids = append(ids, comment.ID)
	}
	return h.commentLikeRepository.GetLikedCommentIDs(ctx, userID, ids)
}

func newCommentResponse(comment models.Comment, postUserID *uint, liked bool) models.CommentResponse {
	resp := models.CommentResponse{
		ID:         comment.ID,
		UserID:     comment.UserID,
		Post:       comment.PostID,
		PostUserID: postUserID,
		Parent:     comment.ParentID,
		Content:    comment.Content,
		LikeCount:  comment.LikeCount,
		Liked:      liked,
		Pinned:     comment.Pinned,
		CreatedAt:  comment.CreatedAt,
	}
	if comment.User != nil {
		author := comment.User.ToCompact()
		resp.User = &author
	}
	return resp
}
