package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Radhe743/full-stack-social-media-app/internal/models"
	"github.com/Radhe743/full-stack-social-media-app/internal/repositories"
	"github.com/Radhe743/full-stack-social-media-app/internal/storage"
	"github.com/labstack/echo/v4"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	maxTagLength    = 50
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository repositories.PostRepository
	userRepository repositories.UserRepository
	imageStore     storage.ImageStore
	presenter      *postPresenter
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	likeRepo repositories.LikeRepository,
	commentRepo repositories.CommentRepository,
	savedRepo repositories.SavedPostRepository,
	store storage.ImageStore,
) *PostHandler {
	return &PostHandler{
		postRepository: postRepo,
		userRepository: userRepo,
		imageStore:     store,
		presenter: &postPresenter{
			likeRepository:      likeRepo,
			commentRepository:   commentRepo,
			savedPostRepository: savedRepo,
		},
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.GET("/posts", h.ListPosts)
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/user/:username", h.GetPostsByUsername)
	g.GET("/posts/:id", h.GetPostOrUserPosts)
	g.DELETE("/posts/:id", h.DeletePost)
}

// ListPosts returns posts newest first, paged with skip and limit
func (h *PostHandler) ListPosts(c echo.Context) error {
	viewer, err := currentUser(c, h.userRepository)
	if err != nil {
		return err
	}
	skip, limit, err := parsePaging(c)
	if err != nil {
		return err
	}

	posts, err := h.postRepository.ListPosts(c.Request().Context(), skip, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return h.respondPosts(c, viewer, posts)
}

// CreatePost creates a post from JSON or multipart form data
func (h *PostHandler) CreatePost(c echo.Context) error {
	ctx := c.Request().Context()
	author, err := currentUser(c, h.userRepository)
	if err != nil {
		return err
	}

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	req.Title = strings.TrimSpace(req.Title)
	if err := c.Validate(&req); err != nil {
		return err
	}
	tags, err := normalizeTags(req.Tags)
	if err != nil {
		return err
	}

	post := &models.Post{
		Title:       req.Title,
		Description: req.Description,
		UserID:      &author.ID,
	}
	if isMultipart(c) {
		if post.Image, err = saveUpload(c, h.imageStore, "image", "posts"); err != nil {
			return err
		}
	}

	if err := h.postRepository.CreatePost(ctx, post, tags); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	post.User = author

	resp, err := h.presenter.presentOne(ctx, author, post)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, resp)
}

// GetPostOrUserPosts serves /posts/:id. A numeric reference is a post id,
// anything else is treated as a username.
func (h *PostHandler) GetPostOrUserPosts(c echo.Context) error {
	ref := c.Param("id")
	id, err := strconv.ParseUint(ref, 10, 32)
	if err != nil {
		return h.postsByUsername(c, ref)
	}

	viewer, err := currentUser(c, h.userRepository)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	post, err := h.postRepository.GetPostByID(ctx, uint(id))
	if err != nil {
		return notFoundOr(err, "Post not found")
	}
	resp, err := h.presenter.presentOne(ctx, viewer, post)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}

// GetPostsByUsername lists the posts of a user, newest first
func (h *PostHandler) GetPostsByUsername(c echo.Context) error {
	return h.postsByUsername(c, c.Param("username"))
}

func (h *PostHandler) postsByUsername(c echo.Context, username string) error {
	ctx := c.Request().Context()
	viewer, err := currentUser(c, h.userRepository)
	if err != nil {
		return err
	}
	owner, err := h.userRepository.GetUserByUsername(ctx, username)
	if err != nil {
		return notFoundOr(err, "User '"+username+"' not found")
	}
	posts, err := h.postRepository.ListPostsByUser(ctx, owner.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return h.respondPosts(c, viewer, posts)
}

// DeletePost deletes a post owned by the requester
func (h *PostHandler) DeletePost(c echo.Context) error {
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
	if post.UserID == nil || *post.UserID != userID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to delete this post")
	}

	if err := h.postRepository.DeletePost(ctx, postID); err != nil {
		return notFoundOr(err, "Post not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *PostHandler) respondPosts(c echo.Context, viewer *models.User, posts []models.Post) error {
	resp, err := h.presenter.present(c.Request().Context(), viewer, posts)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}

func parsePaging(c echo.Context) (skip, limit int, err error) {
	limit = defaultPageSize
	if v := c.QueryParam("skip"); v != "" {
		if skip, err = strconv.Atoi(v); err != nil || skip < 0 {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid skip")
		}
	}
	if v := c.QueryParam("limit"); v != "" {
		if limit, err = strconv.Atoi(v); err != nil || limit < 1 {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid limit")
		}
		if limit > maxPageSize {
			limit = maxPageSize
		}
	}
	return skip, limit, nil
}

// normalizeTagName trims whitespace and a leading '#'
func normalizeTagName(name string) string {
	return strings.TrimPrefix(strings.TrimSpace(name), "#")
}

// normalizeTags splits comma separated values, trims and drops duplicates
func normalizeTags(raw []string) ([]string, error) {
	seen := make(map[string]bool)
	tags := make([]string, 0, len(raw))
	for _, value := range raw {
		for _, name := range strings.Split(value, ",") {
			name = normalizeTagName(name)
			if name == "" || seen[name] {
				continue
			}
			if utf8.RuneCountInString(name) > maxTagLength {
				return nil, echo.NewHTTPError(http.StatusBadRequest, "Tag names are limited to 50 characters")
			}
			seen[name] = true
			tags = append(tags, name)
		}
	}
	return tags, nil
}
