package handlers

import (
	"net/http"
	"net/url"

	"github.com/Radhe743/full-stack-social-media-app/internal/repositories"
	"github.com/labstack/echo/v4"
)

// TagHandler serves posts grouped by tag
type TagHandler struct {
	tagRepository  repositories.TagRepository
	postRepository repositories.PostRepository
	userRepository repositories.UserRepository
	presenter      *postPresenter
}

func NewTagHandler(
	tagRepo repositories.TagRepository,
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	likeRepo repositories.LikeRepository,
	commentRepo repositories.CommentRepository,
	savedRepo repositories.SavedPostRepository,
) *TagHandler {
	return &TagHandler{
		tagRepository:  tagRepo,
		postRepository: postRepo,
		userRepository: userRepo,
		presenter: &postPresenter{
			likeRepository:      likeRepo,
			commentRepository:   commentRepo,
			savedPostRepository: savedRepo,
		},
	}
}

func (h *TagHandler) RegisterTagRoutes(g *echo.Group) {
	g.GET("/tags/:name", h.GetPostsByTag)
}

// GetPostsByTag lists the posts carrying a tag, newest first
func (h *TagHandler) GetPostsByTag(c echo.Context) error {
	ctx := c.Request().Context()
	viewer, err := currentUser(c, h.userRepository)
	if err != nil {
		return err
	}

	name := c.Param("name")
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}
	tag, err := h.tagRepository.GetTagByName(ctx, normalizeTagName(name))
	if err != nil {
		return notFoundOr(err, "Tag not found")
	}
	posts, err := h.postRepository.ListPostsByTag(ctx, tag.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp, err := h.presenter.present(ctx, viewer, posts)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"tag": tag.Name, "posts": resp})
}
