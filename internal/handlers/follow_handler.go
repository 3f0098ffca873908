package handlers

import (
	"net/http"

	"github.com/Radhe743/full-stack-social-media-app/internal/repositories"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles follow/unfollow between profiles
type FollowHandler struct {
	followRepository repositories.FollowRepository
	userRepository   repositories.UserRepository
}

func NewFollowHandler(followRepo repositories.FollowRepository, userRepo repositories.UserRepository) *FollowHandler {
	return &FollowHandler{
		followRepository: followRepo,
		userRepository:   userRepo,
	}
}

func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/follow/:id", h.Follow)
	g.POST("/unfollow/:id", h.Unfollow)
}

// Follow makes the requester follow the user with the given id
func (h *FollowHandler) Follow(c echo.Context) error {
	return h.setFollowing(c, true)
}

// Unfollow removes the requester's follow of the user with the given id
func (h *FollowHandler) Unfollow(c echo.Context) error {
	return h.setFollowing(c, false)
}

func (h *FollowHandler) setFollowing(c echo.Context, follow bool) error {
	ctx := c.Request().Context()
	targetID, err := parseIDParam(c, "id", "user")
	if err != nil {
		return err
	}
	me, err := currentUser(c, h.userRepository)
	if err != nil {
		return err
	}
	if me.ID == targetID {
		return echo.NewHTTPError(http.StatusBadRequest, "You cannot follow yourself")
	}

	target, err := h.userRepository.GetUserByID(ctx, targetID)
	if err != nil {
		return notFoundOr(err, "User not found")
	}
	if target.Profile == nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	if follow {
		err = h.followRepository.Follow(ctx, me.Profile.ID, target.Profile.ID)
	} else {
		err = h.followRepository.Unfollow(ctx, me.Profile.ID, target.Profile.ID)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	followers, err := h.followRepository.GetFollowersCount(ctx, target.Profile.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"following": follow, "followers_count": followers})
}
