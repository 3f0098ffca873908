package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Radhe743/full-stack-social-media-app/internal/metrics"
	"github.com/Radhe743/full-stack-social-media-app/internal/models"
	"github.com/Radhe743/full-stack-social-media-app/internal/repositories"
	"github.com/Radhe743/full-stack-social-media-app/internal/storage"
	"github.com/labstack/echo/v4"
)

// UserHandler handles HTTP requests related to user profiles
type UserHandler struct {
	userRepository   repositories.UserRepository
	followRepository repositories.FollowRepository
	postRepository   repositories.PostRepository
	imageStore       storage.ImageStore
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, followRepo repositories.FollowRepository, postRepo repositories.PostRepository, store storage.ImageStore) *UserHandler {
	return &UserHandler{
		userRepository:   userRepo,
		followRepository: followRepo,
		postRepository:   postRepo,
		imageStore:       store,
	}
}

// RegisterProfileRoutes registers user profile-related routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/users/:username", h.GetProfile)
	g.PUT("/users/:username", h.UpdateProfile)
}

// GetProfile returns the profile of username as seen by the requester
func (h *UserHandler) GetProfile(c echo.Context) error {
	ctx := c.Request().Context()
	viewer, err := currentUser(c, h.userRepository)
	if err != nil {
		return err
	}

	username := c.Param("username")
	user, err := h.userRepository.GetUserByUsername(ctx, username)
	if err != nil {
		return notFoundOr(err, "User '"+username+"' not found")
	}

	resp, err := h.buildProfile(ctx, viewer, user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}

// UpdateProfile edits the requester's own profile. Accepts JSON or multipart
// form data with an optional profile_image file.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()
	viewer, err := currentUser(c, h.userRepository)
	if err != nil {
		return err
	}

	username := c.Param("username")
	user, err := h.userRepository.GetUserByUsername(ctx, username)
	if err != nil {
		return notFoundOr(err, "User '"+username+"' not found")
	}
	if user.ID != viewer.ID {
		return echo.NewHTTPError(http.StatusForbidden, "You can only edit your own profile")
	}

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	profile := user.Profile
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.Gender != nil {
		profile.Gender = models.Gender(*req.Gender)
	}
	if req.AccountType != nil {
		profile.AccountType = *req.AccountType
	}

	if isMultipart(c) {
		url, err := saveUpload(c, h.imageStore, "profile_image", "profiles")
		if err != nil {
			return err
		}
		if url != "" {
			profile.ProfileImage = url
		}
	}

	if err := h.userRepository.UpdateUser(ctx, user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.userRepository.UpdateProfile(ctx, profile); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp, err := h.buildProfile(ctx, viewer, user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) buildProfile(ctx context.Context, viewer, user *models.User) (*models.ProfileResponse, error) {
	if user.Profile == nil {
		return nil, errors.New("user profile missing")
	}
	profile := user.Profile

	postsCount, err := h.postRepository.CountPostsByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	followers, err := h.followRepository.GetFollowersCount(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	following, err := h.followRepository.GetFollowingCount(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	isFollowing, err := h.followRepository.IsFollowing(ctx, viewer.Profile.ID, profile.ID)
	if err != nil {
		return nil, err
	}

	resp := &models.ProfileResponse{
		ID:             profile.ID,
		User:           user.ToCompact(),
		Bio:            profile.Bio,
		Gender:         profile.Gender,
		AccountType:    profile.AccountType,
		ProfileImage:   profile.ProfileImage,
		IsVerified:     profile.IsVerified,
		PostsCount:     postsCount,
		FollowersCount: followers,
		FollowingCount: following,
		IsFollowing:    isFollowing,
		IsSelf:         viewer.ID == user.ID,
	}
	if resp.IsSelf {
		resp.Email = user.Email
	}
	return resp, nil
}

// isMultipart reports whether the request carries multipart form data
func isMultipart(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm)
}

// saveUpload stores the file sent under field, if any, and returns its URL
func saveUpload(c echo.Context, store storage.ImageStore, field, folder string) (string, error) {
	file, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", echo.NewHTTPError(http.StatusBadRequest, "Invalid "+field+" upload")
	}
	if store == nil {
		return "", echo.NewHTTPError(http.StatusServiceUnavailable, "Media storage is not configured")
	}

	if file.Size > storage.MaxImageSize {
		return "", echo.NewHTTPError(http.StatusRequestEntityTooLarge, "Image is too large")
	}

	src, err := file.Open()
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "Invalid "+field+" upload")
	}
	defer src.Close()

	res, err := store.Save(c.Request().Context(), folder, file.Filename, src)
	switch {
	case errors.Is(err, storage.ErrUnsupportedImage):
		return "", echo.NewHTTPError(http.StatusBadRequest, "Only JPEG, PNG, GIF and WebP images are allowed")
	case errors.Is(err, storage.ErrImageTooLarge):
		return "", echo.NewHTTPError(http.StatusRequestEntityTooLarge, "Image is too large")
	case err != nil:
		return "", echo.NewHTTPError(http.StatusInternalServerError, "Failed to store "+field)
	}
	metrics.Get().MediaUploadBytes.WithLabelValues(folder).Observe(float64(res.Size))
	return res.URL, nil
}
