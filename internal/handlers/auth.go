package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/Radhe743/full-stack-social-media-app/internal/auth"
	"github.com/Radhe743/full-stack-social-media-app/internal/logger"
	"github.com/Radhe743/full-stack-social-media-app/internal/metrics"
	"github.com/Radhe743/full-stack-social-media-app/internal/middleware"
	"github.com/Radhe743/full-stack-social-media-app/internal/models"
	"github.com/Radhe743/full-stack-social-media-app/internal/repositories"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/random"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const refreshCookieName = "refresh_token"

// IDTokenVerifier is the part of the Firebase auth client used for federated login
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	userRepository repositories.UserRepository
	tokens         *auth.TokenService
	firebaseAuth   IDTokenVerifier
	cookieSecure   bool
}

// NewAuthHandler creates a new AuthHandler. firebaseAuth may be nil, in which
// case Firebase login answers 503.
func NewAuthHandler(userRepo repositories.UserRepository, tokens *auth.TokenService, firebaseAuth IDTokenVerifier, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		tokens:         tokens,
		firebaseAuth:   firebaseAuth,
		cookieSecure:   cookieSecure,
	}
}

// RegisterAuthRoutes registers authentication-related routes. Routes that
// read the refresh cookie are wrapped with the CSRF check.
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group, csrf echo.MiddlewareFunc) {
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/firebase-login", h.FirebaseLogin)
	g.POST("/refresh", h.Refresh, csrf)
	g.POST("/logout", h.Logout, csrf)
}

// Register handles local user registration
func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Please provide all required fields {username, password, email}")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	taken, err := h.userRepository.UsernameExists(ctx, req.Username)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if taken {
		return echo.NewHTTPError(http.StatusConflict, "Username already exists")
	}
	taken, err = h.userRepository.EmailExists(ctx, req.Email)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if taken {
		return echo.NewHTTPError(http.StatusConflict, "Email already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	user := &models.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  string(hashedPassword),
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	if err := h.userRepository.CreateUser(ctx, user); err != nil {
		// lost a race against a concurrent registration
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return echo.NewHTTPError(http.StatusConflict, "Username or email already exists")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Error creating user: "+err.Error())
	}

	metrics.RecordAuthEvent("register", "success")
	return c.JSON(http.StatusCreated, echo.Map{"msg": "User created", "user": user.ToCompact()})
}

// Login handles username and password authentication
func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if req.Username == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Both username and password are required.")
	}

	user, err := h.userRepository.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.RecordAuthEvent("login", "failure")
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid username or password.")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		metrics.RecordAuthEvent("login", "failure")
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid username or password.")
	}

	metrics.RecordAuthEvent("login", "success")
	return h.startSession(c, user)
}

// Refresh exchanges the refresh cookie for a new access token
func (h *AuthHandler) Refresh(c echo.Context) error {
	ctx := c.Request().Context()

	cookie, err := c.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Refresh token not found")
	}

	claims, err := h.tokens.ParseRefresh(ctx, cookie.Value)
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidToken) && !errors.Is(err, auth.ErrTokenBlacklisted) {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		h.clearCookie(c, refreshCookieName, true)
		metrics.RecordAuthEvent("refresh", "rejected")
		return echo.NewHTTPError(http.StatusUnauthorized, "Refresh token is invalid or blacklisted")
	}

	user, err := h.userRepository.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.clearCookie(c, refreshCookieName, true)
			return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	access, err := h.tokens.IssueAccess(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	metrics.RecordAuthEvent("refresh", "success")
	return c.JSON(http.StatusOK, echo.Map{"access": access, "user": user.ToCompact()})
}

// Logout blacklists the refresh token and clears the session cookies
func (h *AuthHandler) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	if cookie, err := c.Cookie(refreshCookieName); err == nil && cookie.Value != "" {
		claims, err := h.tokens.Parse(cookie.Value, auth.RefreshTokenType)
		if err == nil {
			if err := h.tokens.Revoke(ctx, claims); err != nil {
				logger.Log.Error("Failed to blacklist refresh token", zap.Error(err))
				return echo.NewHTTPError(http.StatusInternalServerError, "Failed to logout")
			}
		}
	}

	h.clearCookie(c, refreshCookieName, true)
	h.clearCookie(c, middleware.CSRFCookieName, false)
	metrics.RecordAuthEvent("logout", "success")
	return c.JSON(http.StatusOK, echo.Map{"message": "Logout successful"})
}

// FirebaseLoginRequest defines the request body for Firebase login
type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// FirebaseLogin verifies a Firebase ID token and starts a local session
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	ctx := c.Request().Context()
	if h.firebaseAuth == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Firebase login is not configured")
	}

	var req FirebaseLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, err := h.firebaseAuth.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		metrics.RecordAuthEvent("firebase_login", "failure")
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Firebase ID token")
	}
	email, _ := token.Claims["email"].(string)
	if email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Firebase account has no email")
	}
	name, _ := token.Claims["name"].(string)
	verified, _ := token.Claims["email_verified"].(bool)

	user, err := h.findOrCreateFirebaseUser(ctx, token.UID, email, name, verified)
	if err != nil {
		metrics.RecordAuthEvent("firebase_login", "failure")
		return err
	}

	metrics.RecordAuthEvent("firebase_login", "success")
	return h.startSession(c, user)
}

// findOrCreateFirebaseUser resolves the account by Firebase UID, then by email
// (linking the UID), and creates one as a last resort. An existing account is
// only linked when Firebase has verified the email.
func (h *AuthHandler) findOrCreateFirebaseUser(ctx context.Context, uid, email, name string, emailVerified bool) (*models.User, error) {
	user, err := h.userRepository.GetUserByFirebaseUID(ctx, uid)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "Database error")
	}

	user, err = h.userRepository.GetUserByEmail(ctx, email)
	if err == nil {
		if !emailVerified {
			return nil, echo.NewHTTPError(http.StatusConflict, "An account with this email already exists, verify the email to link it")
		}
		user.FirebaseUID = &uid
		if err := h.userRepository.UpdateUser(ctx, user); err != nil {
			return nil, echo.NewHTTPError(http.StatusInternalServerError, "Failed to update user with Firebase UID")
		}
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "Database error")
	}

	username, err := h.availableUsername(ctx, email)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "Database error")
	}
	first, last, _ := strings.Cut(name, " ")
	user = &models.User{
		Username:    username,
		Email:       email,
		FirstName:   first,
		LastName:    last,
		FirebaseUID: &uid,
	}
	if err := h.userRepository.CreateUser(ctx, user); err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "Failed to create user")
	}
	return user, nil
}

func (h *AuthHandler) availableUsername(ctx context.Context, email string) (string, error) {
	base, _, _ := strings.Cut(email, "@")
	if base == "" {
		base = "user"
	}
	candidate := base
	for i := 0; i < 5; i++ {
		taken, err := h.userRepository.UsernameExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = base + "-" + uuid.NewString()[:8]
	}
	return candidate, nil
}

// startSession issues a token pair, sets the refresh and CSRF cookies and
// returns the access token with the user.
func (h *AuthHandler) startSession(c echo.Context, user *models.User) error {
	pair, err := h.tokens.IssuePair(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    pair.Refresh,
		Path:     "/",
		Expires:  pair.RefreshExpiresAt,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	c.SetCookie(&http.Cookie{
		Name:     middleware.CSRFCookieName,
		Value:    random.String(32),
		Path:     "/",
		Expires:  pair.RefreshExpiresAt,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	return c.JSON(http.StatusOK, echo.Map{"access": pair.Access, "user": user.ToCompact()})
}

func (h *AuthHandler) clearCookie(c echo.Context, name string, httpOnly bool) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: httpOnly,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
