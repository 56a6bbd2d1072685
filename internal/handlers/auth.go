package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vanshsoni916/VideoTweetApp/internal/auth"
	"github.com/vanshsoni916/VideoTweetApp/internal/logging"
	"github.com/vanshsoni916/VideoTweetApp/internal/media"
	"github.com/vanshsoni916/VideoTweetApp/internal/models"
	"github.com/vanshsoni916/VideoTweetApp/internal/repositories"
)

// AuthHandler implements account registration and session endpoints.
type AuthHandler struct {
	Users    UserStore
	Sessions SessionManager
	Media    MediaStore
	TempDir  string
	Limiter  RateLimiter
	NowFunc  func() time.Time
}

// Register handles POST /api/v1/auth/register. The request is multipart:
// credential fields plus a required avatar image and an optional cover image.
func (h AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if !allowRequest(h.Limiter, r, "register") {
		respondJSON(ctx, w, http.StatusTooManyRequests, map[string]string{"error": "too many attempts, slow down"})
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		logger.Warn("invalid register payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "multipart form required"})
		return
	}

	username := strings.ToLower(strings.TrimSpace(r.FormValue("username")))
	email := strings.ToLower(strings.TrimSpace(r.FormValue("email")))
	displayName := strings.TrimSpace(r.FormValue("displayName"))
	password := r.FormValue("password")

	if username == "" || email == "" || displayName == "" || password == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "username, email, displayName, and password are required"})
		return
	}
	if _, err := mail.ParseAddress(email); err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid email address"})
		return
	}
	if len(password) < 8 {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "password must be at least 8 characters"})
		return
	}

	if _, err := h.Users.FindUserByUsername(ctx, username); err == nil {
		respondJSON(ctx, w, http.StatusConflict, map[string]string{"error": "username already taken"})
		return
	} else if !errors.Is(err, repositories.ErrNotFound) {
		logger.Error("register username lookup failed", "error", err, "username", username)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "unable to verify existing accounts"})
		return
	}
	if _, err := h.Users.FindUserByEmail(ctx, email); err == nil {
		respondJSON(ctx, w, http.StatusConflict, map[string]string{"error": "account already exists"})
		return
	} else if !errors.Is(err, repositories.ErrNotFound) {
		logger.Error("register email lookup failed", "error", err, "email", email)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "unable to verify existing accounts"})
		return
	}

	avatarPath, err := stageUpload(r, "avatar", h.TempDir)
	if err != nil {
		logger.Warn("register missing avatar", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "avatar image is required"})
		return
	}
	avatar, err := h.Media.Upload(ctx, avatarPath, media.CategoryAvatars)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	var cover *models.MediaAsset
	if coverPath, err := stageUpload(r, "coverImage", h.TempDir); err == nil {
		uploaded, err := h.Media.Upload(ctx, coverPath, media.CategoryCovers)
		if err != nil {
			h.releaseQuietly(r, avatar.PublicID)
			respondError(ctx, w, err)
			return
		}
		cover = &uploaded
	}

	releaseUploads := func() {
		h.releaseQuietly(r, avatar.PublicID)
		if cover != nil {
			h.releaseQuietly(r, cover.PublicID)
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		releaseUploads()
		logger.Error("register failed to hash password", "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to secure password"})
		return
	}

	now := h.now()
	user := models.User{
		ID:          uuid.NewString(),
		Username:    username,
		Email:       email,
		DisplayName: displayName,
		Avatar:      avatar,
		CoverImage:  cover,
		Password:    string(hashed),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.Users.CreateUser(ctx, user); err != nil {
		releaseUploads()
		if errors.Is(err, repositories.ErrConflict) {
			respondJSON(ctx, w, http.StatusConflict, map[string]string{"error": "account already exists"})
			return
		}
		logger.Error("register failed to create user", "error", err, "username", username)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to create account"})
		return
	}

	tokens, err := h.Sessions.Issue(ctx, user.ID)
	if err != nil {
		logger.Error("register failed to issue session", "error", err, "userId", user.ID)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to create session"})
		return
	}

	respondJSON(ctx, w, http.StatusCreated, authResponse{User: publicUser(user), Tokens: tokens})
}

func (h AuthHandler) releaseQuietly(r *http.Request, publicID string) {
	if publicID == "" {
		return
	}
	if err := h.Media.Release(r.Context(), publicID, "image"); err != nil {
		logging.FromContext(r.Context()).Warn("release orphaned asset", "publicId", publicID, "error", err)
	}
}

// Login handles POST /api/v1/auth/login. Callers may identify themselves by
// username or email.
func (h AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if !allowRequest(h.Limiter, r, "login") {
		respondJSON(ctx, w, http.StatusTooManyRequests, map[string]string{"error": "too many attempts, slow down"})
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid login payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	identifier := strings.ToLower(strings.TrimSpace(req.Identifier))
	if identifier == "" || req.Password == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "username or email and password are required"})
		return
	}

	user, err := h.Users.FindUserByUsername(ctx, identifier)
	if errors.Is(err, repositories.ErrNotFound) {
		user, err = h.Users.FindUserByEmail(ctx, identifier)
	}
	if err != nil {
		logger.Warn("login user lookup failed", "identifier", identifier, "error", err)
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		logger.Warn("login password mismatch", "userId", user.ID)
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}

	tokens, err := h.Sessions.Issue(ctx, user.ID)
	if err != nil {
		logger.Error("failed to issue session", "error", err, "userId", user.ID)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to create session"})
		return
	}

	respondJSON(ctx, w, http.StatusOK, authResponse{User: publicUser(user), Tokens: tokens})
}

// Logout handles POST /api/v1/auth/logout. The access token and any refresh
// token supplied in the body are both revoked.
func (h AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, err := requireUser(r, h.Sessions); err != nil {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	var req refreshRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	h.Sessions.Revoke(ctx, bearerToken(r))
	if token := strings.TrimSpace(req.RefreshToken); token != "" {
		h.Sessions.Revoke(ctx, token)
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{"status": "logged out"})
}

// Refresh handles POST /api/v1/auth/refresh, exchanging a refresh token for
// a new session pair.
func (h AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid refresh payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	req.RefreshToken = strings.TrimSpace(req.RefreshToken)
	if req.RefreshToken == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "refresh token is required"})
		return
	}

	tokens, err := h.Sessions.Refresh(ctx, req.RefreshToken)
	if err != nil {
		status := http.StatusUnauthorized
		if !errors.Is(err, auth.ErrTokenExpired) && !errors.Is(err, auth.ErrSessionNotFound) {
			status = http.StatusInternalServerError
		}
		logger.Warn("refresh failed", "error", err, "status", status)
		respondJSON(ctx, w, status, map[string]string{"error": "unable to refresh session"})
		return
	}

	respondJSON(ctx, w, http.StatusOK, authResponse{Tokens: tokens})
}

// ChangePassword handles POST /api/v1/auth/change-password. Every existing
// session is revoked so stolen tokens die with the old password.
func (h AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	userID, err := requireUser(r, h.Sessions)
	if err != nil {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "old and new passwords are required"})
		return
	}
	if len(req.NewPassword) < 8 {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "password must be at least 8 characters"})
		return
	}

	user, err := h.Users.FindUserByID(ctx, userID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("change password failed to hash", "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to secure password"})
		return
	}

	user.Password = string(hashed)
	user.UpdatedAt = h.now()
	if err := h.Users.UpdateUser(ctx, user); err != nil {
		respondError(ctx, w, err)
		return
	}

	if err := h.Sessions.RevokeAll(ctx, userID); err != nil {
		logger.Warn("change password failed to revoke sessions", "userId", userID, "error", err)
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{"status": "password changed"})
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type authResponse struct {
	User   *userResponse        `json:"user,omitempty"`
	Tokens models.SessionTokens `json:"tokens"`
}

type userResponse struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Avatar      string `json:"avatar"`
	CoverImage  string `json:"coverImage,omitempty"`
}

func publicUser(user models.User) *userResponse {
	resp := &userResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Avatar:      user.Avatar.URL,
	}
	if user.CoverImage != nil {
		resp.CoverImage = user.CoverImage.URL
	}
	return resp
}

func (h AuthHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
