package handler

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nischalsh/todo-service/internal/domain"
	"github.com/nischalsh/todo-service/internal/dto"
	"github.com/nischalsh/todo-service/internal/service"
)

// AuthHandler handles account and session requests
type AuthHandler struct {
	authService  service.AuthService
	cookieMaxAge int
	cookieSecure bool
}

// NewAuthHandler creates a new auth handler. cookieMaxAge is the refresh
// token lifetime in seconds; cookieSecure should be true in production.
func NewAuthHandler(authService service.AuthService, cookieMaxAge int, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		cookieMaxAge: cookieMaxAge,
		cookieSecure: cookieSecure,
	}
}

// Register handles user registration from a multipart form carrying the
// avatar image
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		respond(c, http.StatusBadRequest, "Profile image is required", nil)
		return
	}

	upload, file, err := openUpload(fileHeader)
	if err != nil {
		respond(c, http.StatusBadRequest, "Failed to read profile image", nil)
		return
	}
	defer file.Close()

	user, err := h.authService.Register(c.Request.Context(), &req, upload)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, "User registered successfully", user)
}

// Login handles user login and sets the auth cookies
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setAuthCookies(c, result.Tokens)

	respond(c, http.StatusOK, "User logged in successfully", dto.LoginData{
		User:         result.User,
		AccessToken:  result.Tokens.AccessToken,
		RefreshToken: result.Tokens.RefreshToken,
	})
}

// Logout clears the stored refresh token and both cookies
func (h *AuthHandler) Logout(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		abortUnauthorized(c, "User not found in request")
		return
	}

	if err := h.authService.Logout(c.Request.Context(), user.ID); err != nil {
		respondError(c, err)
		return
	}

	h.clearAuthCookies(c)

	respond(c, http.StatusOK, "User logged out successfully", nil)
}

// Refresh rotates the refresh token taken from the cookie or the body.
// Every failure surfaces as 401 so stale clients fall back to login.
func (h *AuthHandler) Refresh(c *gin.Context) {
	token, _ := c.Cookie("refreshToken")
	if token == "" {
		var req dto.RefreshRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			token = req.RefreshToken
		}
	}

	if token == "" {
		respond(c, http.StatusUnauthorized, "Refresh token is required", nil)
		return
	}

	pair, err := h.authService.Refresh(c.Request.Context(), token)
	if err != nil {
		respond(c, http.StatusUnauthorized, err.Error(), nil)
		return
	}

	h.setAuthCookies(c, *pair)

	respond(c, http.StatusOK, "Access token refreshed successfully", dto.TokenData{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// GoogleLogin handles the Google authorization-code flow
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req dto.GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, "Authorization code not provided", nil)
		return
	}

	result, err := h.authService.GoogleLogin(c.Request.Context(), req.Code)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setAuthCookies(c, result.Tokens)

	respond(c, http.StatusCreated, "Login successful via Google", dto.LoginData{
		User:        result.User,
		AccessToken: result.Tokens.AccessToken,
	})
}

// Profile returns the authenticated user
func (h *AuthHandler) Profile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		abortUnauthorized(c, "User not found in request")
		return
	}

	respond(c, http.StatusOK, "User profile fetched", user)
}

// ChangePassword verifies and replaces the user's password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		abortUnauthorized(c, "User not found in request")
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), user.ID, &req); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Password changed successfully", nil)
}

// UpdateAccount edits fullname and email
func (h *AuthHandler) UpdateAccount(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		abortUnauthorized(c, "User not found in request")
		return
	}

	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	updated, err := h.authService.UpdateAccount(c.Request.Context(), user.ID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Account updated successfully", updated)
}

// UpdateAvatar replaces the user's avatar image
func (h *AuthHandler) UpdateAvatar(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		abortUnauthorized(c, "User not found in request")
		return
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		respond(c, http.StatusBadRequest, "Avatar image is required", nil)
		return
	}

	upload, file, err := openUpload(fileHeader)
	if err != nil {
		respond(c, http.StatusBadRequest, "Failed to read avatar image", nil)
		return
	}
	defer file.Close()

	updated, err := h.authService.UpdateAvatar(c.Request.Context(), user.ID, upload)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Avatar updated successfully", updated)
}

// DeleteAccount removes the user and clears the session cookies
func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		abortUnauthorized(c, "User not found in request")
		return
	}

	if err := h.authService.DeleteAccount(c.Request.Context(), user.ID); err != nil {
		respondError(c, err)
		return
	}

	h.clearAuthCookies(c)

	respond(c, http.StatusOK, "Account deleted successfully", nil)
}

func (h *AuthHandler) setAuthCookies(c *gin.Context, pair domain.TokenPair) {
	c.SetCookie("accessToken", pair.AccessToken, h.cookieMaxAge, "/", "", h.cookieSecure, true)
	c.SetCookie("refreshToken", pair.RefreshToken, h.cookieMaxAge, "/", "", h.cookieSecure, true)
}

func (h *AuthHandler) clearAuthCookies(c *gin.Context) {
	c.SetCookie("accessToken", "", -1, "/", "", h.cookieSecure, true)
	c.SetCookie("refreshToken", "", -1, "/", "", h.cookieSecure, true)
}

func openUpload(fileHeader *multipart.FileHeader) (*service.AvatarUpload, multipart.File, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, nil, err
	}

	upload := &service.AvatarUpload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Reader:      file,
	}

	return upload, file, nil
}
