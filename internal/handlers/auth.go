package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"plantswap-server/internal/config"
	"plantswap-server/internal/middleware"
	"plantswap-server/internal/models"
	"plantswap-server/internal/utils"
)

// AuthHandler handles authentication-related requests.
type AuthHandler struct {
	DB  *gorm.DB
	Cfg *config.Config
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{DB: db, Cfg: cfg}
}

// LoginResponse represents the response body for successful login. The
// token also travels as an HTTP-only cookie; it is included in the body
// for non-browser clients.
type LoginResponse struct {
	AccessToken string               `json:"accessToken"`
	User        models.UserSanitized `json:"user"`
}

// Login handles the credential exchange. The form field names follow
// the OAuth2 password flow: "username" carries the email.
func (h *AuthHandler) Login(c *gin.Context) {
	email := c.PostForm("username")
	password := c.PostForm("password")
	if email == "" || password == "" {
		utils.BadRequest(c, "Username and password are required")
		return
	}

	var user models.User
	if err := h.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			// Same message as a password mismatch; no hint which one it was.
			utils.BadRequest(c, "Incorrect email or password")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if !user.CheckPassword(password) {
		utils.BadRequest(c, "Incorrect email or password")
		return
	}

	if !user.IsActive {
		utils.BadRequest(c, "Inactive user")
		return
	}

	accessToken, err := utils.GenerateAccessToken(&user, h.Cfg)
	if err != nil {
		utils.InternalServerError(c, "Failed to generate token: "+err.Error())
		return
	}

	h.setAccessTokenCookie(c, accessToken, h.Cfg.AccessTokenExpireMinutes*60)

	utils.Success(c, "Login successful", LoginResponse{
		AccessToken: accessToken,
		User:        user.Sanitize(),
	})
}

// Logout clears the access-token cookie. The route sits behind the auth
// middleware, so calling it without a valid credential is a 401 rather
// than a silent no-op.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setAccessTokenCookie(c, "", -1)
	utils.Success(c, "Logout successful", nil)
}

// GetMe handles fetching the currently authenticated user's own record.
func (h *AuthHandler) GetMe(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	utils.Success(c, "User fetched successfully", user.Sanitize())
}

func (h *AuthHandler) setAccessTokenCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		middleware.AccessTokenCookieName, // Name
		value,                            // Value (empty to delete)
		maxAge,                           // Max age in seconds (negative to expire immediately)
		"/",                              // Path
		"",                               // Domain (empty means current domain)
		h.Cfg.Environment != "development", // Secure (true in prod, false in dev)
		true,                             // HTTP only
	)
}
