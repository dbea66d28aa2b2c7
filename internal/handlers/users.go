package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"plantswap-server/internal/middleware"
	"plantswap-server/internal/models"
	"plantswap-server/internal/utils"
)

// UserHandler handles user-related requests.
type UserHandler struct {
	DB *gorm.DB
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{DB: db}
}

// CreateUserRequest represents the request body for signup.
type CreateUserRequest struct {
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=8,max=40"`
	FullName *string `json:"fullName"`
}

// CreateUser handles public signup.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var existingUser models.User
	if err := h.DB.Where("email = ?", req.Email).First(&existingUser).Error; err == nil {
		utils.BadRequest(c, "The user with this email already exists in the system.")
		return
	} else if err != gorm.ErrRecordNotFound {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	user := models.User{
		Email:    req.Email,
		IsActive: true,
		FullName: req.FullName,
	}
	if err := user.SetPassword(req.Password); err != nil {
		utils.InternalServerError(c, "Failed to hash password: "+err.Error())
		return
	}

	if err := h.DB.Create(&user).Error; err != nil {
		// The unique index on email backs up the lookup above.
		if err == gorm.ErrDuplicatedKey {
			utils.BadRequest(c, "The user with this email already exists in the system.")
			return
		}
		utils.InternalServerError(c, "Failed to create user: "+err.Error())
		return
	}

	utils.Created(c, "User created successfully", user.Sanitize())
}

// GetUsers handles listing all users (superuser only).
func (h *UserHandler) GetUsers(c *gin.Context) {
	caller, ok := middleware.GetCurrentUser(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	if !caller.IsSuperuser {
		utils.Unauthorized(c, "Only a superuser can list users.")
		return
	}

	skip, limit := paginationParams(c)

	var users []models.User
	if err := h.DB.Order("created_at ASC").Offset(skip).Limit(limit).Find(&users).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch users: "+err.Error())
		return
	}

	sanitizedUsers := make([]models.UserSanitized, len(users))
	for i, u := range users {
		sanitizedUsers[i] = u.Sanitize()
	}

	utils.Success(c, "Users fetched successfully", ListResponse{
		Data:  sanitizedUsers,
		Count: len(sanitizedUsers),
	})
}

// DeleteUser handles deleting a user. Users may delete themselves; a
// superuser may delete anyone. The store cascades the deletion through
// the user's plants to every trade request and message touching them.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	caller, ok := middleware.GetCurrentUser(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	userID := c.Param("id")
	if !caller.IsSuperuser && caller.ID != userID {
		utils.Unauthorized(c, "You can only delete your own user.")
		return
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "No user with the given id exists.")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if err := h.DB.Delete(&user).Error; err != nil {
		utils.InternalServerError(c, "Failed to delete user: "+err.Error())
		return
	}

	utils.Success(c, "User deleted successfully", user.Sanitize())
}
