package controllers

import (
	"net/http"

	"garage-backend/services"
	"garage-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UpdateUserInput defines the expected JSON structure for an admin user update
type UpdateUserInput struct {
	UserName *string     `json:"user_name"`
	Password *string     `json:"password"`
	Role     *utils.Role `json:"role" binding:"omitempty,oneof=admin mechanic customer"`
	OwnerID  *uuid.UUID  `json:"owner_id"`
}

// UserController is the admin-only account management surface.
type UserController struct {
	users *services.UserService
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{users: services.NewUserService(db)}
}

func (uc *UserController) GetUsers(c *gin.Context) {
	users, err := uc.users.List(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	response := make([]gin.H, 0, len(users))
	for i := range users {
		response = append(response, userResponse(&users[i]))
	}
	c.JSON(http.StatusOK, response)
}

func (uc *UserController) GetUser(c *gin.Context) {
	id, ok := parseID(c, "id", "user")
	if !ok {
		return
	}

	user, err := uc.users.Get(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, userResponse(user))
}

func (uc *UserController) UpdateUser(c *gin.Context) {
	id, ok := parseID(c, "id", "user")
	if !ok {
		return
	}

	var input UpdateUserInput
	if !bindJSON(c, &input) {
		return
	}

	user, err := uc.users.Update(c.Request.Context(), id, services.UserChanges{
		UserName: input.UserName,
		Password: input.Password,
		Role:     input.Role,
		OwnerID:  input.OwnerID,
	})
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, userResponse(user))
}

// DeleteUser removes an account. Admins cannot delete themselves.
func (uc *UserController) DeleteUser(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "user")
	if !ok {
		return
	}
	if id == identity.UserID {
		utils.RespondWithError(c, http.StatusBadRequest, "You cannot delete your own account")
		return
	}

	if err := uc.users.Delete(c.Request.Context(), id); err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
