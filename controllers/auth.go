package controllers

import (
	"net/http"
	"time"

	"garage-backend/models"
	"garage-backend/services"
	"garage-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type RegisterInput struct {
	UserName string     `json:"user_name" binding:"required"`
	Password string     `json:"password" binding:"required"`
	Role     utils.Role `json:"role" binding:"required,oneof=admin mechanic customer"`
	OwnerID  *uuid.UUID `json:"owner_id"`
}

type LoginInput struct {
	UserName string `json:"user_name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateMeInput struct {
	UserName        *string `json:"user_name"`
	Password        *string `json:"password"`
	CurrentPassword string  `json:"current_password"`
}

// AuthController issues and clears session cookies and serves the caller's
// own account.
type AuthController struct {
	db           *gorm.DB
	users        *services.UserService
	secureCookie bool
}

func NewAuthController(db *gorm.DB, secureCookie bool) *AuthController {
	return &AuthController{
		db:           db,
		users:        services.NewUserService(db),
		secureCookie: secureCookie,
	}
}

func userResponse(user *models.User) gin.H {
	return gin.H{
		"id":        user.ID,
		"user_name": user.UserName,
		"role":      user.Role,
		"owner_id":  user.OwnerID,
	}
}

// Register creates a credential. Admin only.
func (ac *AuthController) Register(c *gin.Context) {
	var input RegisterInput
	if !bindJSON(c, &input) {
		return
	}

	user, err := ac.users.Register(c.Request.Context(), services.NewUser{
		UserName: input.UserName,
		Password: input.Password,
		Role:     input.Role,
		OwnerID:  input.OwnerID,
	})
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful",
		"user":    userResponse(user),
	})
}

func (ac *AuthController) Login(c *gin.Context) {
	var input LoginInput
	if !bindJSON(c, &input) {
		return
	}

	user, err := ac.users.Authenticate(c.Request.Context(), input.UserName, input.Password)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	token, err := utils.GenerateToken(user.Identity())
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	// Update last login
	now := time.Now()
	if err := ac.db.WithContext(c.Request.Context()).Model(user).Update("last_login", &now).Error; err != nil {
		log.WithField("user_id", user.ID).WithError(err).Warn("Failed to record last login")
	}

	ac.setSession(c, token)

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    userResponse(user),
	})
}

func (ac *AuthController) setSession(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		utils.TokenCookie,
		token,
		int(utils.TokenTTL().Seconds()),
		"/",
		"",
		ac.secureCookie,
		true,
	)
}

func (ac *AuthController) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(utils.TokenCookie, "", -1, "/", "", ac.secureCookie, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (ac *AuthController) Me(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	user, err := ac.users.Get(c.Request.Context(), identity.UserID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userResponse(user)})
}

// UpdateMe lets any user change their own name or password. Changing the
// password requires the current one.
func (ac *AuthController) UpdateMe(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	var input UpdateMeInput
	if !bindJSON(c, &input) {
		return
	}

	if input.Password != nil {
		user, err := ac.users.Get(c.Request.Context(), identity.UserID)
		if err != nil {
			utils.HandleError(c, err)
			return
		}
		if !utils.CheckPasswordHash(input.CurrentPassword, user.Password) {
			utils.RespondWithError(c, http.StatusUnauthorized, "Current password is incorrect")
			return
		}
	}

	user, err := ac.users.Update(c.Request.Context(), identity.UserID, services.UserChanges{
		UserName: input.UserName,
		Password: input.Password,
	})
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	response := gin.H{
		"message": "Profile updated successfully",
		"user":    userResponse(user),
	}
	// The session token carries the user name; replace it after a rename.
	if user.UserName != identity.UserName {
		token, err := utils.GenerateToken(user.Identity())
		if err != nil {
			utils.HandleError(c, err)
			return
		}
		ac.setSession(c, token)
		response["token"] = token
	}
	c.JSON(http.StatusOK, response)
}
