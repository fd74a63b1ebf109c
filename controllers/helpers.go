package controllers

import (
	"errors"
	"net/http"

	"garage-backend/services"
	"garage-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// parseID reads a uuid path parameter, answering 400 when it is malformed.
func parseID(c *gin.Context, param, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid "+label+" ID format")
		return uuid.Nil, false
	}
	return id, true
}

func currentIdentity(c *gin.Context) (*utils.Identity, bool) {
	identity, err := utils.CurrentIdentity(c)
	if err != nil {
		utils.HandleError(c, err)
		return nil, false
	}
	return identity, true
}

// currentUserName returns the caller's stored user name. A token keeps the name
// it was issued with, so a rename only shows up here.
func currentUserName(c *gin.Context, users *services.UserService, identity *utils.Identity) (string, bool) {
	user, err := users.Get(c.Request.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			utils.RespondWithError(c, http.StatusUnauthorized, "Account no longer exists")
		} else {
			utils.HandleError(c, err)
		}
		return "", false
	}
	return user.UserName, true
}

func bindJSON(c *gin.Context, input any) bool {
	if err := c.ShouldBindJSON(input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return false
	}
	return true
}
