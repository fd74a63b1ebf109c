package services

import (
	"os"
	"testing"

	"garage-backend/utils"

	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	utils.PasswordCost = bcrypt.MinCost
	os.Exit(m.Run())
}

var (
	adminIdentity    = &utils.Identity{UserName: "admin", Role: utils.RoleAdmin}
	mechanicIdentity = &utils.Identity{UserName: "mike", Role: utils.RoleMechanic}
)
