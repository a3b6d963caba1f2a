package handler

import (
	"main/dto"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

func RegistrationHandler(c *gin.Context, usersService *usecase.UsersService) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request")
		return
	}

	user, err := usersService.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if err.Error() == "username already exists" {
			utils.Conflict(c, "Username already exists")
			return
		}
		utils.BadRequest(c, err.Error())
		return
	}

	utils.Created(c, dto.AuthResponse{UserID: user.UserID})
}
