package handler

import (
	"errors"

	"main/dto"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

func LoginHandler(c *gin.Context, usersService *usecase.UsersService) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request")
		return
	}

	user, token, err := usersService.Login(
		c.Request.Context(),
		req.Username,
		req.Password,
		c.GetHeader("User-Agent"),
		c.ClientIP(),
	)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			utils.Unauthorized(c, "Invalid username or password")
			return
		}
		utils.InternalError(c, "Login failed")
		return
	}

	utils.Success(c, dto.AuthResponse{
		UserID: user.UserID,
		Token:  token,
	})
}
