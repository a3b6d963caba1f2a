package usecase

import (
	"context"
	"errors"

	"main/model"
	"main/repository"
	"main/services"
	"main/utils"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

type UsersService struct {
	UsersRepo    *repository.UsersRepo
	SessionsRepo *repository.SessionsRepo
}

func (svc *UsersService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	hashed, err := services.HashPassword(password)
	if err != nil {
		utils.TrackAuthAttempt("failure", "register")
		return nil, err
	}

	user := &model.User{
		UserID:   utils.GenerateID(),
		Username: username,
		Email:    email,
		Password: hashed,
	}

	if err := svc.UsersRepo.AddUser(ctx, user); err != nil {
		utils.TrackAuthAttempt("failure", "register")
		return nil, err
	}

	utils.TrackAuthAttempt("success", "register")
	return user, nil
}

// Login verifies the credentials and records a login session with the
// caller's device info. A wrong username and a wrong password produce
// the same error.
func (svc *UsersService) Login(ctx context.Context, username, password, userAgent, ip string) (*model.User, string, error) {
	user, err := svc.UsersRepo.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		utils.TrackAuthAttempt("failure", "login")
		return nil, "", ErrInvalidCredentials
	}

	match, err := services.VerifyPassword(user.Password, password)
	if err != nil || !match {
		utils.TrackAuthAttempt("failure", "login")
		return nil, "", ErrInvalidCredentials
	}

	token, err := services.GenerateToken(user.UserID)
	if err != nil {
		return nil, "", err
	}

	if svc.SessionsRepo != nil {
		session := &model.Session{
			SessionID:  utils.GenerateID(),
			UserID:     user.UserID,
			DeviceInfo: utils.ParseDeviceInfo(userAgent),
			IPAddress:  ip,
		}
		if err := svc.SessionsRepo.CreateSession(ctx, session); err != nil {
			// Session bookkeeping must not block a valid login.
			utils.TrackError("auth", "session_record_failed")
		}
	}

	utils.TrackAuthAttempt("success", "login")
	return user, token, nil
}
