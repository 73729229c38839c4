package user

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrManagerRequired    = errors.New("manager or owner role required")
	ErrCompanyScopeDenied = errors.New("target is outside the caller's company")
)
