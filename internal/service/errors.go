package service

import "errors"

var (
	ErrNotFound                = errors.New("record not found")
	ErrEmailExists             = errors.New("user with this email already exists")
	ErrInvalidEmail            = errors.New("invalid email address")
	ErrPasswordTooShort        = errors.New("password too short")
	ErrInvalidCredentials      = errors.New("invalid email or password")
	ErrInvalidToken            = errors.New("invalid token")
	ErrInsufficientStock       = errors.New("insufficient stock")
	ErrInvalidStatus           = errors.New("invalid order status")
	ErrInvalidStatusTransition = errors.New("invalid order status transition")
	ErrOrderNotCancellable     = errors.New("order can no longer be cancelled")
	ErrEmptyOrder              = errors.New("order has no items")
)
