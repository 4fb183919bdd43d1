package http

const (
	ErrInternal            = "internal error"
	ErrAuthRequired        = "authentication required"
	ErrInvalidToken        = "invalid or expired token"
	ErrInvalidCredentials  = "invalid credentials"
	ErrAccountLocked       = "account is temporarily locked"
	ErrAccountDeactivated  = "account is deactivated"
	ErrRefreshRequired     = "refresh token is required"
	ErrStorageUnavailable  = "service temporarily unavailable, retry later"
	ErrReservationNotFound = "reservation not found"
	ErrTaskNotFound        = "task not found"
	ErrUserNotFound        = "user not found"
	ErrLabNotFound         = "lab not found"
)
