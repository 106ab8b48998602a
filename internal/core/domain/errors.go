package domain

import "errors"

var (
	ErrDocumentNotFound  = errors.New("document not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrPromotionNotFound = errors.New("promotion not found")
	ErrInvalidPromotion  = errors.New("invalid promotion")
	ErrInvalidProduct    = errors.New("invalid product")
	ErrForbidden         = errors.New("access forbidden")
)

// Authentication and account errors.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrWrongPassword   = errors.New("wrong password")
	ErrInvalidEmail    = errors.New("invalid email")
	ErrTooManyRequests = errors.New("too many attempts")
	ErrEmailInUse      = errors.New("email already in use")
	ErrWeakPassword    = errors.New("weak password")
	ErrInvalidName     = errors.New("invalid display name")
	ErrInvalidRole     = errors.New("invalid role")
)

// AuthMessage maps an authentication failure to the message shown inline on
// the login and registration forms. Unknown errors collapse to a generic one.
func AuthMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUserNotFound):
		return "User not found"
	case errors.Is(err, ErrWrongPassword):
		return "Incorrect password"
	case errors.Is(err, ErrInvalidEmail):
		return "Invalid email"
	case errors.Is(err, ErrTooManyRequests):
		return "Too many attempts. Try again later"
	case errors.Is(err, ErrEmailInUse):
		return "This email is already in use"
	case errors.Is(err, ErrWeakPassword):
		return "Password must be at least 6 characters"
	case errors.Is(err, ErrInvalidName):
		return "Name is required"
	default:
		return "Authentication failed"
	}
}
