package domain

import "errors"

// Validation
var (
	ErrMissingFields      = errors.New("all fields are required")
	ErrMissingCredentials = errors.New("email and password are required")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters long")
	ErrInvalidEmail       = errors.New("email is not valid")
	ErrInvalidRating      = errors.New("rating must be a number between 0 and 5")
	ErrInvalidImage       = errors.New("image must be a base64 encoded picture")
)

// Conflict
var (
	ErrEmailTaken    = errors.New("email already exists")
	ErrUsernameTaken = errors.New("username already exists")
	ErrUserExists    = errors.New("username and email already exist")
)

// Unauthenticated
var (
	ErrNoToken            = errors.New("no authentication token, access denied")
	ErrInvalidToken       = errors.New("token is not valid, access denied")
	ErrStaleToken         = errors.New("token user no longer exists, access denied")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

var (
	ErrForbidden    = errors.New("not allowed to modify this book")
	ErrBookNotFound = errors.New("book not found")
	ErrUserNotFound = errors.New("user not found")
	ErrBlobStorage  = errors.New("image storage failed")
)
