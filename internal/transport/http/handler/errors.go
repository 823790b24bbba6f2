package handler

const (
	errInternalServer   = "Internal server error"
	errEmailRequired    = "Email is required"
	errPasswordRequired = "Password is required"
	errEmailTaken       = "Email already taken"
	errInvalidEmail     = "Invalid email address"
	errPasswordTooShort = "Password too short"
	errInvalidLogin     = "Invalid login"
	errInvalidURL       = "Invalid bookmark url"
	errNotFound         = "Not Found"
)
