package domain

import "errors"

// Token verification failures. All of them collapse to 401 at the HTTP
// boundary; the distinction matters for logs and tests.
var (
	ErrTokenMalformed        = errors.New("token malformed")
	ErrTokenSignatureInvalid = errors.New("token signature invalid")
	ErrTokenExpired          = errors.New("token expired")
)

// Authentication and account errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("username already taken")
	ErrAdminExists        = errors.New("admin already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrLoginThrottled     = errors.New("too many failed login attempts")
)

// Employee record and assignment errors.
var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrDocumentNotFound = errors.New("document not found")
	ErrForbidden        = errors.New("access forbidden")
	ErrSelfManager      = errors.New("employee cannot be their own manager")
	ErrInvalidManager   = errors.New("manager must be an existing manager or admin")
	ErrInvalidUserID    = errors.New("invalid user id")
)
