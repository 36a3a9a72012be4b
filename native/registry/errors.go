package registry

import "errors"

var (
	// ErrNilState indicates the engine was used before a state backend was
	// configured.
	ErrNilState = errors.New("registry: state not configured")
	// ErrUnauthorized indicates the caller is not the current admin.
	ErrUnauthorized = errors.New("registry: caller is not the admin")
)
