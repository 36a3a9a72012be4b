package license

import "errors"

var (
	// ErrNilState indicates the engine was used before a state backend was
	// configured.
	ErrNilState = errors.New("license: state not configured")
	// ErrInvalidFee rejects nil or negative license fees at the boundary.
	ErrInvalidFee = errors.New("license: fee must be non-negative")
	// ErrLicenseNotFound indicates no license exists for the id.
	ErrLicenseNotFound = errors.New("license: license not found")
)
