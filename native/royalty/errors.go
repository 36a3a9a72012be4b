package royalty

import "errors"

var (
	// ErrNilState indicates the engine was used before a state backend was
	// configured.
	ErrNilState = errors.New("royalty: state not configured")
	// ErrInvalidAmount rejects nil or negative payment amounts at the
	// boundary; the ledger only tracks non-negative integral amounts.
	ErrInvalidAmount = errors.New("royalty: amount must be non-negative")
	// ErrPaymentNotFound indicates no payment exists for the composition and
	// period key.
	ErrPaymentNotFound = errors.New("royalty: payment not found")
	// ErrAlreadyDistributed indicates the payment's single-use distribution
	// gate is already closed.
	ErrAlreadyDistributed = errors.New("royalty: payment already distributed")
)
