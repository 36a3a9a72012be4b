package license

import "math/big"

// Kind identifies the usage class granted by a license. The values mirror the
// original contract constants.
type Kind uint8

const (
	KindFilm        Kind = 1
	KindTV          Kind = 2
	KindStreaming   Kind = 3
	KindAdvertising Kind = 4
)

// Valid reports whether the kind is one of the published usage classes.
// Issuance does not enforce it; the helper exists for callers that want to.
func (k Kind) Valid() bool {
	switch k {
	case KindFilm, KindTV, KindStreaming, KindAdvertising:
		return true
	default:
		return false
	}
}

// Status is the persisted lifecycle state of a license. StatusExpired is a
// derived, query-time view and is never stored; the gap in the numbering is
// inherited from the original contract.
type Status uint8

const (
	StatusActive  Status = 1
	StatusExpired Status = 2
	StatusRevoked Status = 3
)

// License is a time-bounded usage grant over a composition. Ids are assigned
// from a persisted counter starting at 1 and are never reused, revoked or not.
type License struct {
	ID            uint64
	CompositionID uint64
	Licensee      [20]byte
	Kind          Kind
	StartHeight   uint64
	EndHeight     uint64
	Status        Status
	FeePaid       *big.Int
}

// Clone returns a deep copy of the license.
func (l *License) Clone() *License {
	if l == nil {
		return nil
	}
	clone := *l
	if l.FeePaid != nil {
		clone.FeePaid = new(big.Int).Set(l.FeePaid)
	} else {
		clone.FeePaid = big.NewInt(0)
	}
	return &clone
}
