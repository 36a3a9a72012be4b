package events

import "math/big"

const (
	// TypeComposerVerified is emitted when the admin verifies (or
	// re-verifies) a composer identity.
	TypeComposerVerified = "registry.composer.verified"
	// TypeAdminTransferred is emitted when the privileged registry identity
	// changes hands.
	TypeAdminTransferred = "registry.admin.transferred"
	// TypeRoyaltyRecorded is emitted when a payment is recorded or
	// re-recorded for a composition and period.
	TypeRoyaltyRecorded = "royalty.payment.recorded"
	// TypeRoyaltyDistributed is emitted when a pending payment is folded
	// into a composer account.
	TypeRoyaltyDistributed = "royalty.payment.distributed"
	// TypeLicenseIssued is emitted for every newly assigned license id.
	TypeLicenseIssued = "license.issued"
	// TypeLicenseRevoked is emitted when an active license is revoked.
	TypeLicenseRevoked = "license.revoked"
)

// ComposerVerified captures a successful composer verification.
type ComposerVerified struct {
	Composer [20]byte
	Name     string
	Height   uint64
}

func (ComposerVerified) EventType() string { return TypeComposerVerified }

// AdminTransferred captures an admin handover.
type AdminTransferred struct {
	Previous [20]byte
	Next     [20]byte
}

func (AdminTransferred) EventType() string { return TypeAdminTransferred }

// RoyaltyRecorded captures a recorded (pending) royalty payment.
type RoyaltyRecorded struct {
	CompositionID uint64
	Period        uint64
	Amount        *big.Int
}

func (RoyaltyRecorded) EventType() string { return TypeRoyaltyRecorded }

// RoyaltyDistributed captures the settlement of one payment key into a
// composer account.
type RoyaltyDistributed struct {
	CompositionID uint64
	Period        uint64
	Composer      [20]byte
	Amount        *big.Int
	Total         *big.Int
	Height        uint64
}

func (RoyaltyDistributed) EventType() string { return TypeRoyaltyDistributed }

// LicenseIssued captures a freshly issued usage license.
type LicenseIssued struct {
	LicenseID     uint64
	CompositionID uint64
	Licensee      [20]byte
	StartHeight   uint64
	EndHeight     uint64
}

func (LicenseIssued) EventType() string { return TypeLicenseIssued }

// LicenseRevoked captures a license revocation.
type LicenseRevoked struct {
	LicenseID uint64
}

func (LicenseRevoked) EventType() string { return TypeLicenseRevoked }
