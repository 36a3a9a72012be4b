package registry

// ComposerRecord is the on-ledger identity record for a composer principal.
// Records are created or overwritten exclusively through admin verification
// and are never deleted.
type ComposerRecord struct {
	Composer           [20]byte
	Name               string
	Verified           bool
	VerificationHeight uint64
}

// Clone returns a copy of the record so callers can safely mutate the copy
// without affecting the stored instance.
func (r *ComposerRecord) Clone() *ComposerRecord {
	if r == nil {
		return nil
	}
	clone := *r
	return &clone
}
