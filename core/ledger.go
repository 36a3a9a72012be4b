package core

import (
	"errors"
	"math/big"
	"sync"

	"rightschain/core/events"
	"rightschain/core/state"
	"rightschain/native/license"
	"rightschain/native/registry"
	"rightschain/native/royalty"
	"rightschain/observability/metrics"
	"rightschain/storage"
)

var errNilHeights = errors.New("core: height source not configured")

// Ledger is the single execution context for the rights state machines. It
// owns the state manager, the three engines and one mutex; each operation
// runs to completion under the lock, so callers observe the strictly
// sequential, all-or-nothing semantics the engines assume.
type Ledger struct {
	mu sync.Mutex

	manager  *state.Manager
	heights  HeightSource
	registry *registry.Engine
	royalty  *royalty.Engine
	licenses *license.Engine
	metrics  *metrics.RightsMetrics
}

// NewLedger wires the engines over the supplied database. The admin cell is
// seeded with genesisAdmin only when the database has never held one, so a
// transferred admin survives reopen.
func NewLedger(db storage.Database, genesisAdmin [20]byte, heights HeightSource, emitter events.Emitter) (*Ledger, error) {
	if heights == nil {
		return nil, errNilHeights
	}
	manager := state.NewManager(db)
	if _, ok, err := manager.AdminGet(); err != nil {
		return nil, err
	} else if !ok {
		if err := manager.AdminSet(genesisAdmin); err != nil {
			return nil, err
		}
	}

	heightFn := heights.Height

	registryEngine := registry.NewEngine()
	registryEngine.SetState(manager)
	registryEngine.SetEmitter(emitter)
	registryEngine.SetHeightFunc(heightFn)

	royaltyEngine := royalty.NewEngine()
	royaltyEngine.SetState(manager)
	royaltyEngine.SetEmitter(emitter)
	royaltyEngine.SetHeightFunc(heightFn)

	licenseEngine := license.NewEngine()
	licenseEngine.SetState(manager)
	licenseEngine.SetEmitter(emitter)
	licenseEngine.SetHeightFunc(heightFn)

	return &Ledger{
		manager:  manager,
		heights:  heights,
		registry: registryEngine,
		royalty:  royaltyEngine,
		licenses: licenseEngine,
		metrics:  metrics.Rights(),
	}, nil
}

// Height reports the current externally supplied block height.
func (l *Ledger) Height() uint64 {
	return l.heights.Height()
}

func (l *Ledger) observe(op string, err error) {
	l.metrics.ObserveOperation(op, err)
	l.metrics.SetHeight(l.heights.Height())
}

// --- Composer registry ---

// Admin returns the current registry admin.
func (l *Ledger) Admin() ([20]byte, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.registry.Admin()
}

// VerifyComposer records composer as verified at the current height. Admin only.
func (l *Ledger) VerifyComposer(caller, composer [20]byte, name string) (*registry.ComposerRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	record, err := l.registry.VerifyComposer(caller, composer, name)
	l.observe("verifyComposer", err)
	return record, err
}

// IsVerified reports the stored verification flag; unknown principals are
// unverified.
func (l *Ledger) IsVerified(composer [20]byte) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.registry.IsVerified(composer)
}

// ComposerDetails returns the stored record, if any.
func (l *Ledger) ComposerDetails(composer [20]byte) (*registry.ComposerRecord, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.registry.ComposerDetails(composer)
}

// TransferAdmin atomically replaces the admin. Admin only.
func (l *Ledger) TransferAdmin(caller, newAdmin [20]byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	err := l.registry.TransferAdmin(caller, newAdmin)
	l.observe("transferAdmin", err)
	return err
}

// --- Royalty ledger ---

// RecordRoyaltyPayment creates or overwrites the pending payment at the
// composite key. Any caller may record; last write wins until distribution.
func (l *Ledger) RecordRoyaltyPayment(caller [20]byte, compositionID, period uint64, amount *big.Int) (*royalty.Payment, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	payment, err := l.royalty.RecordPayment(caller, compositionID, period, amount)
	l.observe("recordRoyaltyPayment", err)
	return payment, err
}

// DistributeRoyalties settles the pending payment into the composer account
// for the period. Exactly-once per payment key.
func (l *Ledger) DistributeRoyalties(caller [20]byte, compositionID, period uint64, composer [20]byte) (*royalty.ComposerAccount, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	account, err := l.royalty.Distribute(caller, compositionID, period, composer)
	l.observe("distributeRoyalties", err)
	return account, err
}

// RoyaltyPayment returns the stored payment, if any.
func (l *Ledger) RoyaltyPayment(compositionID, period uint64) (*royalty.Payment, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.royalty.Payment(compositionID, period)
}

// ComposerRoyalties returns the accumulator for (composer, period), if any.
func (l *Ledger) ComposerRoyalties(composer [20]byte, period uint64) (*royalty.ComposerAccount, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.royalty.ComposerAccount(composer, period)
}

// --- Usage licenses ---

// IssueLicense assigns the next license id to the caller.
func (l *Ledger) IssueLicense(caller [20]byte, compositionID uint64, kind license.Kind, startHeight, endHeight uint64, fee *big.Int) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	id, err := l.licenses.Issue(caller, compositionID, kind, startHeight, endHeight, fee)
	l.observe("issueLicense", err)
	if err == nil {
		l.metrics.LicenseIssued()
	}
	return id, err
}

// RevokeLicense marks the license revoked; the transition is terminal.
func (l *Ledger) RevokeLicense(caller [20]byte, id uint64) (*license.License, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	grant, err := l.licenses.Revoke(caller, id)
	l.observe("revokeLicense", err)
	return grant, err
}

// IsLicenseValid reports whether the license grants rights at the current
// height.
func (l *Ledger) IsLicenseValid(id uint64) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.licenses.Valid(id)
}

// LicenseDetails returns the stored license, if any.
func (l *Ledger) LicenseDetails(id uint64) (*license.License, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.licenses.Details(id)
}
