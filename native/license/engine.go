package license

import (
	"math/big"

	"rightschain/core/events"
)

type engineState interface {
	LicenseGet(id uint64) (*License, bool, error)
	LicensePut(license *License) error
	LicenseCounter() (uint64, error)
	SetLicenseCounter(next uint64) error
}

// Engine issues, revokes and validates usage licenses. Validity is a derived
// view over (status, end height, current height); expiry is never persisted
// because no call advances the clock.
type Engine struct {
	state    engineState
	emitter  events.Emitter
	heightFn func() uint64
}

// NewEngine constructs a license engine with default dependencies.
func NewEngine() *Engine {
	return &Engine{
		emitter:  events.NoopEmitter{},
		heightFn: func() uint64 { return 0 },
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetEmitter configures the event emitter used by the engine. Passing nil
// resets the emitter to a no-op implementation.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetHeightFunc overrides the block height source used for validity checks.
func (e *Engine) SetHeightFunc(height func() uint64) {
	if height == nil {
		e.heightFn = func() uint64 { return 0 }
		return
	}
	e.heightFn = height
}

func (e *Engine) emit(evt events.Event) {
	if e == nil || e.emitter == nil {
		return
	}
	e.emitter.Emit(evt)
}

// Issue assigns the next license id to the caller and stores the grant as
// active. The contract performs no window or fee-size validation beyond
// non-negativity; ids increase strictly by one and survive revocations.
func (e *Engine) Issue(caller [20]byte, compositionID uint64, kind Kind, startHeight, endHeight uint64, fee *big.Int) (uint64, error) {
	if e == nil || e.state == nil {
		return 0, ErrNilState
	}
	if fee == nil || fee.Sign() < 0 {
		return 0, ErrInvalidFee
	}
	id, err := e.state.LicenseCounter()
	if err != nil {
		return 0, err
	}
	grant := &License{
		ID:            id,
		CompositionID: compositionID,
		Licensee:      caller,
		Kind:          kind,
		StartHeight:   startHeight,
		EndHeight:     endHeight,
		Status:        StatusActive,
		FeePaid:       new(big.Int).Set(fee),
	}
	if err := e.state.LicensePut(grant); err != nil {
		return 0, err
	}
	if err := e.state.SetLicenseCounter(id + 1); err != nil {
		return 0, err
	}
	e.emit(events.LicenseIssued{
		LicenseID:     id,
		CompositionID: compositionID,
		Licensee:      caller,
		StartHeight:   startHeight,
		EndHeight:     endHeight,
	})
	return id, nil
}

// Revoke marks the license as revoked. The transition is one-way and
// terminal; any caller may revoke, matching the original contract.
func (e *Engine) Revoke(caller [20]byte, id uint64) (*License, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	grant, ok, err := e.state.LicenseGet(id)
	if err != nil {
		return nil, err
	}
	if !ok || grant == nil {
		return nil, ErrLicenseNotFound
	}
	grant.Status = StatusRevoked
	if err := e.state.LicensePut(grant); err != nil {
		return nil, err
	}
	e.emit(events.LicenseRevoked{LicenseID: id})
	return grant.Clone(), nil
}

// Valid reports whether the license grants usage rights at the current
// height. Unknown ids are invalid, not an error.
func (e *Engine) Valid(id uint64) (bool, error) {
	if e == nil || e.state == nil {
		return false, ErrNilState
	}
	grant, ok, err := e.state.LicenseGet(id)
	if err != nil {
		return false, err
	}
	if !ok || grant == nil {
		return false, nil
	}
	return grant.Status == StatusActive && grant.EndHeight >= e.heightFn(), nil
}

// Details returns the stored license without mutating state.
func (e *Engine) Details(id uint64) (*License, bool, error) {
	if e == nil || e.state == nil {
		return nil, false, ErrNilState
	}
	grant, ok, err := e.state.LicenseGet(id)
	if err != nil {
		return nil, false, err
	}
	if !ok || grant == nil {
		return nil, false, nil
	}
	return grant.Clone(), true, nil
}
