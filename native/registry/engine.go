package registry

import (
	"strings"

	"rightschain/core/events"
)

type engineState interface {
	AdminGet() ([20]byte, bool, error)
	AdminSet(addr [20]byte) error
	ComposerGet(composer [20]byte) (*ComposerRecord, bool, error)
	ComposerPut(record *ComposerRecord) error
}

// Engine implements composer identity verification and the single-admin
// authority over it. All mutations are gated on the stored admin cell.
type Engine struct {
	state    engineState
	emitter  events.Emitter
	heightFn func() uint64
}

// NewEngine constructs a registry engine with default dependencies.
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

// SetHeightFunc overrides the block height source. The height is supplied by
// the execution environment and must never decrease.
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

func (e *Engine) requireAdmin(caller [20]byte) error {
	admin, ok, err := e.state.AdminGet()
	if err != nil {
		return err
	}
	if !ok || caller != admin {
		return ErrUnauthorized
	}
	return nil
}

// VerifyComposer records the supplied principal as a verified composer at the
// current height. Only the admin may call it. Re-verifying an already verified
// composer is allowed and simply refreshes the record.
func (e *Engine) VerifyComposer(caller [20]byte, composer [20]byte, name string) (*ComposerRecord, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	if err := e.requireAdmin(caller); err != nil {
		return nil, err
	}
	record := &ComposerRecord{
		Composer:           composer,
		Name:               strings.TrimSpace(name),
		Verified:           true,
		VerificationHeight: e.heightFn(),
	}
	if err := e.state.ComposerPut(record); err != nil {
		return nil, err
	}
	e.emit(events.ComposerVerified{
		Composer: record.Composer,
		Name:     record.Name,
		Height:   record.VerificationHeight,
	})
	return record.Clone(), nil
}

// IsVerified reports whether the principal holds a verified composer record.
// Unknown principals are simply unverified, not an error.
func (e *Engine) IsVerified(composer [20]byte) (bool, error) {
	if e == nil || e.state == nil {
		return false, ErrNilState
	}
	record, ok, err := e.state.ComposerGet(composer)
	if err != nil {
		return false, err
	}
	if !ok || record == nil {
		return false, nil
	}
	return record.Verified, nil
}

// ComposerDetails returns the stored record for the principal without
// mutating state.
func (e *Engine) ComposerDetails(composer [20]byte) (*ComposerRecord, bool, error) {
	if e == nil || e.state == nil {
		return nil, false, ErrNilState
	}
	record, ok, err := e.state.ComposerGet(composer)
	if err != nil {
		return nil, false, err
	}
	if !ok || record == nil {
		return nil, false, nil
	}
	return record.Clone(), true, nil
}

// TransferAdmin hands the privileged identity to newAdmin. The outgoing admin
// loses all rights the moment the call commits.
func (e *Engine) TransferAdmin(caller [20]byte, newAdmin [20]byte) error {
	if e == nil || e.state == nil {
		return ErrNilState
	}
	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	if err := e.state.AdminSet(newAdmin); err != nil {
		return err
	}
	e.emit(events.AdminTransferred{Previous: caller, Next: newAdmin})
	return nil
}

// Admin exposes the current admin principal for read-only callers.
func (e *Engine) Admin() ([20]byte, bool, error) {
	if e == nil || e.state == nil {
		return [20]byte{}, false, ErrNilState
	}
	return e.state.AdminGet()
}
