package royalty

import (
	"math/big"

	"rightschain/core/events"
)

type engineState interface {
	RoyaltyPaymentGet(compositionID, period uint64) (*Payment, bool, error)
	RoyaltyPaymentPut(payment *Payment) error
	ComposerRoyaltyGet(composer [20]byte, period uint64) (*ComposerAccount, bool, error)
	ComposerRoyaltyPut(account *ComposerAccount) error
}

// Engine records royalty payments per (composition, period) key and settles
// them into per-composer accumulators. Distribution is exactly-once per
// payment key; accumulation across keys is a commutative sum.
type Engine struct {
	state    engineState
	emitter  events.Emitter
	heightFn func() uint64
}

// NewEngine constructs a royalty engine with default dependencies.
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

// SetHeightFunc overrides the block height source used for account update
// stamps.
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

// RecordPayment creates or overwrites the pending payment at
// (compositionID, period). Last write wins until the payment is distributed;
// the caller identity is accepted unchecked. Re-recording resets the
// distribution gate, matching the original contract.
func (e *Engine) RecordPayment(caller [20]byte, compositionID, period uint64, amount *big.Int) (*Payment, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	if amount == nil || amount.Sign() < 0 {
		return nil, ErrInvalidAmount
	}
	payment := &Payment{
		CompositionID: compositionID,
		Period:        period,
		Amount:        new(big.Int).Set(amount),
		Distributed:   false,
	}
	if err := e.state.RoyaltyPaymentPut(payment); err != nil {
		return nil, err
	}
	e.emit(events.RoyaltyRecorded{
		CompositionID: compositionID,
		Period:        period,
		Amount:        new(big.Int).Set(amount),
	})
	return payment.Clone(), nil
}

// Distribute folds the pending payment at (compositionID, period) into the
// composer's account for that period and closes the payment's single-use
// gate. Every precondition is checked before the first write so a failing
// call leaves state untouched.
func (e *Engine) Distribute(caller [20]byte, compositionID, period uint64, composer [20]byte) (*ComposerAccount, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	payment, ok, err := e.state.RoyaltyPaymentGet(compositionID, period)
	if err != nil {
		return nil, err
	}
	if !ok || payment == nil {
		return nil, ErrPaymentNotFound
	}
	if payment.Distributed {
		return nil, ErrAlreadyDistributed
	}
	account, ok, err := e.state.ComposerRoyaltyGet(composer, period)
	if err != nil {
		return nil, err
	}
	if !ok || account == nil {
		account = newAccount(composer, period)
	}
	amount := payment.Amount
	if amount == nil {
		amount = big.NewInt(0)
	}
	account.TotalAmount = new(big.Int).Add(account.TotalAmount, amount)
	account.LastUpdated = e.heightFn()
	if err := e.state.ComposerRoyaltyPut(account); err != nil {
		return nil, err
	}
	payment.Distributed = true
	if err := e.state.RoyaltyPaymentPut(payment); err != nil {
		return nil, err
	}
	e.emit(events.RoyaltyDistributed{
		CompositionID: compositionID,
		Period:        period,
		Composer:      composer,
		Amount:        new(big.Int).Set(amount),
		Total:         new(big.Int).Set(account.TotalAmount),
		Height:        account.LastUpdated,
	})
	return account.Clone(), nil
}

// Payment returns the stored payment for the key without mutating state.
func (e *Engine) Payment(compositionID, period uint64) (*Payment, bool, error) {
	if e == nil || e.state == nil {
		return nil, false, ErrNilState
	}
	payment, ok, err := e.state.RoyaltyPaymentGet(compositionID, period)
	if err != nil {
		return nil, false, err
	}
	if !ok || payment == nil {
		return nil, false, nil
	}
	return payment.Clone(), true, nil
}

// ComposerAccount returns the accumulator for the composer and period without
// mutating state.
func (e *Engine) ComposerAccount(composer [20]byte, period uint64) (*ComposerAccount, bool, error) {
	if e == nil || e.state == nil {
		return nil, false, ErrNilState
	}
	account, ok, err := e.state.ComposerRoyaltyGet(composer, period)
	if err != nil {
		return nil, false, err
	}
	if !ok || account == nil {
		return nil, false, nil
	}
	return account.Clone(), true, nil
}
