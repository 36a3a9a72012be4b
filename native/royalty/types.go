package royalty

import "math/big"

// Payment is one recorded royalty payment for a composition and accounting
// period. Re-recording before distribution replaces the pending amount; the
// Distributed flag is a single-use gate flipped by a successful distribution.
type Payment struct {
	CompositionID uint64
	Period        uint64
	Amount        *big.Int
	Distributed   bool
}

// Clone returns a deep copy of the payment.
func (p *Payment) Clone() *Payment {
	if p == nil {
		return nil
	}
	clone := *p
	if p.Amount != nil {
		clone.Amount = new(big.Int).Set(p.Amount)
	} else {
		clone.Amount = big.NewInt(0)
	}
	return &clone
}

// ComposerAccount accumulates distributed royalties for one composer within
// one accounting period. TotalAmount only ever grows.
type ComposerAccount struct {
	Composer    [20]byte
	Period      uint64
	TotalAmount *big.Int
	LastUpdated uint64
}

// Clone returns a deep copy of the account.
func (a *ComposerAccount) Clone() *ComposerAccount {
	if a == nil {
		return nil
	}
	clone := *a
	if a.TotalAmount != nil {
		clone.TotalAmount = new(big.Int).Set(a.TotalAmount)
	} else {
		clone.TotalAmount = big.NewInt(0)
	}
	return &clone
}

func newAccount(composer [20]byte, period uint64) *ComposerAccount {
	return &ComposerAccount{
		Composer:    composer,
		Period:      period,
		TotalAmount: big.NewInt(0),
		LastUpdated: 0,
	}
}
