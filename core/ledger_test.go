package core

import (
	"errors"
	"math/big"
	"testing"

	"rightschain/native/license"
	"rightschain/native/registry"
	"rightschain/native/royalty"
	"rightschain/storage"
)

func addr(b byte) [20]byte {
	var out [20]byte
	for i := range out {
		out[i] = b
	}
	return out
}

func newTestLedger(t *testing.T, admin [20]byte, height uint64) (*Ledger, *ManualHeight) {
	t.Helper()
	db := storage.NewMemDB()
	t.Cleanup(func() { db.Close() })
	heights := NewManualHeight(height)
	ledger, err := NewLedger(db, admin, heights, nil)
	if err != nil {
		t.Fatalf("NewLedger: %v", err)
	}
	return ledger, heights
}

func TestGenesisSeedsAdminOnce(t *testing.T) {
	db := storage.NewMemDB()
	t.Cleanup(func() { db.Close() })

	first := addr(0x01)
	second := addr(0x02)

	ledger, err := NewLedger(db, first, NewManualHeight(0), nil)
	if err != nil {
		t.Fatalf("NewLedger: %v", err)
	}
	if err := ledger.TransferAdmin(first, second); err != nil {
		t.Fatalf("TransferAdmin: %v", err)
	}

	// Reopening the same database must keep the transferred admin rather
	// than re-seeding the genesis value.
	reopened, err := NewLedger(db, first, NewManualHeight(0), nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	admin, ok, err := reopened.Admin()
	if err != nil || !ok {
		t.Fatalf("Admin: ok=%v err=%v", ok, err)
	}
	if admin != second {
		t.Fatalf("reopen reset the admin cell")
	}
}

func TestVerificationScenario(t *testing.T) {
	admin := addr(0xA0)
	composer := addr(0xB0)
	ledger, heights := newTestLedger(t, admin, 0)
	heights.Set(123)

	record, err := ledger.VerifyComposer(admin, composer, "John Williams")
	if err != nil {
		t.Fatalf("VerifyComposer: %v", err)
	}
	if record.VerificationHeight != 123 {
		t.Fatalf("unexpected height: %d", record.VerificationHeight)
	}
	verified, err := ledger.IsVerified(composer)
	if err != nil || !verified {
		t.Fatalf("IsVerified: verified=%v err=%v", verified, err)
	}
	details, ok, err := ledger.ComposerDetails(composer)
	if err != nil || !ok || details.Name != "John Williams" {
		t.Fatalf("ComposerDetails: ok=%v err=%v details=%+v", ok, err, details)
	}

	outsider := addr(0xC0)
	other := addr(0xD0)
	if _, err := ledger.VerifyComposer(outsider, other, "Hans Zimmer"); !errors.Is(err, registry.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if verified, _ := ledger.IsVerified(other); verified {
		t.Fatalf("rejected verification must not mark the composer")
	}
}

func TestDistributionScenario(t *testing.T) {
	admin := addr(0xA0)
	composer := addr(0xB0)
	ledger, _ := newTestLedger(t, admin, 100)

	if _, err := ledger.RecordRoyaltyPayment(admin, 1, 202401, big.NewInt(500_000)); err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := ledger.DistributeRoyalties(admin, 1, 202401, composer); err != nil {
		t.Fatalf("distribute: %v", err)
	}

	payment, ok, err := ledger.RoyaltyPayment(1, 202401)
	if err != nil || !ok {
		t.Fatalf("RoyaltyPayment: ok=%v err=%v", ok, err)
	}
	if !payment.Distributed {
		t.Fatalf("payment must be marked distributed")
	}
	account, ok, err := ledger.ComposerRoyalties(composer, 202401)
	if err != nil || !ok {
		t.Fatalf("ComposerRoyalties: ok=%v err=%v", ok, err)
	}
	if account.TotalAmount.Cmp(big.NewInt(500_000)) != 0 {
		t.Fatalf("unexpected total: %v", account.TotalAmount)
	}

	// Repeat distribution conflicts and leaves the account untouched.
	if _, err := ledger.DistributeRoyalties(admin, 1, 202401, composer); !errors.Is(err, royalty.ErrAlreadyDistributed) {
		t.Fatalf("expected ErrAlreadyDistributed, got %v", err)
	}
	account, _, _ = ledger.ComposerRoyalties(composer, 202401)
	if account.TotalAmount.Cmp(big.NewInt(500_000)) != 0 {
		t.Fatalf("conflicting retry mutated the account: %v", account.TotalAmount)
	}

	// A second composition accumulates into the same composer/period bucket.
	if _, err := ledger.RecordRoyaltyPayment(admin, 2, 202401, big.NewInt(300_000)); err != nil {
		t.Fatalf("record second: %v", err)
	}
	if _, err := ledger.DistributeRoyalties(admin, 2, 202401, composer); err != nil {
		t.Fatalf("distribute second: %v", err)
	}
	account, _, _ = ledger.ComposerRoyalties(composer, 202401)
	if account.TotalAmount.Cmp(big.NewInt(800_000)) != 0 {
		t.Fatalf("expected 800000, got %v", account.TotalAmount)
	}
}

func TestLicensingScenario(t *testing.T) {
	admin := addr(0xA0)
	licensee := addr(0xC1)
	ledger, _ := newTestLedger(t, admin, 100)

	valid1, err := ledger.IssueLicense(licensee, 1, license.KindFilm, 100, 1100, big.NewInt(1_000_000))
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	expired, err := ledger.IssueLicense(licensee, 2, license.KindTV, 0, 50, big.NewInt(500_000))
	if err != nil {
		t.Fatalf("issue expired: %v", err)
	}
	revoked, err := ledger.IssueLicense(licensee, 3, license.KindFilm, 100, 1100, big.NewInt(1_000_000))
	if err != nil {
		t.Fatalf("issue revoked: %v", err)
	}
	if valid1 != 1 || expired != 2 || revoked != 3 {
		t.Fatalf("ids must be sequential: %d %d %d", valid1, expired, revoked)
	}
	if _, err := ledger.RevokeLicense(licensee, revoked); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	for id, want := range map[uint64]bool{valid1: true, expired: false, revoked: false, 99: false} {
		got, err := ledger.IsLicenseValid(id)
		if err != nil {
			t.Fatalf("IsLicenseValid(%d): %v", id, err)
		}
		if got != want {
			t.Fatalf("IsLicenseValid(%d): expected %v, got %v", id, want, got)
		}
	}

	if _, err := ledger.RevokeLicense(licensee, 99); !errors.Is(err, license.ErrLicenseNotFound) {
		t.Fatalf("expected ErrLicenseNotFound, got %v", err)
	}
}

func TestLicenseCounterSurvivesReopen(t *testing.T) {
	db := storage.NewMemDB()
	t.Cleanup(func() { db.Close() })
	admin := addr(0xA0)

	ledger, err := NewLedger(db, admin, NewManualHeight(100), nil)
	if err != nil {
		t.Fatalf("NewLedger: %v", err)
	}
	if _, err := ledger.IssueLicense(admin, 1, license.KindFilm, 1, 2, big.NewInt(1)); err != nil {
		t.Fatalf("issue: %v", err)
	}

	reopened, err := NewLedger(db, admin, NewManualHeight(100), nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	id, err := reopened.IssueLicense(admin, 2, license.KindTV, 1, 2, big.NewInt(1))
	if err != nil {
		t.Fatalf("issue after reopen: %v", err)
	}
	if id != 2 {
		t.Fatalf("counter must survive reopen, got id %d", id)
	}
}

func TestManualHeightIsMonotonic(t *testing.T) {
	h := NewManualHeight(100)
	h.Set(50)
	if h.Height() != 100 {
		t.Fatalf("height decreased: %d", h.Height())
	}
	h.Set(150)
	if h.Height() != 150 {
		t.Fatalf("height not advanced: %d", h.Height())
	}
	if next := h.Advance(10); next != 160 {
		t.Fatalf("advance returned %d", next)
	}
}
