package registry

import (
	"errors"
	"testing"

	"rightschain/core/events"
)

type mockState struct {
	admin     [20]byte
	adminSet  bool
	composers map[[20]byte]*ComposerRecord
}

func newMockState(admin [20]byte) *mockState {
	return &mockState{admin: admin, adminSet: true, composers: make(map[[20]byte]*ComposerRecord)}
}

func (m *mockState) AdminGet() ([20]byte, bool, error) {
	return m.admin, m.adminSet, nil
}

func (m *mockState) AdminSet(addr [20]byte) error {
	m.admin = addr
	m.adminSet = true
	return nil
}

func (m *mockState) ComposerGet(composer [20]byte) (*ComposerRecord, bool, error) {
	record, ok := m.composers[composer]
	if !ok {
		return nil, false, nil
	}
	return record.Clone(), true, nil
}

func (m *mockState) ComposerPut(record *ComposerRecord) error {
	m.composers[record.Composer] = record.Clone()
	return nil
}

type recordingEmitter struct {
	events []events.Event
}

func (r *recordingEmitter) Emit(evt events.Event) { r.events = append(r.events, evt) }

func addr(b byte) [20]byte {
	var out [20]byte
	for i := range out {
		out[i] = b
	}
	return out
}

func newTestEngine(admin [20]byte) (*Engine, *mockState, *recordingEmitter) {
	state := newMockState(admin)
	emitter := &recordingEmitter{}
	engine := NewEngine()
	engine.SetState(state)
	engine.SetEmitter(emitter)
	engine.SetHeightFunc(func() uint64 { return 123 })
	return engine, state, emitter
}

func TestVerifyComposerByAdmin(t *testing.T) {
	admin := addr(0x01)
	composer := addr(0x02)
	engine, _, emitter := newTestEngine(admin)

	record, err := engine.VerifyComposer(admin, composer, "John Williams")
	if err != nil {
		t.Fatalf("VerifyComposer: %v", err)
	}
	if !record.Verified {
		t.Fatalf("expected verified record")
	}
	if record.Name != "John Williams" {
		t.Fatalf("unexpected name: %q", record.Name)
	}
	if record.VerificationHeight != 123 {
		t.Fatalf("unexpected verification height: %d", record.VerificationHeight)
	}

	verified, err := engine.IsVerified(composer)
	if err != nil {
		t.Fatalf("IsVerified: %v", err)
	}
	if !verified {
		t.Fatalf("composer should be verified")
	}

	details, ok, err := engine.ComposerDetails(composer)
	if err != nil || !ok {
		t.Fatalf("ComposerDetails: ok=%v err=%v", ok, err)
	}
	if details.Name != "John Williams" {
		t.Fatalf("unexpected details name: %q", details.Name)
	}
	if len(emitter.events) != 1 {
		t.Fatalf("expected one event, got %d", len(emitter.events))
	}
	if emitter.events[0].EventType() != events.TypeComposerVerified {
		t.Fatalf("unexpected event type: %s", emitter.events[0].EventType())
	}
}

func TestVerifyComposerRejectsNonAdmin(t *testing.T) {
	engine, state, _ := newTestEngine(addr(0x01))
	outsider := addr(0x03)
	composer := addr(0x04)

	if _, err := engine.VerifyComposer(outsider, composer, "Hans Zimmer"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if len(state.composers) != 0 {
		t.Fatalf("rejected call must not write state")
	}
	verified, err := engine.IsVerified(composer)
	if err != nil {
		t.Fatalf("IsVerified: %v", err)
	}
	if verified {
		t.Fatalf("composer must remain unverified")
	}
}

func TestReverificationRefreshesHeight(t *testing.T) {
	admin := addr(0x01)
	composer := addr(0x02)
	engine, _, _ := newTestEngine(admin)

	height := uint64(100)
	engine.SetHeightFunc(func() uint64 { return height })

	if _, err := engine.VerifyComposer(admin, composer, "John Williams"); err != nil {
		t.Fatalf("first verification: %v", err)
	}
	height = 250
	record, err := engine.VerifyComposer(admin, composer, "John Williams")
	if err != nil {
		t.Fatalf("re-verification: %v", err)
	}
	if record.VerificationHeight != 250 {
		t.Fatalf("expected refreshed height 250, got %d", record.VerificationHeight)
	}
}

func TestIsVerifiedUnknownPrincipal(t *testing.T) {
	engine, _, _ := newTestEngine(addr(0x01))
	verified, err := engine.IsVerified(addr(0x09))
	if err != nil {
		t.Fatalf("IsVerified: %v", err)
	}
	if verified {
		t.Fatalf("unknown principal must be unverified")
	}
	if _, ok, err := engine.ComposerDetails(addr(0x09)); err != nil || ok {
		t.Fatalf("unknown principal must have no details: ok=%v err=%v", ok, err)
	}
}

func TestTransferAdmin(t *testing.T) {
	oldAdmin := addr(0x01)
	newAdmin := addr(0x02)
	engine, state, emitter := newTestEngine(oldAdmin)

	if err := engine.TransferAdmin(oldAdmin, newAdmin); err != nil {
		t.Fatalf("TransferAdmin: %v", err)
	}
	if state.admin != newAdmin {
		t.Fatalf("admin cell not replaced")
	}
	if len(emitter.events) != 1 || emitter.events[0].EventType() != events.TypeAdminTransferred {
		t.Fatalf("expected admin transfer event")
	}

	// The outgoing admin loses rights immediately.
	if _, err := engine.VerifyComposer(oldAdmin, addr(0x05), "x"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("old admin should be unauthorized, got %v", err)
	}
	if _, err := engine.VerifyComposer(newAdmin, addr(0x05), "x"); err != nil {
		t.Fatalf("new admin should be authorized: %v", err)
	}
}

func TestTransferAdminRejectsNonAdmin(t *testing.T) {
	admin := addr(0x01)
	engine, state, _ := newTestEngine(admin)

	if err := engine.TransferAdmin(addr(0x07), addr(0x08)); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if state.admin != admin {
		t.Fatalf("rejected transfer must leave admin unchanged")
	}
}

func TestEngineWithoutState(t *testing.T) {
	engine := NewEngine()
	if _, err := engine.VerifyComposer(addr(1), addr(2), "x"); !errors.Is(err, ErrNilState) {
		t.Fatalf("expected ErrNilState, got %v", err)
	}
}
