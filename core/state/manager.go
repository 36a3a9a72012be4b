package state

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"rightschain/native/license"
	"rightschain/native/registry"
	"rightschain/native/royalty"
	"rightschain/storage"
)

// Manager provides typed accessors for the rights ledger state over a generic
// key-value database. Values are RLP encoded and stored under keccak-hashed,
// prefixed keys; composite keys use fixed-width big-endian fields so distinct
// tuples can never collide.
type Manager struct {
	db storage.Database
}

// NewManager creates a state manager operating on the provided database.
func NewManager(db storage.Database) *Manager {
	return &Manager{db: db}
}

var (
	adminKeyBytes         = []byte("registry/admin")
	composerPrefix        = []byte("registry/composer:")
	paymentPrefix         = []byte("royalty/payment:")
	accountPrefix         = []byte("royalty/account:")
	licensePrefix         = []byte("license/grant:")
	licenseCounterKeyByte = []byte("license/counter")
)

func adminKey() []byte {
	return ethcrypto.Keccak256(adminKeyBytes)
}

func composerKey(composer [20]byte) []byte {
	buf := make([]byte, len(composerPrefix)+len(composer))
	copy(buf, composerPrefix)
	copy(buf[len(composerPrefix):], composer[:])
	return ethcrypto.Keccak256(buf)
}

func paymentKey(compositionID, period uint64) []byte {
	buf := make([]byte, len(paymentPrefix)+16)
	copy(buf, paymentPrefix)
	binary.BigEndian.PutUint64(buf[len(paymentPrefix):], compositionID)
	binary.BigEndian.PutUint64(buf[len(paymentPrefix)+8:], period)
	return ethcrypto.Keccak256(buf)
}

func accountKey(composer [20]byte, period uint64) []byte {
	buf := make([]byte, len(accountPrefix)+len(composer)+8)
	copy(buf, accountPrefix)
	copy(buf[len(accountPrefix):], composer[:])
	binary.BigEndian.PutUint64(buf[len(accountPrefix)+len(composer):], period)
	return ethcrypto.Keccak256(buf)
}

func licenseKey(id uint64) []byte {
	buf := make([]byte, len(licensePrefix)+8)
	copy(buf, licensePrefix)
	binary.BigEndian.PutUint64(buf[len(licensePrefix):], id)
	return ethcrypto.Keccak256(buf)
}

func licenseCounterKey() []byte {
	return ethcrypto.Keccak256(licenseCounterKeyByte)
}

func (m *Manager) get(key []byte, out interface{}) (bool, error) {
	data, err := m.db.Get(key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if len(data) == 0 {
		return false, nil
	}
	if err := rlp.DecodeBytes(data, out); err != nil {
		return false, fmt.Errorf("decode state value: %w", err)
	}
	return true, nil
}

func (m *Manager) put(key []byte, value interface{}) error {
	encoded, err := rlp.EncodeToBytes(value)
	if err != nil {
		return fmt.Errorf("encode state value: %w", err)
	}
	return m.db.Put(key, encoded)
}

// --- Admin cell ---

// AdminGet returns the current admin principal, if one has been seeded.
func (m *Manager) AdminGet() ([20]byte, bool, error) {
	var admin [20]byte
	data, err := m.db.Get(adminKey())
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return admin, false, nil
		}
		return admin, false, err
	}
	if len(data) != len(admin) {
		return admin, false, fmt.Errorf("corrupt admin cell: %d bytes", len(data))
	}
	copy(admin[:], data)
	return admin, true, nil
}

// AdminSet replaces the admin principal.
func (m *Manager) AdminSet(addr [20]byte) error {
	return m.db.Put(adminKey(), addr[:])
}

// --- Composer records ---

// ComposerPut stores the record keyed by its principal.
func (m *Manager) ComposerPut(record *registry.ComposerRecord) error {
	if record == nil {
		return errors.New("state: nil composer record")
	}
	return m.put(composerKey(record.Composer), record)
}

// ComposerGet loads the record for the principal.
func (m *Manager) ComposerGet(composer [20]byte) (*registry.ComposerRecord, bool, error) {
	record := new(registry.ComposerRecord)
	ok, err := m.get(composerKey(composer), record)
	if err != nil || !ok {
		return nil, false, err
	}
	return record, true, nil
}

// --- Royalty payments ---

// RoyaltyPaymentPut stores the payment under its composite key.
func (m *Manager) RoyaltyPaymentPut(payment *royalty.Payment) error {
	if payment == nil {
		return errors.New("state: nil royalty payment")
	}
	stored := payment.Clone()
	if stored.Amount == nil {
		stored.Amount = big.NewInt(0)
	}
	return m.put(paymentKey(stored.CompositionID, stored.Period), stored)
}

// RoyaltyPaymentGet loads the payment for (compositionID, period).
func (m *Manager) RoyaltyPaymentGet(compositionID, period uint64) (*royalty.Payment, bool, error) {
	payment := new(royalty.Payment)
	ok, err := m.get(paymentKey(compositionID, period), payment)
	if err != nil || !ok {
		return nil, false, err
	}
	return payment, true, nil
}

// --- Composer royalty accounts ---

// ComposerRoyaltyPut stores the accumulator under its composite key.
func (m *Manager) ComposerRoyaltyPut(account *royalty.ComposerAccount) error {
	if account == nil {
		return errors.New("state: nil composer account")
	}
	stored := account.Clone()
	if stored.TotalAmount == nil {
		stored.TotalAmount = big.NewInt(0)
	}
	return m.put(accountKey(stored.Composer, stored.Period), stored)
}

// ComposerRoyaltyGet loads the accumulator for (composer, period).
func (m *Manager) ComposerRoyaltyGet(composer [20]byte, period uint64) (*royalty.ComposerAccount, bool, error) {
	account := new(royalty.ComposerAccount)
	ok, err := m.get(accountKey(composer, period), account)
	if err != nil || !ok {
		return nil, false, err
	}
	return account, true, nil
}

// --- Licenses ---

// LicensePut stores the license keyed by its id.
func (m *Manager) LicensePut(grant *license.License) error {
	if grant == nil {
		return errors.New("state: nil license")
	}
	stored := grant.Clone()
	if stored.FeePaid == nil {
		stored.FeePaid = big.NewInt(0)
	}
	return m.put(licenseKey(stored.ID), stored)
}

// LicenseGet loads the license for the id.
func (m *Manager) LicenseGet(id uint64) (*license.License, bool, error) {
	grant := new(license.License)
	ok, err := m.get(licenseKey(id), grant)
	if err != nil || !ok {
		return nil, false, err
	}
	return grant, true, nil
}

// LicenseCounter returns the next license id to assign. The sequence starts
// at 1 on a fresh ledger.
func (m *Manager) LicenseCounter() (uint64, error) {
	var counter uint64
	ok, err := m.get(licenseCounterKey(), &counter)
	if err != nil {
		return 0, err
	}
	if !ok || counter == 0 {
		return 1, nil
	}
	return counter, nil
}

// SetLicenseCounter persists the next license id to assign.
func (m *Manager) SetLicenseCounter(next uint64) error {
	return m.put(licenseCounterKey(), next)
}
