package rpc

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"rightschain/native/license"
	"rightschain/native/registry"
	"rightschain/native/royalty"
)

// Domain error codes carried in the JSON-RPC error object. The values are
// part of the ledger's public contract.
const (
	codeUnauthorizedVerify   = 100
	codeUnauthorizedTransfer = 101
	codeConflict             = 403
	codeNotFound             = 404
)

type composerResult struct {
	Composer           string `json:"composer"`
	Name               string `json:"name"`
	Verified           bool   `json:"verified"`
	VerificationHeight uint64 `json:"verificationHeight"`
}

type paymentResult struct {
	CompositionID uint64 `json:"compositionId"`
	Period        uint64 `json:"period"`
	Amount        string `json:"amount"`
	Distributed   bool   `json:"distributed"`
}

type composerRoyaltiesResult struct {
	Composer    string `json:"composer"`
	Period      uint64 `json:"period"`
	TotalAmount string `json:"totalAmount"`
	LastUpdated uint64 `json:"lastUpdated"`
}

type licenseResult struct {
	LicenseID     uint64 `json:"licenseId"`
	CompositionID uint64 `json:"compositionId"`
	Licensee      string `json:"licensee"`
	LicenseType   string `json:"licenseType"`
	StartHeight   uint64 `json:"startHeight"`
	EndHeight     uint64 `json:"endHeight"`
	Status        string `json:"status"`
	FeePaid       string `json:"feePaid"`
}

type statusResult struct {
	Height uint64 `json:"height"`
	Admin  string `json:"admin,omitempty"`
}

func bigString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

// parseAmount accepts decimal string amounts so callers are not bound by
// float64 precision.
func parseAmount(raw string) (*big.Int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("amount required")
	}
	amount, ok := new(big.Int).SetString(trimmed, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount: %s", raw)
	}
	if amount.Sign() < 0 {
		return nil, fmt.Errorf("amount must be non-negative: %s", raw)
	}
	return amount, nil
}

func parseLicenseKind(raw string) (license.Kind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "film":
		return license.KindFilm, nil
	case "tv":
		return license.KindTV, nil
	case "streaming":
		return license.KindStreaming, nil
	case "advertising":
		return license.KindAdvertising, nil
	default:
		return 0, fmt.Errorf("unknown license type: %s", raw)
	}
}

func formatLicenseKind(kind license.Kind) string {
	switch kind {
	case license.KindFilm:
		return "film"
	case license.KindTV:
		return "tv"
	case license.KindStreaming:
		return "streaming"
	case license.KindAdvertising:
		return "advertising"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(kind))
	}
}

func formatLicenseStatus(status license.Status) string {
	switch status {
	case license.StatusActive:
		return "active"
	case license.StatusRevoked:
		return "revoked"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(status))
	}
}

// domainError maps engine sentinel errors onto the ledger's public codes.
// unauthorizedCode distinguishes the two admin-gated operations.
func domainError(err error, unauthorizedCode int) (int, bool) {
	switch {
	case errors.Is(err, registry.ErrUnauthorized):
		return unauthorizedCode, true
	case errors.Is(err, royalty.ErrPaymentNotFound), errors.Is(err, license.ErrLicenseNotFound):
		return codeNotFound, true
	case errors.Is(err, royalty.ErrAlreadyDistributed):
		return codeConflict, true
	default:
		return 0, false
	}
}
