package rpc

import (
	"net/http"

	"rightschain/crypto"
	"rightschain/native/license"
)

type issueLicenseParams struct {
	Caller        string `json:"caller"`
	CompositionID uint64 `json:"compositionId"`
	LicenseType   string `json:"licenseType"`
	StartHeight   uint64 `json:"startHeight"`
	EndHeight     uint64 `json:"endHeight"`
	Fee           string `json:"fee"`
}

type licenseIDParams struct {
	LicenseID uint64 `json:"licenseId"`
}

func formatLicense(grant *license.License) licenseResult {
	return licenseResult{
		LicenseID:     grant.ID,
		CompositionID: grant.CompositionID,
		Licensee:      crypto.MustNewAddress(grant.Licensee[:]).String(),
		LicenseType:   formatLicenseKind(grant.Kind),
		StartHeight:   grant.StartHeight,
		EndHeight:     grant.EndHeight,
		Status:        formatLicenseStatus(grant.Status),
		FeePaid:       bigString(grant.FeePaid),
	}
}

func (s *Server) handleIssueLicense(w http.ResponseWriter, req *RPCRequest) {
	var params issueLicenseParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid params", err.Error())
		return
	}
	caller, err := crypto.DecodeAddress(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller", err.Error())
		return
	}
	kind, err := parseLicenseKind(params.LicenseType)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid licenseType", err.Error())
		return
	}
	fee, err := parseAmount(params.Fee)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid fee", err.Error())
		return
	}
	id, err := s.ledger.IssueLicense(caller.Array(), params.CompositionID, kind, params.StartHeight, params.EndHeight, fee)
	if err != nil {
		writeDomainError(w, req.ID, err, codeUnauthorizedVerify)
		return
	}
	writeResult(w, req.ID, map[string]uint64{"licenseId": id})
}

func (s *Server) handleRevokeLicense(w http.ResponseWriter, req *RPCRequest) {
	var params struct {
		Caller    string `json:"caller"`
		LicenseID uint64 `json:"licenseId"`
	}
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid params", err.Error())
		return
	}
	caller, err := crypto.DecodeAddress(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller", err.Error())
		return
	}
	grant, err := s.ledger.RevokeLicense(caller.Array(), params.LicenseID)
	if err != nil {
		writeDomainError(w, req.ID, err, codeUnauthorizedVerify)
		return
	}
	writeResult(w, req.ID, formatLicense(grant))
}

func (s *Server) handleIsLicenseValid(w http.ResponseWriter, req *RPCRequest) {
	var params licenseIDParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid params", err.Error())
		return
	}
	valid, err := s.ledger.IsLicenseValid(params.LicenseID)
	if err != nil {
		writeDomainError(w, req.ID, err, codeUnauthorizedVerify)
		return
	}
	writeResult(w, req.ID, valid)
}

func (s *Server) handleGetLicenseDetails(w http.ResponseWriter, req *RPCRequest) {
	var params licenseIDParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid params", err.Error())
		return
	}
	grant, ok, err := s.ledger.LicenseDetails(params.LicenseID)
	if err != nil {
		writeDomainError(w, req.ID, err, codeUnauthorizedVerify)
		return
	}
	if !ok {
		writeResult(w, req.ID, nil)
		return
	}
	writeResult(w, req.ID, formatLicense(grant))
}
