package rpc

import (
	"net/http"

	"rightschain/crypto"
	"rightschain/native/registry"
)

type verifyComposerParams struct {
	Caller   string `json:"caller"`
	Composer string `json:"composer"`
	Name     string `json:"name"`
}

type composerParams struct {
	Composer string `json:"composer"`
}

type transferAdminParams struct {
	Caller   string `json:"caller"`
	NewAdmin string `json:"newAdmin"`
}

func formatComposer(record *registry.ComposerRecord) composerResult {
	return composerResult{
		Composer:           crypto.MustNewAddress(record.Composer[:]).String(),
		Name:               record.Name,
		Verified:           record.Verified,
		VerificationHeight: record.VerificationHeight,
	}
}

func (s *Server) handleVerifyComposer(w http.ResponseWriter, req *RPCRequest) {
	var params verifyComposerParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid params", err.Error())
		return
	}
	caller, err := crypto.DecodeAddress(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller", err.Error())
		return
	}
	composer, err := crypto.DecodeAddress(params.Composer)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid composer", err.Error())
		return
	}
	record, err := s.ledger.VerifyComposer(caller.Array(), composer.Array(), params.Name)
	if err != nil {
		writeDomainError(w, req.ID, err, codeUnauthorizedVerify)
		return
	}
	writeResult(w, req.ID, formatComposer(record))
}

func (s *Server) handleIsVerified(w http.ResponseWriter, req *RPCRequest) {
	var params composerParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid params", err.Error())
		return
	}
	composer, err := crypto.DecodeAddress(params.Composer)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid composer", err.Error())
		return
	}
	verified, err := s.ledger.IsVerified(composer.Array())
	if err != nil {
		writeDomainError(w, req.ID, err, codeUnauthorizedVerify)
		return
	}
	writeResult(w, req.ID, verified)
}

func (s *Server) handleGetComposerDetails(w http.ResponseWriter, req *RPCRequest) {
	var params composerParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid params", err.Error())
		return
	}
	composer, err := crypto.DecodeAddress(params.Composer)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid composer", err.Error())
		return
	}
	record, ok, err := s.ledger.ComposerDetails(composer.Array())
	if err != nil {
		writeDomainError(w, req.ID, err, codeUnauthorizedVerify)
		return
	}
	if !ok {
		writeResult(w, req.ID, nil)
		return
	}
	writeResult(w, req.ID, formatComposer(record))
}

func (s *Server) handleTransferAdmin(w http.ResponseWriter, req *RPCRequest) {
	var params transferAdminParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid params", err.Error())
		return
	}
	caller, err := crypto.DecodeAddress(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller", err.Error())
		return
	}
	newAdmin, err := crypto.DecodeAddress(params.NewAdmin)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid newAdmin", err.Error())
		return
	}
	if err := s.ledger.TransferAdmin(caller.Array(), newAdmin.Array()); err != nil {
		writeDomainError(w, req.ID, err, codeUnauthorizedTransfer)
		return
	}
	writeResult(w, req.ID, map[string]string{"admin": newAdmin.String()})
}

func (s *Server) handleStatus(w http.ResponseWriter, req *RPCRequest) {
	result := statusResult{Height: s.ledger.Height()}
	if admin, ok, err := s.ledger.Admin(); err == nil && ok {
		result.Admin = crypto.MustNewAddress(admin[:]).String()
	}
	writeResult(w, req.ID, result)
}
