package rpc

import (
	"net/http"

	"rightschain/crypto"
	"rightschain/native/royalty"
)

type recordPaymentParams struct {
	Caller        string `json:"caller"`
	CompositionID uint64 `json:"compositionId"`
	Period        uint64 `json:"period"`
	Amount        string `json:"amount"`
}

type distributeParams struct {
	Caller        string `json:"caller"`
	CompositionID uint64 `json:"compositionId"`
	Period        uint64 `json:"period"`
	Composer      string `json:"composer"`
}

type paymentQueryParams struct {
	CompositionID uint64 `json:"compositionId"`
	Period        uint64 `json:"period"`
}

type royaltiesQueryParams struct {
	Composer string `json:"composer"`
	Period   uint64 `json:"period"`
}

func formatPayment(payment *royalty.Payment) paymentResult {
	return paymentResult{
		CompositionID: payment.CompositionID,
		Period:        payment.Period,
		Amount:        bigString(payment.Amount),
		Distributed:   payment.Distributed,
	}
}

func formatAccount(account *royalty.ComposerAccount) composerRoyaltiesResult {
	return composerRoyaltiesResult{
		Composer:    crypto.MustNewAddress(account.Composer[:]).String(),
		Period:      account.Period,
		TotalAmount: bigString(account.TotalAmount),
		LastUpdated: account.LastUpdated,
	}
}

func (s *Server) handleRecordRoyaltyPayment(w http.ResponseWriter, req *RPCRequest) {
	var params recordPaymentParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid params", err.Error())
		return
	}
	caller, err := crypto.DecodeAddress(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller", err.Error())
		return
	}
	amount, err := parseAmount(params.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid amount", err.Error())
		return
	}
	payment, err := s.ledger.RecordRoyaltyPayment(caller.Array(), params.CompositionID, params.Period, amount)
	if err != nil {
		writeDomainError(w, req.ID, err, codeUnauthorizedVerify)
		return
	}
	writeResult(w, req.ID, formatPayment(payment))
}

func (s *Server) handleDistributeRoyalties(w http.ResponseWriter, req *RPCRequest) {
	var params distributeParams
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
	account, err := s.ledger.DistributeRoyalties(caller.Array(), params.CompositionID, params.Period, composer.Array())
	if err != nil {
		writeDomainError(w, req.ID, err, codeUnauthorizedVerify)
		return
	}
	writeResult(w, req.ID, formatAccount(account))
}

func (s *Server) handleGetRoyaltyPayment(w http.ResponseWriter, req *RPCRequest) {
	var params paymentQueryParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid params", err.Error())
		return
	}
	payment, ok, err := s.ledger.RoyaltyPayment(params.CompositionID, params.Period)
	if err != nil {
		writeDomainError(w, req.ID, err, codeUnauthorizedVerify)
		return
	}
	if !ok {
		writeResult(w, req.ID, nil)
		return
	}
	writeResult(w, req.ID, formatPayment(payment))
}

func (s *Server) handleGetComposerRoyalties(w http.ResponseWriter, req *RPCRequest) {
	var params royaltiesQueryParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid params", err.Error())
		return
	}
	composer, err := crypto.DecodeAddress(params.Composer)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid composer", err.Error())
		return
	}
	account, ok, err := s.ledger.ComposerRoyalties(composer.Array(), params.Period)
	if err != nil {
		writeDomainError(w, req.ID, err, codeUnauthorizedVerify)
		return
	}
	if !ok {
		writeResult(w, req.ID, nil)
		return
	}
	writeResult(w, req.ID, formatAccount(account))
}
