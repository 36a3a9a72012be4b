package rpc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"rightschain/core"
	"rightschain/crypto"
	"rightschain/storage"
)

func principal(b byte) string {
	buf := make([]byte, 20)
	for i := range buf {
		buf[i] = b
	}
	return crypto.MustNewAddress(buf).String()
}

func newTestServer(t *testing.T, height uint64) (*Server, string) {
	t.Helper()
	db := storage.NewMemDB()
	t.Cleanup(func() { db.Close() })
	adminAddr, err := crypto.DecodeAddress(principal(0xA0))
	require.NoError(t, err)
	ledger, err := core.NewLedger(db, adminAddr.Array(), core.NewManualHeight(height), nil)
	require.NoError(t, err)
	return &Server{ledger: ledger}, principal(0xA0)
}

func call(t *testing.T, server *Server, method string, params interface{}, headers map[string]string) RPCResponse {
	t.Helper()
	payload, err := json.Marshal(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  method,
		"params":  []interface{}{params},
	})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(payload))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	recorder := httptest.NewRecorder()
	server.Router().ServeHTTP(recorder, req)

	var resp RPCResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	return resp
}

func TestVerifyComposerOverRPC(t *testing.T) {
	server, admin := newTestServer(t, 123)
	composer := principal(0xB0)

	resp := call(t, server, "rights_verifyComposer", map[string]interface{}{
		"caller": admin, "composer": composer, "name": "John Williams",
	}, nil)
	require.Nil(t, resp.Error)

	resp = call(t, server, "rights_isVerified", map[string]interface{}{"composer": composer}, nil)
	require.Nil(t, resp.Error)
	require.Equal(t, true, resp.Result)

	resp = call(t, server, "rights_getComposerDetails", map[string]interface{}{"composer": composer}, nil)
	require.Nil(t, resp.Error)
	details, ok := resp.Result.(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "John Williams", details["name"])
	require.EqualValues(t, 123, details["verificationHeight"])
}

func TestVerifyComposerUnauthorizedCode(t *testing.T) {
	server, _ := newTestServer(t, 123)
	outsider := principal(0xC0)
	composer := principal(0xD0)

	resp := call(t, server, "rights_verifyComposer", map[string]interface{}{
		"caller": outsider, "composer": composer, "name": "Hans Zimmer",
	}, nil)
	require.NotNil(t, resp.Error)
	require.Equal(t, codeUnauthorizedVerify, resp.Error.Code)

	resp = call(t, server, "rights_isVerified", map[string]interface{}{"composer": composer}, nil)
	require.Nil(t, resp.Error)
	require.Equal(t, false, resp.Result)
}

func TestTransferAdminUnauthorizedCode(t *testing.T) {
	server, _ := newTestServer(t, 100)
	resp := call(t, server, "rights_transferAdmin", map[string]interface{}{
		"caller": principal(0xC0), "newAdmin": principal(0xD0),
	}, nil)
	require.NotNil(t, resp.Error)
	require.Equal(t, codeUnauthorizedTransfer, resp.Error.Code)
}

func TestRoyaltyCodesOverRPC(t *testing.T) {
	server, admin := newTestServer(t, 100)
	composer := principal(0xB0)

	resp := call(t, server, "rights_distributeRoyalties", map[string]interface{}{
		"caller": admin, "compositionId": 1, "period": 202401, "composer": composer,
	}, nil)
	require.NotNil(t, resp.Error)
	require.Equal(t, codeNotFound, resp.Error.Code)

	resp = call(t, server, "rights_recordRoyaltyPayment", map[string]interface{}{
		"caller": admin, "compositionId": 1, "period": 202401, "amount": "500000",
	}, nil)
	require.Nil(t, resp.Error)

	resp = call(t, server, "rights_distributeRoyalties", map[string]interface{}{
		"caller": admin, "compositionId": 1, "period": 202401, "composer": composer,
	}, nil)
	require.Nil(t, resp.Error)

	resp = call(t, server, "rights_distributeRoyalties", map[string]interface{}{
		"caller": admin, "compositionId": 1, "period": 202401, "composer": composer,
	}, nil)
	require.NotNil(t, resp.Error)
	require.Equal(t, codeConflict, resp.Error.Code)

	resp = call(t, server, "rights_getComposerRoyalties", map[string]interface{}{
		"composer": composer, "period": 202401,
	}, nil)
	require.Nil(t, resp.Error)
	account, ok := resp.Result.(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "500000", account["totalAmount"])
}

func TestLicenseFlowOverRPC(t *testing.T) {
	server, admin := newTestServer(t, 100)

	resp := call(t, server, "rights_issueLicense", map[string]interface{}{
		"caller": admin, "compositionId": 1, "licenseType": "film",
		"startHeight": 100, "endHeight": 1100, "fee": "1000000",
	}, nil)
	require.Nil(t, resp.Error)
	issued, ok := resp.Result.(map[string]interface{})
	require.True(t, ok)
	require.EqualValues(t, 1, issued["licenseId"])

	resp = call(t, server, "rights_isLicenseValid", map[string]interface{}{"licenseId": 1}, nil)
	require.Nil(t, resp.Error)
	require.Equal(t, true, resp.Result)

	resp = call(t, server, "rights_revokeLicense", map[string]interface{}{
		"caller": admin, "licenseId": 1,
	}, nil)
	require.Nil(t, resp.Error)

	resp = call(t, server, "rights_isLicenseValid", map[string]interface{}{"licenseId": 1}, nil)
	require.Nil(t, resp.Error)
	require.Equal(t, false, resp.Result)

	resp = call(t, server, "rights_revokeLicense", map[string]interface{}{
		"caller": admin, "licenseId": 42,
	}, nil)
	require.NotNil(t, resp.Error)
	require.Equal(t, codeNotFound, resp.Error.Code)
}

func TestMethodNotFound(t *testing.T) {
	server, _ := newTestServer(t, 100)
	resp := call(t, server, "rights_unknown", map[string]interface{}{}, nil)
	require.NotNil(t, resp.Error)
	require.Equal(t, codeMethodNotFound, resp.Error.Code)
}

func TestBearerTokenGatesMutations(t *testing.T) {
	server, admin := newTestServer(t, 100)
	server.authToken = "secret"

	params := map[string]interface{}{
		"caller": admin, "composer": principal(0xB0), "name": "John Williams",
	}

	resp := call(t, server, "rights_verifyComposer", params, nil)
	require.NotNil(t, resp.Error)
	require.Equal(t, codeUnauthorized, resp.Error.Code)

	resp = call(t, server, "rights_verifyComposer", params, map[string]string{
		"Authorization": fmt.Sprintf("Bearer %s", "secret"),
	})
	require.Nil(t, resp.Error)

	// Reads stay open.
	resp = call(t, server, "rights_isVerified", map[string]interface{}{"composer": principal(0xB0)}, nil)
	require.Nil(t, resp.Error)
}

func TestStatusEndpoint(t *testing.T) {
	server, admin := newTestServer(t, 777)
	resp := call(t, server, "rights_status", map[string]interface{}{}, nil)
	require.Nil(t, resp.Error)
	status, ok := resp.Result.(map[string]interface{})
	require.True(t, ok)
	require.EqualValues(t, 777, status["height"])
	require.Equal(t, admin, status["admin"])
}
