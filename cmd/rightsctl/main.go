package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"rightschain/crypto"
)

const usage = `rightsctl interacts with a rightsd JSON-RPC endpoint.

Usage:
  rightsctl [-rpc addr] [-token token] <command> [args]

Commands:
  gen-key                                         generate a principal key pair
  status                                          current height and admin
  verify <caller> <composer> <name>               verify a composer (admin only)
  is-verified <composer>
  composer <composer>                             composer details
  transfer-admin <caller> <newAdmin>
  record <caller> <compositionId> <period> <amount>
  distribute <caller> <compositionId> <period> <composer>
  payment <compositionId> <period>
  royalties <composer> <period>
  issue <caller> <compositionId> <type> <start> <end> <fee>
  revoke <caller> <licenseId>
  valid <licenseId>
  license <licenseId>
`

type client struct {
	endpoint string
	token    string
	http     *http.Client
}

func (c *client) call(method string, params interface{}) (json.RawMessage, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  method,
		"params":  []interface{}{params},
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest(http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var rpcResp struct {
		Result json.RawMessage `json:"result"`
		Error  *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return nil, err
	}
	if rpcResp.Error != nil {
		return nil, fmt.Errorf("rpc error %d: %s", rpcResp.Error.Code, rpcResp.Error.Message)
	}
	return rpcResp.Result, nil
}

func (c *client) run(method string, params interface{}) error {
	result, err := c.call(method, params)
	if err != nil {
		return err
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, result, "", "  "); err != nil {
		fmt.Println(string(result))
		return nil
	}
	fmt.Println(pretty.String())
	return nil
}

func parseUint(arg, name string) uint64 {
	v, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		fatalf("invalid %s: %v", name, err)
	}
	return v
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func requireArgs(args []string, n int) {
	if len(args) != n {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}

func genKey() error {
	key, err := crypto.GeneratePrivateKey()
	if err != nil {
		return err
	}
	fmt.Printf("principal: %s\n", key.PubKey().Address().String())
	fmt.Printf("private key: %s\n", hex.EncodeToString(key.Bytes()))
	return nil
}

func main() {
	rpcAddr := flag.String("rpc", "http://127.0.0.1:8645", "JSON-RPC endpoint")
	token := flag.String("token", strings.TrimSpace(os.Getenv("RIGHTS_RPC_TOKEN")), "bearer token for mutating calls")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}
	command, rest := args[0], args[1:]

	c := &client{endpoint: *rpcAddr, token: *token, http: &http.Client{Timeout: 10 * time.Second}}

	var err error
	switch command {
	case "gen-key":
		err = genKey()
	case "status":
		err = c.run("rights_status", map[string]interface{}{})
	case "verify":
		requireArgs(rest, 3)
		err = c.run("rights_verifyComposer", map[string]interface{}{
			"caller": rest[0], "composer": rest[1], "name": rest[2],
		})
	case "is-verified":
		requireArgs(rest, 1)
		err = c.run("rights_isVerified", map[string]interface{}{"composer": rest[0]})
	case "composer":
		requireArgs(rest, 1)
		err = c.run("rights_getComposerDetails", map[string]interface{}{"composer": rest[0]})
	case "transfer-admin":
		requireArgs(rest, 2)
		err = c.run("rights_transferAdmin", map[string]interface{}{
			"caller": rest[0], "newAdmin": rest[1],
		})
	case "record":
		requireArgs(rest, 4)
		err = c.run("rights_recordRoyaltyPayment", map[string]interface{}{
			"caller":        rest[0],
			"compositionId": parseUint(rest[1], "compositionId"),
			"period":        parseUint(rest[2], "period"),
			"amount":        rest[3],
		})
	case "distribute":
		requireArgs(rest, 4)
		err = c.run("rights_distributeRoyalties", map[string]interface{}{
			"caller":        rest[0],
			"compositionId": parseUint(rest[1], "compositionId"),
			"period":        parseUint(rest[2], "period"),
			"composer":      rest[3],
		})
	case "payment":
		requireArgs(rest, 2)
		err = c.run("rights_getRoyaltyPayment", map[string]interface{}{
			"compositionId": parseUint(rest[0], "compositionId"),
			"period":        parseUint(rest[1], "period"),
		})
	case "royalties":
		requireArgs(rest, 2)
		err = c.run("rights_getComposerRoyalties", map[string]interface{}{
			"composer": rest[0],
			"period":   parseUint(rest[1], "period"),
		})
	case "issue":
		requireArgs(rest, 6)
		err = c.run("rights_issueLicense", map[string]interface{}{
			"caller":        rest[0],
			"compositionId": parseUint(rest[1], "compositionId"),
			"licenseType":   rest[2],
			"startHeight":   parseUint(rest[3], "startHeight"),
			"endHeight":     parseUint(rest[4], "endHeight"),
			"fee":           rest[5],
		})
	case "revoke":
		requireArgs(rest, 2)
		err = c.run("rights_revokeLicense", map[string]interface{}{
			"caller":    rest[0],
			"licenseId": parseUint(rest[1], "licenseId"),
		})
	case "valid":
		requireArgs(rest, 1)
		err = c.run("rights_isLicenseValid", map[string]interface{}{"licenseId": parseUint(rest[0], "licenseId")})
	case "license":
		requireArgs(rest, 1)
		err = c.run("rights_getLicenseDetails", map[string]interface{}{"licenseId": parseUint(rest[0], "licenseId")})
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		fatalf("%v", err)
	}
}
