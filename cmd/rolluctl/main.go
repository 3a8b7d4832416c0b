// SPDX-License-Identifier: MIT
// Dev: KryperAI

package main

import (
	"bytes"
	"crypto/ecdsa"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"kryprollup/secp256k1"
	"kryprollup/types"
)

const defaultRPC = "http://localhost:8545"

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}
	switch os.Args[1] {
	case "newkey":
		cmdNewKey()
	case "account":
		cmdAccount()
	case "send":
		cmdSend()
	default:
		usage()
	}
}

func usage() {
	fmt.Println("rolluctl commands:")
	fmt.Println("  rolluctl newkey")
	fmt.Println("  rolluctl account -index N [-rpc URL]")
	fmt.Println("  rolluctl send -priv HEX -from N -to N -token HEX -amount N [-fee-token HEX] [-fee-amount N] [-nonce N] [-rpc URL]")
}

func cmdNewKey() {
	priv, err := ethcrypto.GenerateKey()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("PrivateKey:", hex.EncodeToString(ethcrypto.FromECDSA(priv)))
	fmt.Println("PubkeyHash:", secp256k1.PubkeyHashOf(priv).String())
}

func cmdAccount() {
	fs := flag.NewFlagSet("account", flag.ExitOnError)
	rpcURL := fs.String("rpc", defaultRPC, "")
	index := fs.Uint64("index", 0, "")
	_ = fs.Parse(os.Args[2:])

	url := fmt.Sprintf("%s/account?index=%d", *rpcURL, *index)
	fmt.Println(string(httpGet(url)))
}

func cmdSend() {
	fs := flag.NewFlagSet("send", flag.ExitOnError)
	rpcURL := fs.String("rpc", defaultRPC, "")
	privHex := fs.String("priv", "", "")
	from := fs.Uint64("from", 0, "")
	to := fs.Uint64("to", 0, "")
	token := fs.String("token", "", "")
	amount := fs.Uint64("amount", 0, "")
	feeToken := fs.String("fee-token", "", "")
	feeAmount := fs.Uint64("fee-amount", 0, "")
	nonce := fs.Uint64("nonce", 0, "")
	_ = fs.Parse(os.Args[2:])

	if *privHex == "" || *amount == 0 {
		log.Fatal("missing -priv or -amount")
	}

	priv := loadKey(*privHex)

	tokenID := types.NativeTokenID
	if *token != "" {
		tokenID = parseTokenID(*token)
	}
	feeTokenID := tokenID
	if *feeToken != "" {
		feeTokenID = parseTokenID(*feeToken)
	}

	tx := &types.Tx{
		SenderIndex: *from,
		ToIndex:     *to,
		Fee:         types.TokenAmount{Token: feeTokenID, Amount: *feeAmount},
		Amount:      types.TokenAmount{Token: tokenID, Amount: *amount},
		Nonce:       uint32(*nonce),
	}

	sig, err := secp256k1.Sign(priv, tx.SigningMessage())
	if err != nil {
		log.Fatal(err)
	}
	tx.Witness = sig

	data, err := json.Marshal(tx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(httpPost(*rpcURL+"/tx/send", data)))
}

func httpGet(url string) []byte {
	resp, err := http.Get(url)
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return body
}

func httpPost(url string, data []byte) []byte {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		log.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return body
}

func loadKey(hexStr string) *ecdsa.PrivateKey {
	hexStr = strings.TrimPrefix(strings.TrimSpace(hexStr), "0x")
	b, err := hex.DecodeString(hexStr)
	if err != nil {
		log.Fatalf("invalid private key hex: %v", err)
	}
	priv, err := ethcrypto.ToECDSA(b)
	if err != nil {
		log.Fatalf("invalid private key: %v", err)
	}
	return priv
}

func parseTokenID(s string) types.TokenID {
	var t types.TokenID
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != len(t) {
		log.Fatalf("invalid token id %q", s)
	}
	copy(t[:], b)
	return t
}
