package e2e

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TestContext holds the state of one scenario: the accounts it invented, the
// tokens minted for them and the last HTTP exchange.
type TestContext struct {
	BaseURL    string
	HTTPClient *http.Client

	signingKey []byte
	issuer     string

	nonce    string
	accounts map[string]string
	tokens   map[string]string
	vars     map[string]string

	LastStatus int
	LastBody   []byte
}

func NewTestContext(baseURL, signingKey, issuer string) *TestContext {
	tc := &TestContext{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		signingKey: []byte(signingKey),
		issuer:     issuer,
	}
	tc.Reset()
	return tc
}

// Reset clears per-scenario state. The server keeps its data between
// scenarios, so every scenario works with fresh random accounts.
func (tc *TestContext) Reset() {
	tc.nonce = randomHex(4)
	tc.accounts = map[string]string{}
	tc.tokens = map[string]string{}
	tc.vars = map[string]string{}
	tc.LastStatus = 0
	tc.LastBody = nil
}

// Nonce is unique per scenario and keeps globally scoped names apart.
func (tc *TestContext) Nonce() string {
	return tc.nonce
}

// Account returns the address behind alias, inventing one on first use.
func (tc *TestContext) Account(alias string) (string, error) {
	if addr, ok := tc.accounts[alias]; ok {
		return addr, nil
	}
	addr := "0x" + randomHex(20)
	token, err := tc.mintToken(addr)
	if err != nil {
		return "", fmt.Errorf("mint token for %s: %w", alias, err)
	}
	tc.accounts[alias] = addr
	tc.tokens[alias] = token
	return addr, nil
}

func (tc *TestContext) mintToken(subject string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    tc.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	})
	return token.SignedString(tc.signingKey)
}

func (tc *TestContext) SetVar(name, value string) {
	tc.vars[name] = value
}

func (tc *TestContext) Var(name string) (string, error) {
	v, ok := tc.vars[name]
	if !ok {
		return "", fmt.Errorf("variable %q was never saved", name)
	}
	return v, nil
}

// Request sends a JSON request as alias. An empty alias sends no token.
func (tc *TestContext) Request(method, path, alias string, body any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, tc.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if alias != "" {
		if _, err := tc.Account(alias); err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+tc.tokens[alias])
	}

	resp, err := tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	tc.LastStatus = resp.StatusCode
	tc.LastBody, err = io.ReadAll(resp.Body)
	return err
}

func (tc *TestContext) GET(path string) error {
	return tc.Request(http.MethodGet, path, "", nil)
}

func (tc *TestContext) Status() int {
	return tc.LastStatus
}

func (tc *TestContext) Body() []byte {
	return tc.LastBody
}

// ResponseField returns a top-level field of the last JSON response.
func (tc *TestContext) ResponseField(field string) (any, error) {
	var data map[string]any
	if err := json.Unmarshal(tc.LastBody, &data); err != nil {
		return nil, fmt.Errorf("response is not a JSON object: %w (body: %s)", err, tc.LastBody)
	}
	value, ok := data[field]
	if !ok {
		return nil, fmt.Errorf("field %q not found in response: %s", field, tc.LastBody)
	}
	return value, nil
}

func randomHex(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}
