package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"
)

// End-to-end smoke test against a running API: mint a token, allocate two
// order numbers and check they are distinct and increasing.
func main() {
	base := os.Getenv("TIMBAL_API_URL")
	if base == "" {
		base = "http://localhost:8080"
	}

	client := &http.Client{Timeout: 5 * time.Second}

	token := obtainToken(client, base)

	first := allocate(client, base, token)
	second := allocate(client, base, token)

	if second.Sequence <= first.Sequence {
		log.Fatalf("sequence not increasing: %d then %d", first.Sequence, second.Sequence)
	}
	if first.Number == second.Number {
		log.Fatalf("duplicate order number %q", first.Number)
	}
	if !first.Reserved || !second.Reserved {
		log.Fatalf("allocated numbers must be reserved: %+v %+v", first, second)
	}

	fmt.Printf("smoke test passed: %s, %s\n", first.Number, second.Number)
}

type tokenResponse struct {
	Token string `json:"token"`
}

type orderNumber struct {
	Scope    string `json:"scope"`
	Sequence int64  `json:"sequence"`
	Number   string `json:"number"`
	Reserved bool   `json:"reserved"`
}

func obtainToken(client *http.Client, base string) string {
	user := os.Getenv("TIMBAL_SMOKE_USER")
	if user == "" {
		user = "00000000-0000-0000-0000-000000000001"
	}
	email := os.Getenv("TIMBAL_SMOKE_EMAIL")
	if email == "" {
		email = "gerencia@timbal.com.mx"
	}

	var resp tokenResponse
	postJSON(client, base+"/v1/auth/token", "", map[string]any{
		"user":  user,
		"email": email,
	}, &resp)
	if resp.Token == "" {
		log.Fatal("empty token issued")
	}
	return resp.Token
}

func allocate(client *http.Client, base, token string) orderNumber {
	var resp orderNumber
	postJSON(client, base+"/v1/orders/number", token, map[string]any{}, &resp)
	if resp.Number == "" {
		log.Fatal("empty order number")
	}
	return resp
}

func postJSON(client *http.Client, url, token string, body, out any) {
	payload, err := json.Marshal(body)
	if err != nil {
		log.Fatalf("marshal: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		log.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("post %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatalf("post %s: status %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Fatalf("decode %s: %v", url, err)
	}
}
