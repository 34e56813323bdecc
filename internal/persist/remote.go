package persist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mahamantras2024-ux/Study-planner/internal/plan"
	"github.com/mahamantras2024-ux/Study-planner/internal/timer"
)

// Remote syncs the item list over HTTP with bearer-token auth. Timer state
// and the token itself stay in the local store, matching the reference
// client's local-storage layout.
type Remote struct {
	base   string
	token  string
	client *http.Client
	local  *Local
}

func NewRemote(base, token string, local *Local) *Remote {
	return &Remote{
		base:   strings.TrimRight(base, "/"),
		token:  token,
		client: &http.Client{Timeout: 10 * time.Second},
		local:  local,
	}
}

func (r *Remote) Close() error {
	if r.local != nil {
		return r.local.Close()
	}
	return nil
}

// LoadItems fetches the full item list. The server identifies the user by
// token; the user argument only matters for the local fallback paths.
func (r *Remote) LoadItems(user string) ([]plan.Item, error) {
	req, err := http.NewRequest(http.MethodGet, r.base+"/modules", nil)
	if err != nil {
		return nil, fmt.Errorf("build load request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+r.token)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("load items: %s", responseMessage(resp))
	}

	var items []plan.Item
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	return items, nil
}

// SaveItems replaces the server-side list with the full local one.
// Incremental writes are not part of the contract.
func (r *Remote) SaveItems(user string, items []plan.Item) error {
	body, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}

	req, err := http.NewRequest(http.MethodPut, r.base+"/modules", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build save request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+r.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("save items: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("save items: %s", responseMessage(resp))
	}
	return nil
}

func (r *Remote) LoadTimer(user string) (timer.State, error) {
	return r.local.LoadTimer(user)
}

func (r *Remote) SaveTimer(user string, state timer.State) error {
	return r.local.SaveTimer(user, state)
}

type authResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a bearer token. A 2xx response without a
// token field is treated as an error.
func Login(base, username, password string) (string, error) {
	return authRequest(base, "/auth/login", username, password)
}

// Register creates an account and returns its first token.
func Register(base, username, password string) (string, error) {
	return authRequest(base, "/auth/register", username, password)
}

func authRequest(base, path, username, password string) (string, error) {
	body, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return "", fmt.Errorf("marshal credentials: %w", err)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Post(strings.TrimRight(base, "/")+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("auth request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("auth failed: %s", responseMessage(resp))
	}

	var auth authResponse
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		return "", fmt.Errorf("decode auth response: %w", err)
	}
	if auth.Token == "" {
		return "", fmt.Errorf("auth response missing token")
	}
	return auth.Token, nil
}

// responseMessage extracts a human-readable message from an error
// response, preferring the {error:{message}} envelope over the raw body.
func responseMessage(resp *http.Response) string {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error.Message != "" {
		return fmt.Sprintf("%s: %s", resp.Status, envelope.Error.Message)
	}

	text := strings.TrimSpace(string(raw))
	if text == "" {
		return resp.Status
	}
	return fmt.Sprintf("%s: %s", resp.Status, text)
}
