package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/splitledger/splitledger/internal/auth"
	"github.com/splitledger/splitledger/internal/service"
	"github.com/splitledger/splitledger/internal/storage/sqlite"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	tempDir, err := os.MkdirTemp("", "splitledger-http-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	srv := New(
		service.NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager, store),
		service.NewGroupService(store),
		service.NewExpenseService(store),
		service.NewSettlementService(store),
		service.NewStatementService(store),
		jwtManager,
	)
	return srv.App()
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}

	var decoded map[string]any
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("%s %s returned invalid JSON: %v", method, path, err)
		}
	}
	return resp, decoded
}

func register(t *testing.T, app *fiber.App, name string) (userID, token string) {
	t.Helper()
	resp, body := doJSON(t, app, "POST", "/api/auth/register", "", map[string]any{
		"email":        name + "@example.com",
		"display_name": name,
		"password":     "password123",
	})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("register %s: status = %d", name, resp.StatusCode)
	}
	user := body["user"].(map[string]any)
	return user["id"].(string), body["token"].(string)
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t)
	resp, body := doJSON(t, app, "GET", "/healthz", "", nil)
	if resp.StatusCode != fiber.StatusOK || body["status"] != "ok" {
		t.Errorf("healthz = %d %v", resp.StatusCode, body)
	}
}

func TestAuthRequired(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, "GET", "/api/groups", "", nil)
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401 without token", resp.StatusCode)
	}

	resp, _ = doJSON(t, app, "GET", "/api/groups", "not-a-token", nil)
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401 with garbage token", resp.StatusCode)
	}
}

func TestExpenseAndSettlementFlow(t *testing.T) {
	app := newTestApp(t)

	aliceID, aliceToken := register(t, app, "alice")
	bobID, bobToken := register(t, app, "bob")
	carolID, _ := register(t, app, "carol")

	// Group with all three members.
	resp, group := doJSON(t, app, "POST", "/api/groups", aliceToken, map[string]any{
		"name":     "Dinner",
		"currency": "USD",
		"members":  []string{bobID, carolID},
	})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("create group: status = %d (%v)", resp.StatusCode, group)
	}
	groupID := group["id"].(string)

	// Expense of 300.00 paid by alice, split equally three ways.
	resp, _ = doJSON(t, app, "POST", fmt.Sprintf("/api/groups/%s/expenses", groupID), aliceToken, map[string]any{
		"description":  "Dinner",
		"amount":       30000,
		"split_type":   "equal",
		"payers":       []map[string]any{{"user_id": aliceID, "amount_paid": 30000}},
		"participants": []string{aliceID, bobID, carolID},
	})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("create expense: status = %d", resp.StatusCode)
	}

	t.Run("bad percentage directive is a 400", func(t *testing.T) {
		resp, _ := doJSON(t, app, "POST", fmt.Sprintf("/api/groups/%s/expenses", groupID), aliceToken, map[string]any{
			"description": "Broken",
			"amount":      10000,
			"split_type":  "percentage",
			"payers":      []map[string]any{{"user_id": aliceID, "amount_paid": 10000}},
			"percents": []map[string]any{
				{"user_id": aliceID, "percent": 50},
				{"user_id": bobID, "percent": 49},
			},
		})
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})

	t.Run("balances", func(t *testing.T) {
		resp, body := doJSON(t, app, "GET", fmt.Sprintf("/api/groups/%s/balances", groupID), aliceToken, nil)
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		balances := body["balances"].(map[string]any)
		if balances[aliceID].(float64) != 20000 {
			t.Errorf("alice balance = %v, want 20000", balances[aliceID])
		}
		if balances[bobID].(float64) != -10000 {
			t.Errorf("bob balance = %v, want -10000", balances[bobID])
		}
	})

	var settlementID string
	t.Run("recalculate settlements", func(t *testing.T) {
		resp, body := doJSON(t, app, "POST", fmt.Sprintf("/api/groups/%s/settlements", groupID), aliceToken, nil)
		if resp.StatusCode != fiber.StatusCreated {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		settlements := body["settlements"].([]any)
		if len(settlements) != 2 {
			t.Fatalf("got %d settlements, want 2", len(settlements))
		}
		first := settlements[0].(map[string]any)
		if first["to_user_id"] != aliceID || first["amount"].(float64) != 10000 {
			t.Errorf("settlement = %v, want 10000 owed to alice", first)
		}
		settlementID = first["id"].(string)
	})

	t.Run("non-creditor cannot complete", func(t *testing.T) {
		resp, _ := doJSON(t, app, "POST", "/api/settlements/"+settlementID+"/complete", bobToken, nil)
		if resp.StatusCode != fiber.StatusForbidden {
			t.Errorf("status = %d, want 403", resp.StatusCode)
		}
	})

	t.Run("creditor completes", func(t *testing.T) {
		resp, body := doJSON(t, app, "POST", "/api/settlements/"+settlementID+"/complete", aliceToken, nil)
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		if body["status"] != "completed" {
			t.Errorf("status field = %v, want completed", body["status"])
		}
	})

	t.Run("double complete is a 409", func(t *testing.T) {
		resp, _ := doJSON(t, app, "POST", "/api/settlements/"+settlementID+"/complete", aliceToken, nil)
		if resp.StatusCode != fiber.StatusConflict {
			t.Errorf("status = %d, want 409", resp.StatusCode)
		}
	})

	t.Run("missing settlement is a 404", func(t *testing.T) {
		resp, _ := doJSON(t, app, "POST", "/api/settlements/does-not-exist/complete", aliceToken, nil)
		if resp.StatusCode != fiber.StatusNotFound {
			t.Errorf("status = %d, want 404", resp.StatusCode)
		}
	})

	t.Run("statement pdf", func(t *testing.T) {
		req := httptest.NewRequest("GET", fmt.Sprintf("/api/groups/%s/statement", groupID), nil)
		req.Header.Set("Authorization", "Bearer "+aliceToken)
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatalf("statement request failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); ct != "application/pdf" {
			t.Errorf("content type = %q, want application/pdf", ct)
		}
		raw, _ := io.ReadAll(resp.Body)
		if !bytes.HasPrefix(raw, []byte("%PDF")) {
			t.Error("response body is not a PDF document")
		}
	})
}
