package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mtunzisteven/foodStorageManager/internal/auth"
	"github.com/mtunzisteven/foodStorageManager/internal/ownership"
	"github.com/mtunzisteven/foodStorageManager/internal/sequence"
	"github.com/mtunzisteven/foodStorageManager/internal/service"
	"github.com/mtunzisteven/foodStorageManager/internal/storage/sqlite"
)

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "foodstorage-http-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	allocator, err := sequence.New(context.Background(), store, slog.Default())
	if err != nil {
		t.Fatalf("failed to create allocator: %v", err)
	}

	jwtManager := auth.NewJWTManager("test-secret-test-secret", time.Hour)
	guard := ownership.NewGuard(store)
	users := service.NewUserService(store, allocator, jwtManager, slog.Default())
	pantry := service.NewPantryService(store, store, allocator, guard, slog.Default())

	srv := httptest.NewServer(New(users, pantry, jwtManager).Routes())
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil && err != io.EOF {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp, decoded
}

func signupAndLogin(t *testing.T, srv *httptest.Server, email string) string {
	t.Helper()

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/auth/signup", "", map[string]any{
		"email": email, "password": "hunter2hunter2", "familySize": 3,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup returned %d", resp.StatusCode)
	}

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/auth/login", "", map[string]any{
		"email": email, "password": "hunter2hunter2",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login returned %d", resp.StatusCode)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("login returned no token")
	}
	return token
}

func errorKind(body map[string]any) string {
	errObj, _ := body["error"].(map[string]any)
	kind, _ := errObj["kind"].(string)
	return kind
}

func TestSignupAndLogin(t *testing.T) {
	srv := setupTestServer(t)

	t.Run("signup returns the created user", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodPost, srv.URL+"/auth/signup", "", map[string]any{
			"email": "alice@example.com", "password": "hunter2hunter2", "familySize": 4,
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("status = %d, want 201", resp.StatusCode)
		}
		user, _ := body["user"].(map[string]any)
		if user["email"] != "alice@example.com" {
			t.Errorf("user = %+v", user)
		}
		if user["id"].(float64) != 1 {
			t.Errorf("id = %v, want 1", user["id"])
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodPost, srv.URL+"/auth/signup", "", map[string]any{
			"email": "alice@example.com", "password": "hunter2hunter2",
		})
		if resp.StatusCode != http.StatusConflict {
			t.Errorf("status = %d, want 409", resp.StatusCode)
		}
		if errorKind(body) != "duplicate_email" {
			t.Errorf("kind = %q, want duplicate_email", errorKind(body))
		}
	})

	t.Run("weak password", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodPost, srv.URL+"/auth/signup", "", map[string]any{
			"email": "bob@example.com", "password": "short",
		})
		if resp.StatusCode != http.StatusUnprocessableEntity {
			t.Errorf("status = %d, want 422", resp.StatusCode)
		}
		if errorKind(body) != "validation" {
			t.Errorf("kind = %q, want validation", errorKind(body))
		}
	})

	t.Run("bad credentials", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodPost, srv.URL+"/auth/login", "", map[string]any{
			"email": "alice@example.com", "password": "not the password",
		})
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", resp.StatusCode)
		}
		if errorKind(body) != "authentication" {
			t.Errorf("kind = %q, want authentication", errorKind(body))
		}
	})
}

func TestAuthRequired(t *testing.T) {
	srv := setupTestServer(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/pantry"},
		{http.MethodGet, "/pantry/products"},
		{http.MethodPost, "/pantry/products"},
		{http.MethodDelete, "/pantry/products/1"},
		{http.MethodPatch, "/user/update"},
	} {
		resp, body := doJSON(t, tc.method, srv.URL+tc.path, "", nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("%s %s: status = %d, want 401", tc.method, tc.path, resp.StatusCode)
		}
		if errorKind(body) != "authentication" {
			t.Errorf("%s %s: kind = %q, want authentication", tc.method, tc.path, errorKind(body))
		}
	}
}

func TestProductLifecycle(t *testing.T) {
	srv := setupTestServer(t)
	ownerToken := signupAndLogin(t, srv, "owner@example.com")
	intruderToken := signupAndLogin(t, srv, "intruder@example.com")

	expiry := time.Now().Add(14 * 24 * time.Hour).UnixMilli()

	var productID int64
	t.Run("create", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodPost, srv.URL+"/pantry/products", ownerToken, map[string]any{
			"name": "Rice", "servings": "4", "expiryDate": expiry,
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("status = %d, want 201: %+v", resp.StatusCode, body)
		}
		product, _ := body["product"].(map[string]any)
		productID = int64(product["id"].(float64))
		if productID < 1 {
			t.Fatalf("product id = %d", productID)
		}
		if product["name"] != "Rice" || product["servings"] != "4" {
			t.Errorf("product = %+v", product)
		}
	})

	t.Run("list shows only the owner's products", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodGet, srv.URL+"/pantry/products", ownerToken, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
		if body["total"].(float64) != 1 {
			t.Errorf("total = %v, want 1", body["total"])
		}

		resp, body = doJSON(t, http.MethodGet, srv.URL+"/pantry/products", intruderToken, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
		if body["total"].(float64) != 0 {
			t.Errorf("intruder sees total = %v, want 0", body["total"])
		}
	})

	t.Run("non-owner gets 403 for an existing product", func(t *testing.T) {
		url := fmt.Sprintf("%s/pantry/products/%d", srv.URL, productID)
		resp, body := doJSON(t, http.MethodPut, url, intruderToken, map[string]any{
			"name": "Stolen", "servings": "1", "expiryDate": expiry,
		})
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("status = %d, want 403", resp.StatusCode)
		}
		if errorKind(body) != "authorization" {
			t.Errorf("kind = %q, want authorization", errorKind(body))
		}
	})

	t.Run("anyone gets 404 for an absent product", func(t *testing.T) {
		url := srv.URL + "/pantry/products/424242"
		for _, token := range []string{ownerToken, intruderToken} {
			resp, body := doJSON(t, http.MethodDelete, url, token, nil)
			if resp.StatusCode != http.StatusNotFound {
				t.Errorf("status = %d, want 404", resp.StatusCode)
			}
			if errorKind(body) != "not_found" {
				t.Errorf("kind = %q, want not_found", errorKind(body))
			}
		}
	})

	t.Run("owner updates and deletes", func(t *testing.T) {
		url := fmt.Sprintf("%s/pantry/products/%d", srv.URL, productID)

		resp, body := doJSON(t, http.MethodPut, url, ownerToken, map[string]any{
			"name": "Brown Rice", "servings": "5", "expiryDate": expiry,
		})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("update status = %d: %+v", resp.StatusCode, body)
		}

		resp, _ = doJSON(t, http.MethodDelete, url, ownerToken, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("delete status = %d", resp.StatusCode)
		}

		// The pantry no longer references the deleted product.
		resp, body = doJSON(t, http.MethodGet, srv.URL+"/pantry", ownerToken, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("pantry status = %d", resp.StatusCode)
		}
		items, _ := body["items"].([]any)
		if len(items) != 0 {
			t.Errorf("pantry = %+v, want empty", items)
		}
	})
}

func TestUpdateUserEndpoint(t *testing.T) {
	srv := setupTestServer(t)
	token := signupAndLogin(t, srv, "alice@example.com")

	resp, body := doJSON(t, http.MethodPatch, srv.URL+"/user/update", token, map[string]any{
		"familySize": 7,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %+v", resp.StatusCode, body)
	}
	user, _ := body["user"].(map[string]any)
	if user["familySize"].(float64) != 7 {
		t.Errorf("familySize = %v, want 7", user["familySize"])
	}
}
