package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if RoleFromContext(r.Context()) == "" {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware_NoToken(t *testing.T) {
	mw := NewMiddleware([]byte("test-secret"), NewDefaultPolicy(nil, nil))
	handler := mw.Wrap(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/1/balance", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestAuthMiddleware_RolePolicy(t *testing.T) {
	secret := []byte("test-secret")
	mw := NewMiddleware(secret, NewDefaultPolicy([]string{"/healthz"}, nil))
	handler := mw.Wrap(okHandler())

	cases := []struct {
		name   string
		role   string
		method string
		path   string
		want   int
	}{
		{"viewer reads balance", "viewer", http.MethodGet, "/api/v1/users/1/balance", http.StatusOK},
		{"viewer reads roster", "viewer", http.MethodGet, "/api/v1/communities/1/members", http.StatusOK},
		{"viewer cannot register", "viewer", http.MethodPost, "/api/v1/communities/1/members", http.StatusForbidden},
		{"operator registers", "operator", http.MethodPost, "/api/v1/communities/1/members", http.StatusOK},
		{"operator cannot consume credit", "operator", http.MethodPost, "/api/v1/credits/1/consume", http.StatusForbidden},
		{"operator cannot close contract", "operator", http.MethodPost, "/api/v1/contracts/1/status", http.StatusForbidden},
		{"admin closes contract", "admin", http.MethodPost, "/api/v1/contracts/1/status", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			req.Header.Set("Authorization", "Bearer "+mustToken(t, secret, tc.role))
			resp := httptest.NewRecorder()
			handler.ServeHTTP(resp, req)
			if resp.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, resp.Code)
			}
		})
	}
}

func TestAuthMiddleware_ExemptPath(t *testing.T) {
	mw := NewMiddleware([]byte("test-secret"), NewDefaultPolicy([]string{"/healthz"}, nil))
	handler := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
}

func TestParseJWT_RejectsBadTokens(t *testing.T) {
	secret := []byte("test-secret")
	if _, err := ParseJWT(mustToken(t, []byte("other"), "admin"), secret); err == nil {
		t.Fatalf("expected signature error")
	}
	if _, err := ParseJWT(mustToken(t, secret, "root"), secret); err == nil {
		t.Fatalf("expected role error")
	}
	expired := signClaims(t, secret, Claims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	if _, err := ParseJWT(expired, secret); err == nil {
		t.Fatalf("expected expiry error")
	}
}

func TestIssueToken_RoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	token, err := IssueToken(secret, "ops", RoleOperator, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := ParseJWT(token, secret)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "ops" || claims.Role != "operator" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func mustToken(t *testing.T, secret []byte, role string) string {
	t.Helper()
	return signClaims(t, secret, Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
}

func signClaims(t *testing.T, secret []byte, claims Claims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}
