// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/folio/internal/platform/ctxutil"
	"github.com/taibuivan/folio/internal/platform/middleware"
	"github.com/taibuivan/folio/internal/platform/sec"
)

type fakeVerifier struct {
	claims *sec.AuthClaims
	err    error
}

func (verifier fakeVerifier) VerifyToken(string) (*sec.AuthClaims, error) {
	return verifier.claims, verifier.err
}

type fakeAppConfig struct {
	dev     bool
	origins []string
}

func (cfg fakeAppConfig) IsDevelopment() bool { return cfg.dev }
func (cfg fakeAppConfig) Origins() []string   { return cfg.origins }

func okHandler() http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

/*
TestRequestID checks that a client-supplied ID is echoed and a missing one generated.
*/
func TestRequestID(t *testing.T) {
	var seen string
	handler := middleware.RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetRequestID(request.Context())
	}))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("X-Request-ID", "abc-123")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", recorder.Header().Get("X-Request-ID"))

	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.NotEqual(t, "abc-123", seen)
	assert.Equal(t, seen, recorder.Header().Get("X-Request-ID"))
}

/*
TestAuthenticate covers anonymous, malformed, rejected and accepted bearer tokens.
*/
func TestAuthenticate(t *testing.T) {
	claims := &sec.AuthClaims{UserID: "9", Role: string(sec.RoleReader)}

	tests := []struct {
		name       string
		header     string
		verifier   fakeVerifier
		wantStatus int
		wantUser   bool
	}{
		{"anonymous", "", fakeVerifier{}, http.StatusOK, false},
		{"bad format", "Token abc", fakeVerifier{}, http.StatusUnauthorized, false},
		{"rejected", "Bearer abc", fakeVerifier{err: errors.New("expired")}, http.StatusUnauthorized, false},
		{"accepted", "Bearer abc", fakeVerifier{claims: claims}, http.StatusOK, true},
		{"lowercase scheme", "bearer abc", fakeVerifier{claims: claims}, http.StatusOK, true},
		{"empty token", "Bearer ", fakeVerifier{claims: claims}, http.StatusUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUser bool
			handler := middleware.Authenticate(tt.verifier)(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				_, gotUser = ctxutil.GetUserID(request.Context())
				writer.WriteHeader(http.StatusOK)
			}))

			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				request.Header.Set("Authorization", tt.header)
			}
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Equal(t, tt.wantUser, gotUser)
		})
	}
}

/*
TestRequireAuthAndRole verifies the 401/403 split between missing identity and missing role.
*/
func TestRequireAuthAndRole(t *testing.T) {
	withClaims := func(claims *sec.AuthClaims) *http.Request {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		if claims != nil {
			request = request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
		}
		return request
	}

	reader := &sec.AuthClaims{UserID: "3", Role: string(sec.RoleReader)}
	admin := &sec.AuthClaims{UserID: "1", Role: string(sec.RoleAdmin)}

	recorder := httptest.NewRecorder()
	middleware.RequireAuth(okHandler()).ServeHTTP(recorder, withClaims(nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = httptest.NewRecorder()
	middleware.RequireAuth(okHandler()).ServeHTTP(recorder, withClaims(reader))
	assert.Equal(t, http.StatusOK, recorder.Code)

	adminOnly := middleware.RequireRole(sec.RoleAdmin)(okHandler())

	recorder = httptest.NewRecorder()
	adminOnly.ServeHTTP(recorder, withClaims(nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = httptest.NewRecorder()
	adminOnly.ServeHTTP(recorder, withClaims(reader))
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	recorder = httptest.NewRecorder()
	adminOnly.ServeHTTP(recorder, withClaims(admin))
	assert.Equal(t, http.StatusOK, recorder.Code)
}

/*
TestRateLimiter checks that a client is cut off once its burst is spent
while other clients keep their own budget.
*/
func TestRateLimiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := middleware.NewRateLimiter(ctx, 0.001, 2).Handler(okHandler())

	send := func(ip string) int {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("X-Real-IP", ip)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		return recorder.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1"))
	assert.Equal(t, http.StatusOK, send("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1"))
	assert.Equal(t, http.StatusOK, send("10.0.0.2"))
}

/*
TestPanicRecovery turns a panicking handler into a 500 envelope.
*/
func TestPanicRecovery(t *testing.T) {
	handler := middleware.PanicRecovery(discardLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	recorder := httptest.NewRecorder()
	require.NotPanics(t, func() {
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "INTERNAL_ERROR")
}

/*
TestCORS checks that only configured origins are reflected outside development.
*/
func TestCORS(t *testing.T) {
	handler := middleware.CORS(fakeAppConfig{origins: []string{"https://folio.app"}})(okHandler())

	preflight := func(origin string) *httptest.ResponseRecorder {
		request := httptest.NewRequest(http.MethodOptions, "/api/v1/catalog/books", nil)
		request.Header.Set("Origin", origin)
		request.Header.Set("Access-Control-Request-Method", http.MethodGet)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		return recorder
	}

	assert.Equal(t, "https://folio.app", preflight("https://folio.app").Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, preflight("https://evil.example").Header().Get("Access-Control-Allow-Origin"))
}

/*
TestRealIP follows the proxy header precedence.
*/
func TestRealIP(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.RemoteAddr = "192.168.1.5:5555"
	assert.Equal(t, "192.168.1.5", middleware.RealIP(request))

	request.Header.Set("X-Forwarded-For", "1.1.1.1, 2.2.2.2")
	assert.Equal(t, "1.1.1.1", middleware.RealIP(request))

	request.Header.Set("X-Real-IP", "3.3.3.3")
	assert.Equal(t, "3.3.3.3", middleware.RealIP(request))
}
