package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/fleet-payroll-go/internal/domain/auth"
	"github.com/stretchr/testify/assert"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func serve(h http.Handler, p *auth.Principal) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if p != nil {
		req = req.WithContext(WithPrincipal(req.Context(), *p))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAdminOnly(t *testing.T) {
	h := AdminOnly(okHandler)

	assert.Equal(t, http.StatusNoContent, serve(h, &auth.Principal{UserID: "u1", Role: auth.RoleAdmin}).Code)
	assert.Equal(t, http.StatusForbidden, serve(h, &auth.Principal{UserID: "u2", DriverID: "d1", Role: auth.RoleDriver}).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(h, nil).Code)
}

func TestRequireDriver(t *testing.T) {
	h := RequireDriver(okHandler)

	assert.Equal(t, http.StatusNoContent, serve(h, &auth.Principal{UserID: "u1", DriverID: "d1", Role: auth.RoleDriver}).Code)
	assert.Equal(t, http.StatusForbidden, serve(h, &auth.Principal{UserID: "u1", Role: auth.RoleDriver}).Code)
	assert.Equal(t, http.StatusForbidden, serve(h, &auth.Principal{UserID: "u2", Role: auth.RoleAdmin}).Code)
}

func TestRequirePermission(t *testing.T) {
	h := RequirePermission(auth.PermissionPayrollConfigure)(okHandler)

	assert.Equal(t, http.StatusNoContent, serve(h, &auth.Principal{UserID: "u1", Role: auth.RoleAdmin}).Code)
	assert.Equal(t, http.StatusForbidden, serve(h, &auth.Principal{UserID: "u2", DriverID: "d1", Role: auth.RoleDriver}).Code)
}

func TestDriverRateLimiter_PerDriverBuckets(t *testing.T) {
	l := NewDriverRateLimiter(1, 2)
	h := l.Middleware(okHandler)
	d1 := &auth.Principal{UserID: "u1", DriverID: "d1", Role: auth.RoleDriver}
	d2 := &auth.Principal{UserID: "u2", DriverID: "d2", Role: auth.RoleDriver}

	assert.Equal(t, http.StatusNoContent, serve(h, d1).Code)
	assert.Equal(t, http.StatusNoContent, serve(h, d1).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(h, d1).Code)

	assert.Equal(t, http.StatusNoContent, serve(h, d2).Code)
}
