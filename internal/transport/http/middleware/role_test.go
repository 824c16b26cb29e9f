package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-gym-api/internal/domain"
	jwtinfra "github.com/go-gym-api/internal/infrastructure/jwt"
	"github.com/stretchr/testify/assert"
)

func withRole(role string) context.Context {
	return WithClaims(context.Background(), &jwtinfra.Claims{UserID: "u1", Role: role})
}

func TestRequireRole_NoClaimsInContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	RequireRole(domain.RoleAdmin)(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRequireRole_WrongRole(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(withRole(domain.RoleClient))
	rr := httptest.NewRecorder()
	RequireRole(domain.RoleAdmin)(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestRequireRole_CorrectRole(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(withRole(domain.RoleAdmin))
	rr := httptest.NewRecorder()
	RequireRole(domain.RoleAdmin)(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRequireRole_StaffRoles(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(withRole(domain.RoleTrainer))
	rr := httptest.NewRecorder()
	RequireRole(domain.RoleAdmin, domain.RoleTrainer)(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}
