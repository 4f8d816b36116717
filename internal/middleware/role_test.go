package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireRole(t *testing.T) {
	cases := []struct {
		name     string
		allowed  []string
		role     interface{}
		wantCode int
	}{
		{"admin allowed", []string{RoleAdmin}, RoleAdmin, http.StatusOK},
		{"customer blocked from admin route", []string{RoleAdmin}, RoleCustomer, http.StatusForbidden},
		{"customer allowed on shared route", []string{RoleAdmin, RoleCustomer}, RoleCustomer, http.StatusOK},
		{"missing role", []string{RoleAdmin}, nil, http.StatusForbidden},
		{"non-string role", []string{RoleAdmin}, 42, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/v1/reservations", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			if tc.role != nil {
				c.Set("role", tc.role)
			}

			h := RequireRole(tc.allowed...)(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
			require.NoError(t, h(c))

			assert.Equal(t, tc.wantCode, rec.Code)
			if tc.wantCode == http.StatusForbidden {
				assert.JSONEq(t, `{"error":"forbidden"}`, rec.Body.String())
			}
		})
	}
}
