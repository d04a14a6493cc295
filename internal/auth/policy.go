package auth

import (
	"net/http"
	"strings"
)

// Policy determines required roles by request. Customer-facing shop
// endpoints are exempt; everything else under /api/ is staff only.
type Policy struct {
	ExemptPaths    map[string]struct{}
	ExemptPrefixes []string
}

// NewDefaultPolicy builds a default policy with exemptions.
func NewDefaultPolicy(exemptPaths []string, exemptPrefixes []string) Policy {
	set := make(map[string]struct{}, len(exemptPaths))
	for _, path := range exemptPaths {
		set[path] = struct{}{}
	}
	return Policy{ExemptPaths: set, ExemptPrefixes: exemptPrefixes}
}

// IsExempt returns true when a request should skip auth entirely.
func (p Policy) IsExempt(r *http.Request) bool {
	if r == nil {
		return true
	}
	if _, ok := p.ExemptPaths[r.URL.Path]; ok {
		return true
	}
	for _, prefix := range p.ExemptPrefixes {
		if strings.HasPrefix(r.URL.Path, prefix) {
			return true
		}
	}

	path := r.URL.Path
	method := r.Method
	switch {
	case path == "/api/v1/events" && method == http.MethodGet:
		// Public concert listing.
		return true
	case path == "/api/v1/orders" && method == http.MethodPost:
		// Customers order without an account.
		return true
	case strings.HasPrefix(path, "/api/v1/orders/") && method == http.MethodDelete:
		// Cancellation links are protected by the delete code instead.
		return true
	}
	return false
}

// RequiredRole resolves the required role for the request.
func (p Policy) RequiredRole(r *http.Request) (Role, bool) {
	if r == nil {
		return "", false
	}
	path := r.URL.Path
	method := r.Method

	switch {
	case path == "/api/v1/reconciliation/bank-statement":
		return RoleAdmin, true
	case path == "/api/v1/reminders/run":
		return RoleAdmin, true
	case strings.HasPrefix(path, "/api/v1/orders/") && strings.HasSuffix(path, "/invoice.pdf"):
		return RoleBoxOffice, true
	case strings.HasPrefix(path, "/api/v1/orders/") && method == http.MethodGet:
		return RoleViewer, true
	}

	if strings.HasPrefix(path, "/api/") {
		if method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions {
			return RoleViewer, true
		}
		return RoleBoxOffice, true
	}
	return "", false
}
