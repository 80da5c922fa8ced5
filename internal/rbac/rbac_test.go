package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCheckerHas(t *testing.T) {
	c := NewChecker(map[string][]string{
		"learner": {"gradebook:read", "reports:*"},
		"admin":   {"*"},
	})
	cases := []struct {
		role, perm string
		want       bool
	}{
		{"learner", "gradebook:read", true},
		{"learner", "reports:save", true},
		{"learner", "reports", false},
		{"learner", "gradebook:write", false},
		{"admin", "anything:at-all", true},
		{"ghost", "gradebook:read", false},
	}
	for _, tc := range cases {
		if got := c.Has(tc.role, tc.perm); got != tc.want {
			t.Errorf("Has(%q,%q)=%v want %v", tc.role, tc.perm, got, tc.want)
		}
	}
	if !c.Any("learner", "gradebook:write", "gradebook:read") {
		t.Fatal("Any should match one permission")
	}
	if c.All("learner", "gradebook:write", "gradebook:read") {
		t.Fatal("All should fail when one permission is missing")
	}
	if c.All("learner") {
		t.Fatal("All with no permissions grants nothing")
	}
}

func TestDefaultPolicy(t *testing.T) {
	c := NewChecker(nil)
	if !c.All("learner", "gradebook:read", "gradebook:write", "gradebook:optimize", "gradebook:export") {
		t.Fatal("learner must manage gradebooks")
	}
	if c.Has("auditor", "gradebook:write") {
		t.Fatal("auditor must be read-only")
	}
}

func TestRequire(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })
	h := Require("gradebook:write")(ok)

	cases := []struct {
		role string
		want int
	}{
		{"", http.StatusForbidden},
		{"auditor", http.StatusForbidden},
		{"learner", http.StatusTeapot},
		{"admin", http.StatusTeapot},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		if tc.role != "" {
			req = req.WithContext(WithRole(req.Context(), tc.role))
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != tc.want {
			t.Errorf("role %q: status %d want %d", tc.role, rec.Code, tc.want)
		}
	}
}

func TestRequireAnyAll(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithRole(req.Context(), "auditor"))

	rec := httptest.NewRecorder()
	RequireAny("gradebook:write", "gradebook:read")(ok).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("RequireAny: status %d", rec.Code)
	}
	rec = httptest.NewRecorder()
	RequireAll("gradebook:write", "gradebook:read")(ok).ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("RequireAll: status %d", rec.Code)
	}
	if !Allowed(req.Context(), "assets:read") || Allowed(req.Context(), "assets:any") {
		t.Fatal("Allowed disagrees with the default policy")
	}
}
