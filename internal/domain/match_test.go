package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchesRequest(t *testing.T) {
	testCases := []struct {
		name    string
		method  string
		path    string
		reqMeth string
		reqPath string
		want    bool
	}{
		{
			name:    "no method and no path matches anything",
			reqMeth: "DELETE", reqPath: "/anything/at/all",
			want: true,
		},
		{
			name:   "method only matches case-insensitively",
			method: "GET", reqMeth: "get", reqPath: "/whatever",
			want: true,
		},
		{
			name:   "method mismatch fails immediately",
			method: "GET", path: "/api/v1/users",
			reqMeth: "POST", reqPath: "/api/v1/users",
			want: false,
		},
		{
			name:   "exact path match",
			method: "GET", path: "/api/v1/users",
			reqMeth: "GET", reqPath: "/api/v1/users",
			want: true,
		},
		{
			name:   "param segment matches any value",
			method: "GET", path: "/users/{id}",
			reqMeth: "GET", reqPath: "/users/42",
			want: true,
		},
		{
			name:   "param segment matches non-numeric value",
			method: "GET", path: "/users/{id}",
			reqMeth: "GET", reqPath: "/users/abc",
			want: true,
		},
		{
			name:   "param segment requires equal segment count",
			method: "GET", path: "/users/{id}",
			reqMeth: "GET", reqPath: "/users/42/roles",
			want: false,
		},
		{
			name:   "param segment rejects empty segment",
			method: "GET", path: "/users/{id}",
			reqMeth: "GET", reqPath: "/users/",
			want: false,
		},
		{
			name:   "glob wildcard crosses segment boundaries",
			method: "GET", path: "/users/*",
			reqMeth: "GET", reqPath: "/users/42/roles",
			want: true,
		},
		{
			name:   "glob wildcard mismatch",
			method: "GET", path: "/users/*",
			reqMeth: "GET", reqPath: "/roles/42",
			want: false,
		},
		{
			name:   "literal segments must match",
			method: "GET", path: "/users/{id}/roles",
			reqMeth: "GET", reqPath: "/users/42/groups",
			want: false,
		},
		{
			name: "path without method still matches any method",
			path: "/users/{id}",
			reqMeth: "DELETE", reqPath: "/users/42",
			want: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := &Permission{
				Name:     "probe",
				Code:     "probe.check",
				Resource: "probe",
				Action:   "check",
				Method:   tc.method,
				Path:     tc.path,
			}

			assert.Equal(t, tc.want, p.MatchesRequest(tc.reqMeth, tc.reqPath))
		})
	}
}

func TestMatchesRequestIsPure(t *testing.T) {
	p := &Permission{Method: "GET", Path: "/users/{id}"}

	// Repeated invocation on the same pattern data must be deterministic.
	for i := 0; i < 100; i++ {
		assert.True(t, p.MatchesRequest("GET", "/users/42"))
		assert.False(t, p.MatchesRequest("GET", "/users/42/roles"))
	}
}
