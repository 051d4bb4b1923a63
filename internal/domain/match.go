package domain

import (
	"strings"

	"github.com/gobwas/glob"
)

// MatchesRequest reports whether the permission covers the given request.
// A permission declaring neither method nor path matches any request (it is
// a resource/action-level grant). A declared method must equal the request
// method case-insensitively. A declared path is matched in three tiers,
// first match wins: exact equality, shell-glob wildcards, and {param}
// path segments.
//
// The check is a pure function of the permission's immutable pattern data
// and is safe for unsynchronized concurrent use on the authorization hot
// path.
func (p *Permission) MatchesRequest(method, path string) bool {
	if p.Method == "" && p.Path == "" {
		return true
	}

	if p.Method != "" && !strings.EqualFold(p.Method, method) {
		return false
	}

	if p.Path != "" && !pathMatches(p.Path, path) {
		return false
	}

	return true
}

// pathMatches checks a request path against a pattern using the three
// matching tiers.
func pathMatches(pattern, path string) bool {
	if pattern == path {
		return true
	}

	// Shell-glob semantics: * matches any run of characters, including
	// across / boundaries.
	if strings.Contains(pattern, "*") {
		g, err := glob.Compile(pattern)
		if err != nil {
			return false
		}

		return g.Match(path)
	}

	if strings.Contains(pattern, "{") && strings.Contains(pattern, "}") {
		return paramSegmentsMatch(pattern, path)
	}

	return false
}

// paramSegmentsMatch matches patterns like /users/{id}: both sides must have
// the same number of /-separated segments, a {param} segment matches any
// non-empty actual segment, and every other segment must match literally.
func paramSegmentsMatch(pattern, path string) bool {
	patternParts := strings.Split(pattern, "/")
	pathParts := strings.Split(path, "/")

	if len(patternParts) != len(pathParts) {
		return false
	}

	for i, part := range patternParts {
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			if pathParts[i] == "" {
				return false
			}

			continue
		}

		if part != pathParts[i] {
			return false
		}
	}

	return true
}
