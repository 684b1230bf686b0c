package problems

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
)

// Problem type slugs for the claims pipeline error taxonomy.
const (
	SlugInvalidIdentifier = "invalid-identifier"
	SlugMalformedRequest  = "malformed-request"
	SlugStoreUnavailable  = "store-unavailable"
	SlugUnauthorized      = "unauthorized"
)

// Base returns the base URL for problem type identifiers.
// Order of precedence:
// 1. PROBLEM_BASE_URL (exact base, e.g. https://mydomain.com/problems)
// 2. BASE_PUBLIC_URL + "/problems" (if set)
// 3. https://example.com/problems (fallback)
func Base() string {
	if b := os.Getenv("PROBLEM_BASE_URL"); b != "" {
		return strings.TrimRight(b, "/")
	}
	if b := os.Getenv("BASE_PUBLIC_URL"); b != "" {
		return strings.TrimRight(b, "/") + "/problems"
	}
	return "https://example.com/problems"
}

// Type builds a full problem type URL for the given slug.
func Type(slug string) string { return Base() + "/" + slug }

// Write emits an RFC 7807 style problem document. The detail string is the
// caller-safe message; internal error context stays in server logs only.
func Write(w http.ResponseWriter, slug, detail string, status int) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"type":   Type(slug),
		"title":  slug,
		"status": status,
		"detail": detail,
	})
}
