// pkg/middleware/authparty.go
package middleware

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// RejectReason classifies why an authorized-party check failed. The reason is
// logged server-side; callers only ever see a generic 401.
type RejectReason string

const (
	RejectNoVersionClaim              RejectReason = "no_version_claim"
	RejectUnsupportedVersionOrNoParty RejectReason = "unsupported_version_or_missing_party_claim"
	RejectMalformedPartyIdentifier    RejectReason = "malformed_party_identifier"
	RejectUntrustedParty              RejectReason = "untrusted_party"
)

// PartyError is returned when the token's authorized party cannot be
// established or does not match the trusted identity provider.
type PartyError struct {
	Reason RejectReason
}

func (e *PartyError) Error() string {
	return fmt.Sprintf("authorized party rejected: %s", e.Reason)
}

// ClaimMap is a case-insensitive view over a token's claim set, built once per
// request and queried by exact lowercase keys. Only string-valued claims are
// retained; the claims consulted here (ver, appid, azp) are strings by contract.
type ClaimMap map[string]string

// NewClaimMap lowers claim type names and keeps string values. When the same
// type appears with differing case, the first occurrence wins.
func NewClaimMap(claims map[string]any) ClaimMap {
	m := make(ClaimMap, len(claims))
	for k, v := range claims {
		s, ok := v.(string)
		if !ok {
			continue
		}
		lk := strings.ToLower(k)
		if _, exists := m[lk]; !exists {
			m[lk] = s
		}
	}
	return m
}

// Get looks up a claim value by type name, case-insensitively.
func (m ClaimMap) Get(name string) (string, bool) {
	v, ok := m[strings.ToLower(name)]
	return v, ok
}

// ValidateAuthorizedParty checks a verified token's claim set against the
// trusted identity provider. The token schema version selects the party claim:
// v1.0 tokens carry it in "appid", v2.0 tokens in "azp". The extracted value
// must parse as a UUID and equal the configured trusted party.
//
// Runs after signature/expiry validation; stateless per request.
func ValidateAuthorizedParty(claims ClaimMap, trusted uuid.UUID) error {
	ver, ok := claims.Get("ver")
	if !ok {
		return &PartyError{Reason: RejectNoVersionClaim}
	}

	var party string
	switch ver {
	case "1.0":
		party, ok = claims.Get("appid")
	case "2.0":
		party, ok = claims.Get("azp")
	default:
		ok = false
	}
	if !ok || party == "" {
		return &PartyError{Reason: RejectUnsupportedVersionOrNoParty}
	}

	id, err := uuid.Parse(party)
	if err != nil {
		return &PartyError{Reason: RejectMalformedPartyIdentifier}
	}
	if id != trusted {
		return &PartyError{Reason: RejectUntrustedParty}
	}
	return nil
}
