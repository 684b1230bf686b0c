package middleware

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var trusted = uuid.MustParse("99045fe1-7639-4a75-9d4a-577b6ca3810f")

func reasonOf(t *testing.T, err error) RejectReason {
	t.Helper()
	require.Error(t, err)
	pe, ok := err.(*PartyError)
	require.True(t, ok, "expected *PartyError, got %T", err)
	return pe.Reason
}

func TestValidateAuthorizedParty_V1(t *testing.T) {
	claims := NewClaimMap(map[string]any{"ver": "1.0", "appid": trusted.String()})
	require.NoError(t, ValidateAuthorizedParty(claims, trusted))

	claims = NewClaimMap(map[string]any{"ver": "1.0", "appid": uuid.NewString()})
	require.Equal(t, RejectUntrustedParty, reasonOf(t, ValidateAuthorizedParty(claims, trusted)))
}

func TestValidateAuthorizedParty_V2(t *testing.T) {
	claims := NewClaimMap(map[string]any{"ver": "2.0", "azp": trusted.String()})
	require.NoError(t, ValidateAuthorizedParty(claims, trusted))

	claims = NewClaimMap(map[string]any{"ver": "2.0", "azp": uuid.NewString()})
	require.Equal(t, RejectUntrustedParty, reasonOf(t, ValidateAuthorizedParty(claims, trusted)))
}

func TestValidateAuthorizedParty_NoVersion(t *testing.T) {
	claims := NewClaimMap(map[string]any{"appid": trusted.String()})
	require.Equal(t, RejectNoVersionClaim, reasonOf(t, ValidateAuthorizedParty(claims, trusted)))
}

func TestValidateAuthorizedParty_UnsupportedVersion(t *testing.T) {
	claims := NewClaimMap(map[string]any{"ver": "3.0", "appid": trusted.String(), "azp": trusted.String()})
	require.Equal(t, RejectUnsupportedVersionOrNoParty, reasonOf(t, ValidateAuthorizedParty(claims, trusted)))
}

func TestValidateAuthorizedParty_MissingPartyClaim(t *testing.T) {
	// v1 token carrying only azp must not fall back to the v2 claim.
	claims := NewClaimMap(map[string]any{"ver": "1.0", "azp": trusted.String()})
	require.Equal(t, RejectUnsupportedVersionOrNoParty, reasonOf(t, ValidateAuthorizedParty(claims, trusted)))

	claims = NewClaimMap(map[string]any{"ver": "2.0"})
	require.Equal(t, RejectUnsupportedVersionOrNoParty, reasonOf(t, ValidateAuthorizedParty(claims, trusted)))
}

func TestValidateAuthorizedParty_MalformedParty(t *testing.T) {
	claims := NewClaimMap(map[string]any{"ver": "2.0", "azp": "not-a-guid"})
	require.Equal(t, RejectMalformedPartyIdentifier, reasonOf(t, ValidateAuthorizedParty(claims, trusted)))
}

func TestClaimMap_CaseInsensitive(t *testing.T) {
	claims := NewClaimMap(map[string]any{"Ver": "2.0", "AZP": trusted.String()})
	require.NoError(t, ValidateAuthorizedParty(claims, trusted))

	v, ok := claims.Get("VER")
	require.True(t, ok)
	require.Equal(t, "2.0", v)
}

func TestClaimMap_NonStringValuesDropped(t *testing.T) {
	claims := NewClaimMap(map[string]any{"ver": 2.0, "azp": trusted.String()})
	require.Equal(t, RejectNoVersionClaim, reasonOf(t, ValidateAuthorizedParty(claims, trusted)))
}
