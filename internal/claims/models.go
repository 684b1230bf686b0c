// internal/claims/models.go
package claims

// Custom-extension payload shapes, per the identity provider's custom claims
// provider contract. Every nested level is optional at the wire level and must
// be extracted defensively.
// https://learn.microsoft.com/en-us/entra/identity-platform/custom-claims-provider-reference

type ExtensionCallbackRequest struct {
	Data *CallbackData `json:"data"`
}

type CallbackData struct {
	AuthenticationContext *AuthenticationContext `json:"authenticationContext"`
}

type AuthenticationContext struct {
	User          *CallbackUser `json:"user"`
	CorrelationID *string       `json:"correlationId"`
}

type CallbackUser struct {
	ID string `json:"id"`
}

// SubjectID digs out the subject identifier, tolerating any missing level.
func (r *ExtensionCallbackRequest) SubjectID() string {
	if r == nil || r.Data == nil || r.Data.AuthenticationContext == nil || r.Data.AuthenticationContext.User == nil {
		return ""
	}
	return r.Data.AuthenticationContext.User.ID
}

// CorrelationID digs out the correlation identifier, tolerating any missing level.
func (r *ExtensionCallbackRequest) CorrelationID() *string {
	if r == nil || r.Data == nil || r.Data.AuthenticationContext == nil {
		return nil
	}
	return r.Data.AuthenticationContext.CorrelationID
}

const (
	responseDataType    = "microsoft.graph.onTokenIssuanceStartResponseData"
	provideClaimsAction = "microsoft.graph.tokenIssuanceStart.provideClaimsForToken"
	claimsAPIVersion    = "1.0.0"
)

type ExtensionResponse struct {
	Data ResponseData `json:"data"`
}

type ResponseData struct {
	ODataType string           `json:"@odata.type"`
	Actions   []ResponseAction `json:"actions"`
}

type ResponseAction struct {
	ODataType string      `json:"@odata.type"`
	Claims    TokenClaims `json:"claims"`
}

type TokenClaims struct {
	CorrelationID *string  `json:"correlationId"`
	APIVersion    string   `json:"apiVersion"`
	Permissions   []string `json:"permissions"`
}

// NewTokenIssuanceResponse builds the envelope the identity provider merges
// into the issued token: exactly one action wrapping exactly one claims object,
// with the correlation id passed through unchanged.
func NewTokenIssuanceResponse(correlationID *string, permissions []string) ExtensionResponse {
	if permissions == nil {
		permissions = []string{}
	}
	return ExtensionResponse{
		Data: ResponseData{
			ODataType: responseDataType,
			Actions: []ResponseAction{
				{
					ODataType: provideClaimsAction,
					Claims: TokenClaims{
						CorrelationID: correlationID,
						APIVersion:    claimsAPIVersion,
						Permissions:   permissions,
					},
				},
			},
		},
	}
}

// RolesResponse mirrors the roles endpoint contract. The app-role lookup is
// deliberately short-circuited to keep Graph calls out of the login path, so
// the list is always empty.
type RolesResponse struct {
	Roles []string `json:"roles"`
}
