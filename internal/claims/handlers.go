// internal/claims/handlers.go
package claims

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"saasid/pkg/permissions"
	"saasid/pkg/problems"
)

// RegisterHTTP mounts the custom-claims endpoints on the router. The exact
// permissions path is a deployment contract with the identity provider's
// extension configuration and must not change.
func (a *App) RegisterHTTP(r chi.Router) {
	r.Post("/api/customclaims/permissions", a.Permissions)
	r.Post("/api/customclaims/roles", a.Roles)
}

// Permissions handles the token-issuance-start callback: extract the subject,
// resolve permission claims, answer with the provideClaimsForToken envelope.
// All-or-nothing: no partial claim lists are ever returned.
func (a *App) Permissions(w http.ResponseWriter, r *http.Request) {
	var req ExtensionCallbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problems.Write(w, problems.SlugMalformedRequest, "request body is not a valid callback payload", http.StatusBadRequest)
		return
	}

	a.log.Debugw("custom claims requested", "userId", req.SubjectID())

	userID, err := permissions.ParseID(req.SubjectID())
	if err != nil {
		problems.Write(w, problems.SlugInvalidIdentifier, "subject identifier missing or not a valid uuid", http.StatusBadRequest)
		return
	}

	claims, err := a.svc.ClaimsFor(r.Context(), userID)
	if err != nil {
		if errors.Is(err, permissions.ErrStoreUnavailable) {
			a.log.Errorw("permission store failure", "userId", userID, "err", err)
			problems.Write(w, problems.SlugStoreUnavailable, "permission store unavailable", http.StatusInternalServerError)
			return
		}
		a.log.Errorw("claims resolution failure", "userId", userID, "err", err)
		problems.Write(w, problems.SlugStoreUnavailable, "claims resolution failed", http.StatusInternalServerError)
		return
	}

	resp := NewTokenIssuanceResponse(req.CorrelationID(), claims)

	c := resp.Data.Actions[0].Claims
	a.log.Debugw("token issuance claims built",
		"correlationId", c.CorrelationID, "apiVersion", c.APIVersion, "permissions", c.Permissions)

	writeJSON(w, resp, http.StatusOK)
}

// Roles answers the app-roles callback with an empty list. The Graph lookup is
// expensive and throttling-prone at login volume, so it stays out of the flow.
func (a *App) Roles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, RolesResponse{Roles: []string{}}, http.StatusOK)
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
