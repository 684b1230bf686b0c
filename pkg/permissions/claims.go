// pkg/permissions/claims.go
package permissions

// BuildClaims flattens permission aggregates into the ordered claim list
// merged into the issued token. For each record, in sequence order, user
// permissions come first, then tenant permissions, each in stored order.
// The result is the first-seen-order union across all records: an exact
// duplicate claim string is emitted once, no matter how many records carry it.
//
// Pure and deterministic: identical inputs always yield identical output.
func BuildClaims(records []Record) []string {
	claims := []string{}
	seen := map[string]struct{}{}
	add := func(c string) {
		if _, ok := seen[c]; ok {
			return
		}
		seen[c] = struct{}{}
		claims = append(claims, c)
	}
	for _, rec := range records {
		for _, p := range rec.UserPermissions {
			add(p.ToClaim())
		}
		for _, p := range rec.TenantPermissions {
			add(p.ToClaim())
		}
	}
	return claims
}
