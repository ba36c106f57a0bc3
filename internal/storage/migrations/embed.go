// Package migrations embeds the sqlite schema migrations applied to the
// database backing the response cache's L2 tier and the delegation audit
// trail.
package migrations

import "embed"

//go:embed scripts/*.sql
var FS embed.FS
