// Package migrations embeds the SQL migrations so the migration binary can run
// without the source tree.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
