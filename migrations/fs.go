// Package migrations embeds the SQL schema files so the server binary
// can run them standalone, without a migrations directory on disk.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
