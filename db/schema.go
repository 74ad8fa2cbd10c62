// Package db holds the PostgreSQL schema used by the application.
//
// Migrations are applied out of band; the embedded copy bootstraps test
// databases.
package db

import _ "embed"

//go:embed schema.sql
var Schema string
