// Package sqliteexternal provides the optional CGO SQLite driver.
//
// SermonFlow reads SQLite corpora through a pure Go driver by default. This
// package registers github.com/mattn/go-sqlite3 instead when the binary is
// built with:
//
//	CGO_ENABLED=1 go build -tags cgo_sqlite ./cmd/sermonflow
//
// core/sqlite imports it automatically under that tag, so callers never need
// to import it directly. `sermonflow corpus info` reports which driver is in use.
package sqliteexternal
