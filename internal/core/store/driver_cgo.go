//go:build cgo

package store

// The libsql driver requires cgo; registering it here keeps the rest of
// the package buildable with CGO_ENABLED=0.
import _ "github.com/tursodatabase/go-libsql"
