// Package web carries the embedded single-page dashboard.
package web

import _ "embed"

//go:embed index.html
var IndexHTML []byte
