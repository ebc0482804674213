// Package driving provides interfaces for application entry points
// (primary/inbound ports). The CLI, and any future API layer, calls
// the core exclusively through these.
package driving
