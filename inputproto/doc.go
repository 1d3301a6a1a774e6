// Package inputproto implements pluggable input-externalization
// protocols (spec.md §6 "Wire payload", §9 "Registries"): named
// save/load handlers a Registry dispatches by protocol string, used by
// package submit to externalize a large Job tree and by package replay
// to reconstitute it.
package inputproto
