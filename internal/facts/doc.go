// Package facts holds the static, read-only fact tables that back every
// report: release metadata, known security issues, internal incidents and
// the service compatibility matrix.
//
// Tables are authored in CUE. schema.cue defines closed definitions for each
// record kind; seed.cue carries the default tables compiled into the binary.
// LoadDir compiles a directory of replacement fact files against the same
// schema.
//
// A Catalog is built once and never mutated afterwards, so it is safe for
// concurrent readers. Lookups return copies.
package facts
