// Package testutil holds deterministic stand-ins for the shell's clock and
// session id generator, so transcripts and golden output stay stable.
package testutil
