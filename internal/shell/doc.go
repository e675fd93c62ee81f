// Package shell implements the interactive conversation loop.
//
// Each input line is either a command (help, history, clear, ecosystem,
// quit) or an upgrade question:
//
//	<package> <from> <to> [-e|--ecosystem <eco>] [-c|--context <text...>]
//
// A successful question is answered with a report, appended to the
// session history, and the whole history is displayed again. Rejected
// questions print a short message and leave the history untouched.
//
// The shell owns its history exclusively. Nothing in the report path
// reads it.
package shell
