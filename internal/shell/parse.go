package shell

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/depwhy/internal/ir"
)

const usageLine = "<package> <from> <to> [-e|--ecosystem <eco>] [-c|--context <text...>]"

// request is one parsed question line.
type request struct {
	pkg       string
	from      string
	to        string
	ecosystem string // empty means the session default
	context   string
}

var errUsage = errors.New("usage: " + usageLine)

// parseRequest splits a question line. Missing versions are left blank so
// the assembler rejects them with its own message.
func parseRequest(fields []string) (request, error) {
	var req request
	var positional []string

	for i := 0; i < len(fields); i++ {
		f := fields[i]
		name, value, hasValue := strings.Cut(f, "=")
		switch name {
		case "-e", "--ecosystem":
			if !hasValue {
				if i+1 >= len(fields) {
					return req, fmt.Errorf("%s needs a value; %w", name, errUsage)
				}
				i++
				value = fields[i]
			}
			req.ecosystem = value
		case "-c", "--context":
			rest := fields[i+1:]
			if hasValue {
				rest = append([]string{value}, rest...)
			}
			req.context = strings.Join(rest, " ")
			i = len(fields)
		default:
			if strings.HasPrefix(f, "-") {
				return req, fmt.Errorf("unknown flag %s; %w", f, errUsage)
			}
			positional = append(positional, f)
		}
	}

	if len(positional) > 3 {
		return req, fmt.Errorf("too many arguments; %w", errUsage)
	}
	if len(positional) == 0 {
		return req, errUsage
	}
	for i, dst := range []*string{&req.pkg, &req.from, &req.to} {
		if i < len(positional) {
			*dst = positional[i]
		}
	}
	return req, nil
}

// query builds the assembler input, falling back to the session ecosystem.
func (r request) query(def ir.Ecosystem) ir.Query {
	eco := ir.Ecosystem(r.ecosystem)
	if r.ecosystem == "" {
		eco = def
	}
	return ir.Query{
		Ecosystem:   eco,
		Package:     r.pkg,
		FromVersion: r.from,
		ToVersion:   r.to,
		Context:     r.context,
	}
}
