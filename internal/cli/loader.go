package cli

import (
	"errors"

	"github.com/roach88/depwhy/internal/facts"
)

// loadCatalog returns the built-in tables, or the --facts directory when
// one is given. Failures come back as a code and message for the
// formatter.
func loadCatalog(opts *RootOptions) (*facts.Catalog, string, error) {
	if opts.Facts == "" {
		catalog, err := facts.LoadDefault()
		if err != nil {
			return nil, codeOf(err), err
		}
		return catalog, "", nil
	}

	result, errs := facts.LoadDir(opts.Facts, facts.LoadModeFailFast)
	if len(errs) > 0 {
		return nil, codeOf(errs[0]), errs[0]
	}
	return result.Catalog, "", nil
}

// codeOf extracts the E-code of a fact loading error.
func codeOf(err error) string {
	var le *facts.LoadError
	if errors.As(err, &le) {
		return le.Code
	}
	return facts.ErrCodeGeneric
}
