package facts

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/depwhy/internal/bump"
)

//go:embed schema.cue
var schemaCUE []byte

//go:embed seed.cue
var seedCUE []byte

// LoadMode controls how errors are handled while loading fact files.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadResult is the outcome of loading fact files.
type LoadResult struct {
	Catalog   *Catalog
	Files     []string
	FileCount int
}

type source struct {
	name string
	data []byte
}

// LoadDefault compiles the embedded seed tables.
func LoadDefault() (*Catalog, error) {
	result, errs := build([]source{{name: "seed.cue", data: seedCUE}}, LoadModeFailFast)
	if len(errs) > 0 {
		return nil, errs[0]
	}
	return result.Catalog, nil
}

// LoadDir compiles every .cue file under dir against the embedded schema.
// The resulting catalog replaces the seed tables; it does not extend them.
//
// On failure Catalog is nil. In LoadModeCollectAll every file is compiled
// and all errors are returned.
func LoadDir(dir string, mode LoadMode) (*LoadResult, []error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("facts directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing facts directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	files, err := FindCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(files) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}

	sources := make([]source, 0, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("reading %s: %v", path, err)}}
		}
		sources = append(sources, source{name: path, data: data})
	}

	result, errs := build(sources, mode)
	if result != nil {
		result.Files = files
		result.FileCount = len(files)
	}
	return result, errs
}

// FindCUEFiles walks dir and returns all .cue file paths in lexical order.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// build unifies the schema with each source, validates, decodes and checks
// version keys. It returns a nil result whenever errs is non-empty.
func build(sources []source, mode LoadMode) (*LoadResult, []error) {
	ctx := cuecontext.New()

	value := ctx.CompileBytes(schemaCUE, cue.Filename("schema.cue"))
	if err := value.Err(); err != nil {
		return nil, fromCUEError(ErrCodeBuildFailed, err)
	}

	var errs []error
	for _, src := range sources {
		v := ctx.CompileBytes(src.data, cue.Filename(src.name))
		if err := v.Err(); err != nil {
			errs = append(errs, fromCUEError(ErrCodeLoadFailed, err)...)
			if mode == LoadModeFailFast {
				return nil, errs[:1]
			}
			continue
		}
		value = value.Unify(v)
	}
	if len(errs) > 0 {
		return nil, errs
	}

	if err := value.Validate(cue.Concrete(true)); err != nil {
		errs = fromCUEError(ErrCodeBuildFailed, err)
		if mode == LoadModeFailFast {
			return nil, errs[:1]
		}
		return nil, errs
	}

	var doc struct {
		Packages map[string]Package `json:"packages"`
	}
	if err := value.Decode(&doc); err != nil {
		return nil, fromCUEError(ErrCodeBuildFailed, err)
	}

	keyErrs := checkPackageNames(value, doc.Packages)
	keyErrs = append(keyErrs, checkVersionKeys(value, doc.Packages)...)
	if len(keyErrs) > 0 {
		if mode == LoadModeFailFast {
			return nil, keyErrs[:1]
		}
		return nil, keyErrs
	}

	return &LoadResult{Catalog: NewCatalog(doc.Packages)}, nil
}

// checkPackageNames rejects package names that share a lookup key, such as
// "auth-lib" and "Auth-Lib". The catalog could keep only one of them.
func checkPackageNames(value cue.Value, pkgs map[string]Package) []error {
	var errs []error

	seen := make(map[string]string, len(pkgs))
	for _, name := range mapKeys(pkgs) {
		key := packageKey(name)
		prev, dup := seen[key]
		if !dup {
			seen[key] = name
			continue
		}
		errs = append(errs, &LoadError{
			Code:    ErrCodeDuplicateName,
			Message: fmt.Sprintf("packages: %q and %q name the same package", prev, name),
			Pos:     value.LookupPath(cue.MakePath(cue.Str("packages"), cue.Str(name))).Pos(),
		})
	}

	return errs
}

// checkVersionKeys rejects table keys that are not dotted numeric versions,
// and keys that normalize onto the same version ("2.2" and "2.2.0").
func checkVersionKeys(value cue.Value, pkgs map[string]Package) []error {
	var errs []error

	names := make([]string, 0, len(pkgs))
	for name := range pkgs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		p := pkgs[name]
		tables := []struct {
			field string
			keys  []string
		}{
			{"releases", mapKeys(p.Releases)},
			{"issues", mapKeys(p.Issues)},
			{"incidents", mapKeys(p.Incidents)},
		}

		for _, table := range tables {
			seen := make(map[string]string)
			for _, key := range table.keys {
				pos := value.LookupPath(cue.MakePath(cue.Str("packages"), cue.Str(name), cue.Str(table.field), cue.Str(key))).Pos()
				if _, ok := bump.Parse(key); !ok {
					errs = append(errs, &LoadError{
						Code:    ErrCodeInvalidVersion,
						Message: fmt.Sprintf("packages.%q.%s: %q is not a dotted numeric version", name, table.field, key),
						Pos:     pos,
					})
					continue
				}
				norm := VersionKey(key)
				if prev, dup := seen[norm]; dup {
					errs = append(errs, &LoadError{
						Code:    ErrCodeInvalidVersion,
						Message: fmt.Sprintf("packages.%q.%s: %q and %q are the same version", name, table.field, prev, key),
						Pos:     pos,
					})
					continue
				}
				seen[norm] = key
			}
		}
	}

	return errs
}

func mapKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
