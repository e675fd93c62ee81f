package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const widgetFacts = `package facts

packages: widget: {
	ecosystem: "cargo"
	releases: "2.0.0": {bump: "major", notes: "Rewritten core.", date: "2024-05-01"}
	services: "Renderer": {range: "^1.0.0"}
}
`

func writeFactsDir(t *testing.T, files map[string]string) string {
	t.Helper()
	return writeFiles(t, files)
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}
