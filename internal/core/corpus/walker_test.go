package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalk(t *testing.T) {
	t.Run("filters by suffix recursively", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "src", "nested"), 0o755))

		a := writeFile(t, dir, "Main.java", "class Main {}")
		b := writeFile(t, filepath.Join(dir, "src"), "App.java", "class App {}")
		c := writeFile(t, filepath.Join(dir, "src", "nested"), "Deep.java", "class Deep {}")
		writeFile(t, dir, "README.md", "# readme")
		writeFile(t, filepath.Join(dir, "src"), "notes.txt", "notes")

		got := Walk(dir, ".java", nil)
		assert.ElementsMatch(t, []string{a, b, c}, got)
	})

	t.Run("ignore globs skip directories", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "vendor", "lib"), 0o755))

		kept := writeFile(t, dir, "Keep.java", "class Keep {}")
		writeFile(t, filepath.Join(dir, "vendor", "lib"), "Skip.java", "class Skip {}")

		got := Walk(dir, ".java", []string{"vendor/**"})
		assert.Equal(t, []string{kept}, got)
	})

	t.Run("missing root yields empty", func(t *testing.T) {
		got := Walk(filepath.Join(t.TempDir(), "nope"), ".java", nil)
		assert.Empty(t, got)
	})
}
