package interp

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubiojr/guython/errs"
	"github.com/rubiojr/guython/value"
)

const cfgModule = `{settings shared by the app}
port=8080
host="localhost"
double=port*2
print "ignored"
bad=nope
def f_
.inner=1
name=input"never asked"
whilex=1
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadModule(t *testing.T) {
	path := writeFile(t, t.TempDir(), "cfg.gy", cfgModule)

	mod, err := LoadModule(path)
	require.NoError(t, err)
	ns := mod.Namespace
	assert.Equal(t, "cfg", ns.Name)
	assert.Equal(t, []string{"double", "host", "port"}, ns.Names())
	v, _ := ns.Get("double")
	assert.Equal(t, value.Int(16160), v)

	require.Len(t, mod.Skipped, 1)
	assert.Equal(t, 6, mod.Skipped[0].Pos.Line)
	assert.Equal(t, path, mod.Skipped[0].Pos.Filename)
	assert.True(t, errors.Is(mod.Skipped[0].Err, errs.ErrUndefinedVariable))
}

func TestLoadModuleErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadModule(filepath.Join(dir, "missing.gy"))
	assert.True(t, errors.Is(err, errs.ErrModuleNotFound), "%v", err)

	_, err = LoadModule(writeFile(t, dir, "cfg.txt", "x=1\n"))
	assert.True(t, errors.Is(err, errs.ErrBadImport), "%v", err)

	_, err = LoadModule(writeFile(t, dir, "my-cfg.gy", "x=1\n"))
	assert.True(t, errors.Is(err, errs.ErrInvalidName), "%v", err)
}

func TestImportStatement(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "cfg.guy", cfgModule)
	main := writeFile(t, dir, "main.gy", `import cfg.guy
print cfg.port, cfg.double
print "host: " + cfg.host
print cfg.missing
cfg.port()
`)

	var out, errOut bytes.Buffer
	in := New(Options{Stdout: &out, Stderr: &errOut})
	err := in.RunFile(main)
	assert.True(t, errors.Is(err, errs.ErrForbiddenCall), "%v", err)
	assert.Equal(t, "8080 16160\nhost: localhost\n", out.String())
	assert.Contains(t, errOut.String(), "Error on line 4: RuntimeError: module 'cfg' has no attribute 'missing'")
	assert.NotContains(t, out.String(), "ignored")

	v := in.Variables()["cfg"]
	assert.Equal(t, value.NamespaceKind, v.Kind())
}

func TestImportErrors(t *testing.T) {
	r := run(t, lines(
		"import",
		"import nope.gy",
		"import data.json",
	))
	require.NoError(t, r.err)
	diags := r.in.Diagnostics()
	require.Len(t, diags, 3)
	assert.True(t, errors.Is(diags[0], errs.ErrBadImport))
	assert.True(t, errors.Is(diags[1], errs.ErrModuleNotFound))
	assert.True(t, errors.Is(diags[2], errs.ErrBadImport))
}
