package classpath

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const trailingLine = "$REPASTHOME/repast.simphony.bin_and_src_2.0.0/repast.simphony.bin_and_src.jar:\n"

// makeTree creates base/<dir>/<file> for every file listed under dir.
func makeTree(t *testing.T, tree map[string][]string) string {
	t.Helper()
	base := t.TempDir()
	for dir, files := range tree {
		full := filepath.Join(base, filepath.FromSlash(dir))
		require.NoError(t, os.MkdirAll(full, 0755))
		for _, name := range files {
			require.NoError(t, os.WriteFile(filepath.Join(full, name), []byte("x"), 0644))
		}
	}
	return base
}

func TestBuild_Scenario(t *testing.T) {
	base := makeTree(t, map[string][]string{
		"libA": {"x.jar", "readme.txt"},
		"libB": {"y.jar"},
	})

	b := New(Options{BaseDir: base, Dirs: []string{"libA/", "libB/"}}, nil)
	cp, err := b.Build(context.Background())
	require.NoError(t, err)

	want := "$REPASTHOME/libA/x.jar:\\\n" +
		"$REPASTHOME/libB/y.jar:\\\n" +
		trailingLine
	if diff := cmp.Diff(want, cp.String()); diff != "" {
		t.Errorf("buffer mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []Skipped{{Dir: "libA/", Name: "readme.txt"}}, cp.Skipped)
}

func TestBuild_OnlyJarsAppearOnce(t *testing.T) {
	jars := []string{"a.jar", "b.jar", "c.jar", "d.jar"}
	base := makeTree(t, map[string][]string{"lib": jars})

	cp, err := New(Options{BaseDir: base, Dirs: []string{"lib/"}}, nil).Build(context.Background())
	require.NoError(t, err)

	buf := cp.String()
	for _, j := range jars {
		line := "$REPASTHOME/lib/" + j + ":\\\n"
		assert.Equal(t, 1, strings.Count(buf, line), "entry %s", j)
	}
	assert.Empty(t, cp.Skipped)
	assert.Equal(t, 1, strings.Count(buf, trailingLine))
	assert.True(t, strings.HasSuffix(buf, trailingLine))
}

func TestBuild_MixedDirectory(t *testing.T) {
	base := makeTree(t, map[string][]string{
		"lib": {"core.jar", "NOTICE", "notes.txt", "UPPER.JAR", "jar", "core.jar.sha1"},
	})

	cp, err := New(Options{BaseDir: base, Dirs: []string{"lib/"}}, nil).Build(context.Background())
	require.NoError(t, err)

	require.Len(t, cp.Entries, 1)
	assert.Equal(t, "core.jar", cp.Entries[0].Name)
	assert.Equal(t, "lib/core.jar", cp.Entries[0].Rel)

	var skipped []string
	for _, s := range cp.Skipped {
		skipped = append(skipped, s.Name)
	}
	assert.ElementsMatch(t, []string{"NOTICE", "notes.txt", "UPPER.JAR", "jar", "core.jar.sha1"}, skipped)
	assert.NotContains(t, cp.String(), "notes.txt")
}

func TestBuild_EmptyDirList(t *testing.T) {
	cp, err := New(Options{BaseDir: t.TempDir()}, nil).Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, trailingLine, cp.String())
	assert.Empty(t, cp.Entries)
}

func TestBuild_TrailingWithoutJars(t *testing.T) {
	base := makeTree(t, map[string][]string{"empty": nil, "docs": {"README"}})

	cp, err := New(Options{BaseDir: base, Dirs: []string{"empty/", "docs/"}}, nil).Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, trailingLine, cp.String())
}

func TestBuild_MissingDirectory(t *testing.T) {
	base := makeTree(t, map[string][]string{"libA": {"x.jar"}})

	cp, err := New(Options{BaseDir: base, Dirs: []string{"libA/", "nope/"}}, nil).Build(context.Background())
	require.Error(t, err)
	assert.Nil(t, cp)

	var de *DirError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, KindNotFound, de.Kind)
	assert.Equal(t, filepath.Join(base, "nope"), de.Dir)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Contains(t, err.Error(), filepath.Join(base, "nope"))
}

func TestBuild_NotADirectory(t *testing.T) {
	base := makeTree(t, map[string][]string{"": {"lib"}})

	_, err := New(Options{BaseDir: base, Dirs: []string{"lib"}}, nil).Build(context.Background())
	require.Error(t, err)
	assert.Equal(t, KindNotDirectory, KindOf(err))
}

func TestBuild_PermissionDenied(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not enforced on windows")
	}
	if os.Geteuid() == 0 {
		t.Skip("root bypasses directory permissions")
	}

	base := makeTree(t, map[string][]string{"locked": {"a.jar"}})
	locked := filepath.Join(base, "locked")
	require.NoError(t, os.Chmod(locked, 0))
	t.Cleanup(func() { _ = os.Chmod(locked, 0755) })

	_, err := New(Options{BaseDir: base, Dirs: []string{"locked/"}}, nil).Build(context.Background())
	require.Error(t, err)
	assert.Equal(t, KindPermission, KindOf(err))
	assert.True(t, errors.Is(err, fs.ErrPermission))
}

func TestBuild_Ordering(t *testing.T) {
	base := makeTree(t, map[string][]string{
		"second": {"m.jar", "a.jar"},
		"first":  {"z.jar", "c.jar", "b.jar"},
	})
	dirs := []string{"first/", "second/"}

	t.Run("lexical", func(t *testing.T) {
		cp, err := New(Options{BaseDir: base, Dirs: dirs, Order: OrderLexical}, nil).Build(context.Background())
		require.NoError(t, err)
		want := []string{"first/b.jar", "first/c.jar", "first/z.jar", "second/a.jar", "second/m.jar"}
		if diff := cmp.Diff(want, rels(cp)); diff != "" {
			t.Errorf("order mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("filesystem", func(t *testing.T) {
		cp, err := New(Options{BaseDir: base, Dirs: dirs, Order: OrderFilesystem}, nil).Build(context.Background())
		require.NoError(t, err)
		got := rels(cp)
		require.Len(t, got, 5)
		// Within a directory the order is unspecified, across directories it follows the list.
		assert.ElementsMatch(t, []string{"first/b.jar", "first/c.jar", "first/z.jar"}, got[:3])
		assert.ElementsMatch(t, []string{"second/a.jar", "second/m.jar"}, got[3:])
	})
}

func TestBuild_SubdirWithoutSlash(t *testing.T) {
	base := makeTree(t, map[string][]string{"nested/lib": {"x.jar"}})

	cp, err := New(Options{BaseDir: base, Dirs: []string{"nested/lib"}}, nil).Build(context.Background())
	require.NoError(t, err)
	require.Len(t, cp.Entries, 1)
	assert.Equal(t, "$REPASTHOME/nested/lib/x.jar", cp.Entries[0].Path)
}

func TestBuild_ExtraAndCustomHome(t *testing.T) {
	base := makeTree(t, map[string][]string{"lib": {"x.jar"}})

	cp, err := New(Options{
		BaseDir:  base,
		HomeVar:  "APPHOME",
		Dirs:     []string{"lib/"},
		Extra:    []string{"runtime/bin/"},
		Trailing: "app.jar",
	}, nil).Build(context.Background())
	require.NoError(t, err)

	want := "$APPHOME/lib/x.jar:\\\n" +
		"$APPHOME/runtime/bin/:\\\n" +
		"$APPHOME/app.jar:\n"
	assert.Equal(t, want, cp.String())
}

func TestBuild_Diagnostics(t *testing.T) {
	base := makeTree(t, map[string][]string{"lib": {"x.jar", "readme.txt"}})

	core, logs := observer.New(zapcore.InfoLevel)
	_, err := New(Options{BaseDir: base, Dirs: []string{"lib/"}}, zap.New(core)).Build(context.Background())
	require.NoError(t, err)

	found := logs.FilterMessage("found jar").All()
	require.Len(t, found, 1)
	assert.Equal(t, "x.jar", found[0].ContextMap()["name"])

	notJar := logs.FilterMessage("Not jar").All()
	require.Len(t, notJar, 1)
	assert.Equal(t, "readme.txt", notJar[0].ContextMap()["name"])
	assert.Equal(t, zapcore.InfoLevel, notJar[0].Level)
}

func TestBuild_CancelledContext(t *testing.T) {
	base := makeTree(t, map[string][]string{"lib": {"x.jar"}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(Options{BaseDir: base, Dirs: []string{"lib/"}}, nil).Build(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew_Defaults(t *testing.T) {
	opts := New(Options{}, nil).Options()
	assert.Equal(t, DefaultHomeVar, opts.HomeVar)
	assert.Equal(t, DefaultSuffix, opts.Suffix)
	assert.Equal(t, DefaultTrailing, opts.Trailing)
	assert.Equal(t, OrderLexical, opts.Order)
}

func TestBuilder_DirPaths(t *testing.T) {
	b := New(Options{BaseDir: "/opt/app", Dirs: []string{"libA/", "libB"}}, nil)
	assert.Equal(t, []string{filepath.Join("/opt/app", "libA"), filepath.Join("/opt/app", "libB")}, b.DirPaths())
}

func TestParseOrder(t *testing.T) {
	tests := []struct {
		in      string
		want    Order
		wantErr bool
	}{
		{"", OrderLexical, false},
		{"lexical", OrderLexical, false},
		{" Filesystem ", OrderFilesystem, false},
		{"random", "", true},
	}
	for _, tt := range tests {
		got, err := ParseOrder(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func rels(cp *Classpath) []string {
	var out []string
	for _, e := range cp.Entries {
		out = append(out, e.Rel)
	}
	return out
}
