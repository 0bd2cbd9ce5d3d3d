package classpath

import (
	"context"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Defaults applied by New to zero-valued Options fields.
const (
	DefaultHomeVar  = "REPASTHOME"
	DefaultSuffix   = ".jar"
	DefaultTrailing = "repast.simphony.bin_and_src_2.0.0/repast.simphony.bin_and_src.jar"
)

// Options configures a Builder.
type Options struct {
	// BaseDir is the installation root the sub-directories are relative to.
	BaseDir string
	// HomeVar names the shell variable used in the template prefix.
	HomeVar string
	// Dirs are the sub-directories to search, in classpath order.
	Dirs []string
	// Suffix selects which entries are jars. Case-sensitive.
	Suffix string
	// Extra entries are appended after the jars, before Trailing.
	Extra []string
	// Trailing is always appended last.
	Trailing string
	Order    Order
}

// Builder lists jar directories and assembles a Classpath.
type Builder struct {
	opts   Options
	logger *zap.Logger
}

// New returns a Builder. A nil logger discards diagnostics.
func New(opts Options, logger *zap.Logger) *Builder {
	if opts.HomeVar == "" {
		opts.HomeVar = DefaultHomeVar
	}
	if opts.Suffix == "" {
		opts.Suffix = DefaultSuffix
	}
	if opts.Trailing == "" {
		opts.Trailing = DefaultTrailing
	}
	if opts.Order == "" {
		opts.Order = OrderLexical
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{opts: opts, logger: logger}
}

// Options returns the effective options, defaults included.
func (b *Builder) Options() Options {
	return b.opts
}

// DirPaths returns the full OS path of every configured sub-directory.
func (b *Builder) DirPaths() []string {
	out := make([]string, 0, len(b.opts.Dirs))
	for _, sub := range b.opts.Dirs {
		out = append(out, b.fullPath(sub))
	}
	return out
}

func (b *Builder) fullPath(sub string) string {
	return filepath.Join(b.opts.BaseDir, filepath.FromSlash(sub))
}

// Build lists every configured directory in order and returns the assembled
// classpath. The first directory that cannot be listed aborts the build with
// a *DirError; no partial result is returned.
func (b *Builder) Build(ctx context.Context) (*Classpath, error) {
	cp := &Classpath{
		HomeVar: b.opts.HomeVar,
		BaseDir: b.opts.BaseDir,
	}

	for _, sub := range b.opts.Dirs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		full := b.fullPath(sub)
		b.logger.Debug("listing directory", zap.String("dir", full))

		entries, err := listDir(full, b.opts.Order)
		if err != nil {
			return nil, err
		}

		prefix := dirPrefix(sub)
		for _, entry := range entries {
			name := entry.Name()
			if !strings.HasSuffix(name, b.opts.Suffix) {
				b.logger.Info("Not jar", zap.String("dir", sub), zap.String("name", name))
				cp.Skipped = append(cp.Skipped, Skipped{Dir: sub, Name: name})
				continue
			}
			b.logger.Info("found jar", zap.String("dir", sub), zap.String("name", name))
			rel := prefix + name
			cp.Entries = append(cp.Entries, Entry{
				Dir:  sub,
				Name: name,
				Rel:  rel,
				Path: template(b.opts.HomeVar, rel),
			})
		}
	}

	for _, x := range b.opts.Extra {
		cp.Extra = append(cp.Extra, template(b.opts.HomeVar, filepath.ToSlash(x)))
	}
	cp.Trailing = template(b.opts.HomeVar, filepath.ToSlash(b.opts.Trailing))

	b.logger.Debug("classpath built",
		zap.Int("jars", len(cp.Entries)),
		zap.Int("skipped", len(cp.Skipped)),
		zap.Int("dirs", len(b.opts.Dirs)))
	return cp, nil
}
