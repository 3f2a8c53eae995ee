package cmd

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/ardnew/mung"

	"github.com/ardnew/minilisp/pkg"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// SourceFiles reads the concatenated text of one or more program sources.
type SourceFiles interface {
	IsZero() bool
	Names() []string
	io.ReadCloser
	io.WriterTo
}

type sourceFiles struct {
	names    []string
	files    []*os.File
	hasStdin bool
	stdin    io.Reader
	r        io.Reader
}

// IsZero reports whether there are no sources.
func (s *sourceFiles) IsZero() bool { return len(s.files) == 0 && !s.hasStdin }

// Names returns the resolved source paths in reading order, with "-" for
// standard input.
func (s *sourceFiles) Names() []string { return s.names }

// Read implements io.Reader by reading from all sources in order, with a
// newline between consecutive sources.
func (s *sourceFiles) Read(p []byte) (int, error) { return s.r.Read(p) }

// WriteTo implements io.WriterTo by writing all sources to w in order.
func (s *sourceFiles) WriteTo(w io.Writer) (int64, error) { return io.Copy(w, s.r) }

// Close closes every opened file.
func (s *sourceFiles) Close() error {
	var errs []error

	for _, f := range s.files {
		errs = append(errs, f.Close())
	}

	return errors.Join(errs...)
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// openSources opens the given program sources for reading.
//
// An empty list reads standard input. A relative name that does not exist
// is looked up in each directory of search, in order. Files are
// deduplicated by device and inode, and standard input is read last.
func openSources(
	sources []string,
	search []string,
	stdin io.Reader,
) (SourceFiles, error) {
	if len(sources) == 0 {
		sources = []string{stdinSource}
	}

	srcs := &sourceFiles{stdin: stdin}
	seen := make(map[fileKey]struct{})

	for _, src := range sources {
		if src == stdinSource {
			srcs.hasStdin = true

			continue
		}

		path, err := resolveSource(src, search)
		if err != nil {
			_ = srcs.Close()

			return nil, err
		}

		file, err := openUniqueFile(path, seen)
		if err != nil {
			_ = srcs.Close()

			return nil, pkg.ErrReadInput.Wrap(err)
		}

		if file == nil {
			continue
		}

		srcs.names = append(srcs.names, path)
		srcs.files = append(srcs.files, file)
	}

	readers := make([]io.Reader, 0, 2*len(srcs.files)+1)

	for i, f := range srcs.files {
		if i > 0 {
			readers = append(readers, strings.NewReader("\n"))
		}

		readers = append(readers, f)
	}

	if srcs.hasStdin {
		if len(readers) > 0 {
			readers = append(readers, strings.NewReader("\n"))
		}

		readers = append(readers, stdin)
		srcs.names = append(srcs.names, stdinSource)
	}

	srcs.r = io.MultiReader(readers...)

	return srcs, nil
}

// resolveSource returns the path of the named source. Names that exist as
// given, and absolute names, are returned unchanged; other names are joined
// with each directory in search until a regular file is found.
func resolveSource(name string, search []string) (string, error) {
	if _, err := os.Stat(name); err == nil || filepath.IsAbs(name) {
		return name, nil
	}

	for _, dir := range search {
		path := filepath.Join(dir, name)

		info, err := os.Stat(path)
		if err == nil && info.Mode().IsRegular() {
			return path, nil
		}
	}

	return "", pkg.ErrSourceNotFound.Wrapf("%s", name)
}

// SearchPath composes the directories searched for relative source names:
// the include directories first, then the entries of pathList, a
// list separated by [os.PathListSeparator]. Entries that are not existing
// directories are dropped.
func SearchPath(include []string, pathList string) []string {
	joined := mung.Make(
		mung.WithSubjectItems(pathList),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(include...),
		mung.WithFilter(isDir),
	).String()

	return filepath.SplitList(joined)
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

// openUniqueFile opens the file at path if it hasn't been seen before.
// It resolves symlinks and uses device/inode to detect duplicates.
// It returns a nil file and nil error for a duplicate.
func openUniqueFile(path string, seen map[fileKey]struct{}) (*os.File, error) {
	// Resolve to absolute path to handle relative path duplicates.
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	// Resolve symlinks to their target.
	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, err
	}

	// Get file info to extract device and inode.
	info, err := os.Stat(resolved)
	if err != nil {
		return nil, err
	}

	if info.IsDir() {
		return nil, &fs.PathError{Op: "open", Path: path, Err: syscall.EISDIR}
	}

	if key, ok := makeFileKey(info); ok {
		if _, exists := seen[key]; exists {
			return nil, nil
		}

		seen[key] = struct{}{}
	}

	return os.Open(resolved)
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}
