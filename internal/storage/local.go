package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

var (
	ErrOutsideRoot = errors.New("path escapes upload root")
	ErrTooLarge    = errors.New("upload exceeds size limit")
)

// Local stores uploads on disk under Root and serves them below Prefix.
type Local struct {
	Root     string
	Prefix   string
	MaxBytes int64
}

func NewLocal(root, prefix string, maxBytes int64) *Local {
	return &Local{Root: root, Prefix: "/" + strings.Trim(prefix, "/"), MaxBytes: maxBytes}
}

// Save writes r to Root/dir/name and returns "<Prefix>/<dir>/<name>".
func (l *Local) Save(ctx context.Context, dir, name string, r io.Reader) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}
	rel := path.Join(dir, name)
	target, err := l.resolve(rel)
	if err != nil {
		return "", 0, err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", 0, fmt.Errorf("create upload dir: %w", err)
	}
	f, err := os.OpenFile(target, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", 0, fmt.Errorf("create upload file: %w", err)
	}

	src := r
	if l.MaxBytes > 0 {
		src = io.LimitReader(r, l.MaxBytes+1)
	}
	n, err := io.Copy(f, src)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && l.MaxBytes > 0 && n > l.MaxBytes {
		err = fmt.Errorf("%w: %d bytes", ErrTooLarge, l.MaxBytes)
	}
	if err != nil {
		_ = os.Remove(target)
		return "", 0, err
	}
	return l.Prefix + path.Clean("/"+rel), n, nil
}

// Remove deletes the file behind a public path. Missing files are not an error.
func (l *Local) Remove(publicPath string) error {
	rel := strings.TrimPrefix(publicPath, l.Prefix+"/")
	if rel == publicPath {
		return fmt.Errorf("%q: %w", publicPath, ErrOutsideRoot)
	}
	target, err := l.resolve(rel)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (l *Local) resolve(rel string) (string, error) {
	clean := path.Clean("/" + rel)
	if clean == "/" {
		return "", fmt.Errorf("%q: %w", rel, ErrOutsideRoot)
	}
	return filepath.Join(l.Root, filepath.FromSlash(clean)), nil
}

// Handler serves stored files below Prefix.
func (l *Local) Handler() http.Handler {
	return http.StripPrefix(l.Prefix, http.FileServer(noListing{http.Dir(l.Root)}))
}

// noListing hides directory indexes.
type noListing struct{ fs http.FileSystem }

func (n noListing) Open(name string) (http.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if st.IsDir() {
		f.Close()
		return nil, fs.ErrNotExist
	}
	return f, nil
}
