package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"
)

// ArchiveError reports which object broke the stream
type ArchiveError struct {
	Path string
	Err  error
}

func (e *ArchiveError) Error() string {
	return fmt.Sprintf("archive %s: %v", e.Path, e.Err)
}

func (e *ArchiveError) Unwrap() error {
	return e.Err
}

// WriteZip streams objects into w as a zip archive with every entry at the root.
// Nothing is buffered beyond the compressor window. On error the central directory
// is never written, so whatever reached the client is not a valid archive.
func WriteZip(ctx context.Context, st Storage, w io.Writer, objects []Object) error {
	zw := zip.NewWriter(w)
	names := make(map[string]int, len(objects))

	for _, obj := range objects {
		if err := ctx.Err(); err != nil {
			return &ArchiveError{Path: obj.Path, Err: err}
		}
		if err := addEntry(ctx, st, zw, obj, flatName(names, obj.Path)); err != nil {
			return &ArchiveError{Path: obj.Path, Err: err}
		}
	}

	if err := zw.Close(); err != nil {
		return &ArchiveError{Err: err}
	}
	return nil
}

func addEntry(ctx context.Context, st Storage, zw *zip.Writer, obj Object, name string) error {
	rc, err := st.Get(ctx, obj.Path)
	if err != nil {
		return err
	}
	defer rc.Close()

	header := &zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: time.Now(),
	}
	fw, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}
	_, err = io.Copy(fw, rc)
	return err
}

// flatName drops directories; duplicate base names get a numeric suffix
func flatName(seen map[string]int, p string) string {
	base := path.Base(p)
	n := seen[base]
	seen[base] = n + 1
	if n == 0 {
		return base
	}

	ext := path.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return stem + "-" + strconv.Itoa(n+1) + ext
}
