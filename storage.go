package genepool

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
)

// GCSPrefix marks destinations and sources held in Google Cloud Storage, as in
// gs://bucket/path/to/object.
const GCSPrefix = "gs://"

// Stdout is the destination name that writes to standard output. An empty
// destination means the same.
const Stdout = "-"

// ExpandHome replaces a leading "~/" with the current user's home directory.
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	usr, err := user.Current()
	if err != nil {
		return "", pfx.Err(err)
	}

	return filepath.Join(usr.HomeDir, path[2:]), nil
}

// ParseGCSPath splits gs://bucket/object into its bucket and object. ok is
// false if path is not a well formed Cloud Storage path.
func ParseGCSPath(path string) (bucket, object string, ok bool) {
	if !strings.HasPrefix(path, GCSPrefix) {
		return "", "", false
	}

	parts := strings.SplitN(strings.TrimPrefix(path, GCSPrefix), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}

	return parts[0], parts[1], true
}

// Create opens dest for writing. dest may be empty or "-" for stdout, a
// gs:// path, or a local path. Names ending in .zst are Zstandard compressed
// when the returned writer is closed.
func Create(ctx context.Context, dest string) (io.WriteCloser, error) {
	w, err := createRaw(ctx, dest)
	if err != nil {
		return nil, pfx.Err(err)
	}

	if CompressionFor(dest) == CompressionZStandard {
		return &zstdWriter{dest: w}, nil
	}

	return w, nil
}

// Open opens src for reading, following the same naming rules as Create.
func Open(ctx context.Context, src string) (io.ReadCloser, error) {
	r, err := openRaw(ctx, src)
	if err != nil {
		return nil, pfx.Err(err)
	}

	if CompressionFor(src) != CompressionZStandard {
		return r, nil
	}
	defer r.Close()

	compressed, err := io.ReadAll(r)
	if err != nil {
		return nil, pfx.Err(err)
	}
	data, err := DecompressZStandard(nil, compressed)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("decompressing %s: %w", src, err))
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

func createRaw(ctx context.Context, dest string) (io.WriteCloser, error) {
	if dest == "" || dest == Stdout {
		return nopWriteCloser{os.Stdout}, nil
	}

	if strings.HasPrefix(dest, GCSPrefix) {
		bucket, object, ok := ParseGCSPath(dest)
		if !ok {
			return nil, fmt.Errorf("%s is not of the form gs://bucket/object", dest)
		}
		client, err := storage.NewClient(ctx)
		if err != nil {
			return nil, pfx.Err(err)
		}
		return &gcsWriter{
			Writer: client.Bucket(bucket).Object(object).NewWriter(ctx),
			client: client,
		}, nil
	}

	path, err := ExpandHome(dest)
	if err != nil {
		return nil, pfx.Err(err)
	}

	return os.Create(path)
}

func openRaw(ctx context.Context, src string) (io.ReadCloser, error) {
	if src == "" || src == Stdout {
		return io.NopCloser(os.Stdin), nil
	}

	if strings.HasPrefix(src, GCSPrefix) {
		bucket, object, ok := ParseGCSPath(src)
		if !ok {
			return nil, fmt.Errorf("%s is not of the form gs://bucket/object", src)
		}
		client, err := storage.NewClient(ctx)
		if err != nil {
			return nil, pfx.Err(err)
		}
		r, err := client.Bucket(bucket).Object(object).NewReader(ctx)
		if err != nil {
			client.Close()
			return nil, pfx.Err(err)
		}
		return &gcsReader{Reader: r, client: client}, nil
	}

	path, err := ExpandHome(src)
	if err != nil {
		return nil, pfx.Err(err)
	}

	return os.Open(path)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// gcsWriter owns the client it was created from. The object is only
// committed once Close returns without error.
type gcsWriter struct {
	*storage.Writer
	client *storage.Client
}

func (w *gcsWriter) Close() error {
	err := w.Writer.Close()
	if cerr := w.client.Close(); err == nil {
		err = cerr
	}

	return err
}

type gcsReader struct {
	*storage.Reader
	client *storage.Client
}

func (r *gcsReader) Close() error {
	err := r.Reader.Close()
	if cerr := r.client.Close(); err == nil {
		err = cerr
	}

	return err
}

// zstdWriter buffers everything written to it and compresses it as one frame
// on Close.
type zstdWriter struct {
	buf  bytes.Buffer
	dest io.WriteCloser
}

func (w *zstdWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *zstdWriter) Close() error {
	compressed, err := CompressZStandard(nil, w.buf.Bytes())
	if err != nil {
		w.dest.Close()
		return pfx.Err(err)
	}

	if _, err := w.dest.Write(compressed); err != nil {
		w.dest.Close()
		return pfx.Err(err)
	}

	return w.dest.Close()
}
