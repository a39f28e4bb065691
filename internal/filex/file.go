// Package filex holds small filesystem helpers for the CLI: preparing the
// directory of the local state file and opening files picked for upload.
package filex

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// EnsureParentDir creates the directory that will hold path. A bare file
// name needs no directory and is a no-op.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}

// Upload is a regular file opened for upload. The caller closes it.
type Upload struct {
	*os.File
	Name        string
	Size        int64
	ContentType string
}

// OpenUpload opens path and sniffs its content type from the first 512
// bytes. The file offset is rewound before returning.
func OpenUpload(path string) (*Upload, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if fi.IsDir() {
		_ = f.Close()
		return nil, fmt.Errorf("%s is a directory", path)
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		_ = f.Close()
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("seek %s: %w", path, err)
	}

	return &Upload{
		File:        f,
		Name:        filepath.Base(path),
		Size:        fi.Size(),
		ContentType: http.DetectContentType(head[:n]),
	}, nil
}
