package main

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"path"
)

//go:embed embed/sql
var embeddedSQLFS embed.FS

// unembedFS returns the embed/subdirectory subdirectory of the file system.
func unembedFS(fsys fs.FS, subdirectory string) (fs.FS, error) {
	dir := path.Join("embed", subdirectory)
	return fs.Sub(fsys, dir)
}

// sqlFiles reads the setup queries of the sql file system in name order.
func sqlFiles(fsys fs.FS) ([]io.Reader, error) {
	sqlFS, err := unembedFS(fsys, "sql")
	if err != nil {
		return nil, fmt.Errorf("unembedding sql files: %w", err)
	}
	entries, err := fs.ReadDir(sqlFS, ".")
	if err != nil {
		return nil, fmt.Errorf("reading sql directory: %w", err)
	}
	files := make([]io.Reader, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".sql" {
			continue
		}
		f, err := sqlFS.Open(e.Name())
		if err != nil {
			return nil, fmt.Errorf("opening %v: %w", e.Name(), err)
		}
		files = append(files, f)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no sql files")
	}
	return files, nil
}
