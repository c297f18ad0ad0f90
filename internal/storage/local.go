package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/konstantinfoerster/scryfall-go/internal/aio"
	"github.com/konstantinfoerster/scryfall-go/internal/config"
)

func NewLocalStorage(cfg config.Storage) (Storer, error) {
	base, err := filepath.Abs(cfg.Location)
	if err != nil {
		return nil, fmt.Errorf("invalid storage location %s %w", cfg.Location, err)
	}
	if err := os.MkdirAll(base, 0750); err != nil {
		return nil, fmt.Errorf("failed to create storage dir %s %w", base, err)
	}

	return &localStorage{
		base: base,
		mode: cfg.Mode,
	}, nil
}

type localStorage struct {
	base string
	mode string
}

func (s *localStorage) fromBasePath(path ...string) (string, error) {
	// joining with a leading separator drops every ".." that would leave the base dir
	target := filepath.Join(s.base, filepath.Join(append([]string{string(filepath.Separator)}, path...)...))

	rel, err := filepath.Rel(s.base, target)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("path is not within base path, %s", s.base)
	}

	return target, nil
}

func (s *localStorage) Store(r io.Reader, path ...string) (_ StoredFile, err error) {
	filePath, err := s.fromBasePath(path...)
	if err != nil {
		return StoredFile{}, err
	}
	if filePath == s.base {
		return StoredFile{}, fmt.Errorf("missing file name")
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0750); err != nil {
		return StoredFile{}, fmt.Errorf("failed to create sub dirs for %s %w", filePath, err)
	}

	flags := os.O_RDWR | os.O_CREATE
	if s.mode == config.REPLACE {
		flags |= os.O_TRUNC // truncate existing file
	} else {
		flags |= os.O_EXCL // file must not exist
	}

	// #nosec G304 fromBasePath does already a path cleanup
	target, err := os.OpenFile(filePath, flags, 0600)
	if err != nil {
		return StoredFile{}, fmt.Errorf("failed to create empty file %s with mode %s %w", filePath, s.mode, err)
	}
	// runs after the close, incomplete files must not be served by Load or Exists
	defer func() {
		if err == nil {
			return
		}
		if rErr := os.Remove(filePath); rErr != nil {
			err = errors.Join(err, fmt.Errorf("failed to remove incomplete file %s %w", filePath, rErr))
		}
	}()
	defer aio.CloseWithErr(target, &err)

	if _, err = io.Copy(target, r); err != nil {
		return StoredFile{}, fmt.Errorf("failed to copy file %w", err)
	}

	if err = target.Sync(); err != nil {
		return StoredFile{}, fmt.Errorf("failed to sync file %w", err)
	}

	return StoredFile{
		AbsolutePath: filePath,
		Path:         s.removeBasePath(filePath),
	}, nil
}

func (s *localStorage) removeBasePath(path string) string {
	noBasePath := strings.TrimPrefix(path, s.base)

	return strings.TrimPrefix(noBasePath, string(filepath.Separator))
}

func (s *localStorage) Load(path ...string) (io.ReadCloser, error) {
	filePath, err := s.fromBasePath(path...)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to get file info %s %w", filePath, err)
	}

	if info.IsDir() {
		return nil, fmt.Errorf("loading a directory is not supported")
	}

	// #nosec G304 fromBasePath does already a path cleanup
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s %w", filePath, err)
	}

	return file, nil
}

// Exists reports whether a regular file is stored at path.
func (s *localStorage) Exists(path ...string) (bool, error) {
	filePath, err := s.fromBasePath(path...)
	if err != nil {
		return false, err
	}

	info, err := os.Stat(filePath)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get file info %s %w", filePath, err)
	}

	return !info.IsDir(), nil
}
