// Package filestorage provides image storage on the local file system; keys are file paths
package filestorage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/UnendingLoop/ImageWatermark/internal/model"
	"github.com/gabriel-vasile/mimetype"
)

type FileImageStorage struct {
	root       string
	createDirs bool
}

// NewFileStorage - при пустом root ключи трактуются как пути относительно рабочей директории,
// иначе ключ обязан оставаться внутри root.
// createDirs=false означает, что отсутствующая директория для записи - это ошибка записи.
func NewFileStorage(root string, createDirs bool) *FileImageStorage {
	return &FileImageStorage{root: root, createDirs: createDirs}
}

func (s *FileImageStorage) resolve(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("%w: empty key", model.ErrInvalidArgument)
	}
	if s.root == "" {
		return key, nil
	}

	clean := filepath.Clean(filepath.FromSlash(key))
	if !filepath.IsLocal(clean) {
		return "", fmt.Errorf("%w: key %q escapes storage root", model.ErrInvalidArgument, key)
	}
	return filepath.Join(s.root, clean), nil
}

func (s *FileImageStorage) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	path, err := s.resolve(key)
	if err != nil {
		return nil, "", err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", &model.PathError{Op: "open", Path: key, Err: errors.Join(model.ErrNotFound, err)}
		}
		return nil, "", &model.PathError{Op: "open", Path: key, Err: err}
	}

	// тип определяем по содержимому, расширению файла верить нельзя
	cType := ""
	if mime, err := mimetype.DetectReader(f); err == nil {
		cType = mime.String()
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		_ = f.Close()
		return nil, "", &model.PathError{Op: "open", Path: key, Err: err}
	}

	return f, cType, nil
}

// Put пишет во временный файл рядом с целевым и переименовывает его - частично записанный файл
// никогда не окажется по итоговому пути
func (s *FileImageStorage) Put(ctx context.Context, key string, size int64, contentType string, r io.Reader) error {
	if r == nil {
		return &model.PathError{Op: "write", Path: key, Err: fmt.Errorf("%w: nil reader", model.ErrWrite)}
	}

	path, err := s.resolve(key)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if s.createDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &model.PathError{Op: "write", Path: key, Err: errors.Join(model.ErrWrite, err)}
		}
	}

	tmp, err := os.CreateTemp(dir, ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return &model.PathError{Op: "write", Path: key, Err: errors.Join(model.ErrWrite, err)}
	}
	tmpName := tmp.Name()

	if err := writeAndClose(tmp, r); err != nil {
		removeQuietly(tmpName)
		return &model.PathError{Op: "write", Path: key, Err: errors.Join(model.ErrWrite, err)}
	}

	if err := os.Chmod(tmpName, 0o644); err != nil {
		removeQuietly(tmpName)
		return &model.PathError{Op: "write", Path: key, Err: errors.Join(model.ErrWrite, err)}
	}

	if err := os.Rename(tmpName, path); err != nil {
		removeQuietly(tmpName)
		return &model.PathError{Op: "write", Path: key, Err: errors.Join(model.ErrWrite, err)}
	}

	return nil
}

func (s *FileImageStorage) Exists(ctx context.Context, key string) (bool, error) {
	path, err := s.resolve(key)
	if err != nil {
		return false, err
	}

	info, err := os.Stat(path)
	switch {
	case err == nil:
		return info.Mode().IsRegular(), nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

func (s *FileImageStorage) Delete(ctx context.Context, key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func writeAndClose(f *os.File, r io.Reader) error {
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func removeQuietly(path string) {
	_ = os.Remove(path)
}
