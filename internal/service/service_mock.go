package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/UnendingLoop/ImageWatermark/internal/model"
)

// MOCK STORAGE

type mockStorage struct {
	putFn    func(ctx context.Context, key string, size int64, ct string, r io.Reader) error
	getFn    func(ctx context.Context, key string) (io.ReadCloser, string, error)
	existsFn func(ctx context.Context, key string) (bool, error)
	deleteFn func(ctx context.Context, key string) error
}

func (m *mockStorage) Put(ctx context.Context, key string, size int64, ct string, r io.Reader) error {
	return m.putFn(ctx, key, size, ct, r)
}

func (m *mockStorage) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	return m.getFn(ctx, key)
}

func (m *mockStorage) Exists(ctx context.Context, key string) (bool, error) {
	return m.existsFn(ctx, key)
}

func (m *mockStorage) Delete(ctx context.Context, key string) error {
	return m.deleteFn(ctx, key)
}

// IN-MEMORY STORAGE

type memStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	ctypes  map[string]string
	deleted []string
}

func newMemStorage() *memStorage {
	return &memStorage{objects: map[string][]byte{}, ctypes: map[string]string{}}
}

func (m *memStorage) Put(ctx context.Context, key string, size int64, ct string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	m.ctypes[key] = ct
	return nil
}

func (m *memStorage) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.objects[key]
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", model.ErrNotFound, key)
	}
	return io.NopCloser(bytes.NewReader(data)), m.ctypes[key], nil
}

func (m *memStorage) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.objects[key]
	return ok, nil
}

func (m *memStorage) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.objects, key)
	m.deleted = append(m.deleted, key)
	return nil
}
