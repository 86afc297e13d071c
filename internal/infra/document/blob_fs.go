package document

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ファイルシステム実装のblob置き場。baseURLを設定すれば公開URLを返す。
type FSBlobStore struct {
	Dir     string
	BaseURL string
}

func NewFSBlobStore(dir string, baseURL string) *FSBlobStore {
	return &FSBlobStore{Dir: dir, BaseURL: baseURL}
}

func (s *FSBlobStore) Put(ctx context.Context, path string, data []byte) (string, error) {
	full := filepath.Join(s.Dir, filepath.Clean("/"+path))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("failed to create blob dir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write blob: %w", err)
	}

	if s.BaseURL != "" {
		return strings.TrimRight(s.BaseURL, "/") + "/" + strings.TrimLeft(path, "/"), nil
	}
	return full, nil
}
