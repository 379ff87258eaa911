package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// 受け付ける画像拡張子
var allowedExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// ローカルディスクに保存して /uploads/ 配下のURLを返す画像ストア。
type LocalImageStore struct {
	dir string
}

func NewLocalImageStore(dir string) (*LocalImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &LocalImageStore{dir: dir}, nil
}

func (s *LocalImageStore) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExts[ext] {
		return "", fmt.Errorf("unsupported image type: %s", ext)
	}

	name := fmt.Sprintf("product-%d%s", time.Now().UnixNano(), ext)

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return "", err
	}

	return "/uploads/" + name, nil
}
