package media

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"StampCard/config"
)

// 支持的图片扩展名，小票照片和商家 logo 都走这里
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// ValidExtension 判断上传文件名的扩展名是否可接受
func ValidExtension(filename string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// Save 把上传内容落盘到 MEDIA_ROOT/<subdir>/ 下，文件名用 uuid 防碰撞和路径注入。
// 返回相对 MEDIA_ROOT 的路径，入库存这个。
func Save(subdir, originalName string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("unsupported media extension: %q", ext)
	}

	dir := filepath.Join(config.Cfg.MediaRoot, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create media dir: %w", err)
	}

	name := uuid.NewString() + ext
	fullPath := filepath.Join(dir, name)

	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write media file: %w", err)
	}

	return filepath.Join(subdir, name), nil
}

// FullPath 由入库的相对路径还原出磁盘路径
func FullPath(relPath string) string {
	return filepath.Join(config.Cfg.MediaRoot, relPath)
}
