package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// TesseractClient 调用本机 tesseract 可执行文件做识别。
// OCR 是 CPU 密集操作，超时控制交给调用方传入的 ctx。
type TesseractClient struct {
	binary   string
	language string
}

func NewTesseractClient(binary, language string) (*TesseractClient, error) {
	path, err := exec.LookPath(binary)
	if err != nil {
		return nil, fmt.Errorf("tesseract binary not found: %w", err)
	}

	return &TesseractClient{
		binary:   path,
		language: language,
	}, nil
}

func (t *TesseractClient) ExtractText(ctx context.Context, image []byte) (string, error) {
	if len(image) == 0 {
		return "", fmt.Errorf("empty image payload")
	}

	// stdin/stdout 模式，不落临时文件
	cmd := exec.CommandContext(ctx, t.binary, "stdin", "stdout", "-l", t.language)
	cmd.Stdin = bytes.NewReader(image)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("ocr timed out: %w", ctx.Err())
		}
		return "", fmt.Errorf("tesseract failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	return stdout.String(), nil
}
