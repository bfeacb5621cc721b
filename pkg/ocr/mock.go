package ocr

import (
	"context"
	"errors"
	"sync"
)

// MockClient 可配置的 OCR mock，实现 Client 接口。
// 开发环境没有 tesseract 时把图片字节原样当文本返回，方便联调；
// 测试里用 Responses 队列精确控制输出。
type MockClient struct {
	mu        sync.Mutex
	Calls     int
	Responses []string

	// FailNext 置为 true 时，下一次调用返回 mock 错误并自动复位
	FailNext bool
}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) ExtractText(ctx context.Context, image []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls++

	if m.FailNext {
		m.FailNext = false
		return "", errors.New("mock ocr failure")
	}

	if len(m.Responses) > 0 {
		text := m.Responses[0]
		m.Responses = m.Responses[1:]
		return text, nil
	}

	return string(image), nil
}
