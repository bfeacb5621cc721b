package geoip

import (
	"context"
	"errors"
	"sync"

	"StampCard/pkg/geo"
)

// MockClient 固定坐标的 GeoIP mock，实现 Client 接口
type MockClient struct {
	mu    sync.Mutex
	Calls []string
	Point geo.Point

	// FailNext 置为 true 时，下一次调用返回 mock 错误并自动复位
	FailNext bool
}

func NewMockClient(point geo.Point) *MockClient {
	return &MockClient{Point: point}
}

func (m *MockClient) Locate(ctx context.Context, ip string) (geo.Point, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, ip)

	if m.FailNext {
		m.FailNext = false
		return geo.Point{}, errors.New("mock geoip failure")
	}

	return m.Point, nil
}
