package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"StampCard/pkg/geo"
)

// IPStackClient 调用 ipstack 的免费 HTTP API。
// 免费套餐有月度配额，结果应当由上层缓存。
type IPStackClient struct {
	accessKey  string
	httpClient *http.Client
}

func NewIPStackClient(accessKey string) *IPStackClient {
	return &IPStackClient{
		accessKey: accessKey,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

type ipstackResponse struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Success   *bool    `json:"success"`
	Error     struct {
		Code int    `json:"code"`
		Type string `json:"type"`
	} `json:"error"`
}

func (c *IPStackClient) Locate(ctx context.Context, ip string) (geo.Point, error) {
	if c.accessKey == "" {
		return geo.Point{}, fmt.Errorf("ipstack access key not configured")
	}

	url := fmt.Sprintf("http://api.ipstack.com/%s?access_key=%s", ip, c.accessKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return geo.Point{}, fmt.Errorf("failed to build ipstack request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return geo.Point{}, fmt.Errorf("ipstack request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return geo.Point{}, fmt.Errorf("ipstack returned status %d", resp.StatusCode)
	}

	var body ipstackResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return geo.Point{}, fmt.Errorf("failed to decode ipstack response: %w", err)
	}

	// ipstack 出错时返回 success=false（比如配额用完），正常响应没有 success 字段
	if body.Success != nil && !*body.Success {
		return geo.Point{}, fmt.Errorf("ipstack error: %s (code %d)", body.Error.Type, body.Error.Code)
	}

	if body.Latitude == nil || body.Longitude == nil {
		return geo.Point{}, fmt.Errorf("ipstack response missing coordinates")
	}

	return geo.Point{Lat: *body.Latitude, Long: *body.Longitude}, nil
}
