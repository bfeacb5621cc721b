package geoip

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"StampCard/config"
	"StampCard/pkg/geo"
	"StampCard/pkg/logger"
)

// Client IP 定位客户端接口，商家列表按距离排序时用来定位调用方
type Client interface {
	Locate(ctx context.Context, ip string) (geo.Point, error)
}

var (
	geoClient Client
	geoOnce   sync.Once
	geoErr    error
)

// Init 初始化 GeoIP 客户端
func Init() error {
	geoOnce.Do(func() {
		cfg := config.Cfg

		switch cfg.GeoIPProvider {
		case "ipstack":
			geoClient = NewIPStackClient(cfg.IPStackKey)
		case "mock":
			geoClient = NewMockClient(defaultPoint())
		default:
			geoErr = fmt.Errorf("unsupported GeoIP provider: %s", cfg.GeoIPProvider)
		}

		if geoErr != nil {
			logger.Logger.Error("Failed to initialize GeoIP client", zap.Error(geoErr))
			return
		}

		logger.Logger.Info("GeoIP client initialized successfully",
			zap.String("provider", cfg.GeoIPProvider),
		)
	})

	return geoErr
}

func GetClient() Client {
	if geoClient == nil {
		panic("GeoIP client not initialized, call geoip.Init() first")
	}
	return geoClient
}

// Locate 定位失败时回退到配置的默认坐标，列表排序宁可不准也不要报错
func Locate(ctx context.Context, ip string) geo.Point {
	point, err := GetClient().Locate(ctx, ip)
	if err != nil {
		logger.Logger.Warn("GeoIP lookup failed, using default coordinates",
			zap.String("ip", ip),
			zap.Error(err),
		)
		return defaultPoint()
	}
	return point
}

func defaultPoint() geo.Point {
	point, ok := geo.ParsePoint(config.Cfg.DefaultLat, config.Cfg.DefaultLong)
	if !ok {
		return geo.Point{Lat: 51.633789, Long: -0.125860}
	}
	return point
}
