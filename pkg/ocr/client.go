package ocr

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"StampCard/config"
	"StampCard/pkg/logger"
)

// Client 文本提取客户端接口。
// 小票校验只依赖"图片进、文本出"这一个能力，匹配和解析策略都在上层，
// 方便独立替换或加固 OCR 引擎。
type Client interface {
	// ExtractText 从图片字节中提取文本。
	// 无法解码的输入返回错误，调用方应当提示用户重拍。
	ExtractText(ctx context.Context, image []byte) (string, error)
}

var (
	ocrClient Client
	ocrOnce   sync.Once
	ocrErr    error
)

// Init 初始化 OCR 客户端
func Init() error {
	ocrOnce.Do(func() {
		cfg := config.Cfg

		switch cfg.OCRProvider {
		case "tesseract":
			ocrClient, ocrErr = NewTesseractClient(cfg.OCRBinaryPath, cfg.OCRLanguage)
		case "mock":
			ocrClient = NewMockClient()
		default:
			ocrErr = fmt.Errorf("unsupported OCR provider: %s", cfg.OCRProvider)
		}

		if ocrErr != nil {
			logger.Logger.Error("Failed to initialize OCR client", zap.Error(ocrErr))
			return
		}

		logger.Logger.Info("OCR client initialized successfully",
			zap.String("provider", cfg.OCRProvider),
		)
	})

	return ocrErr
}

func GetClient() Client {
	if ocrClient == nil {
		panic("OCR client not initialized, call ocr.Init() first")
	}
	return ocrClient
}

func ExtractText(ctx context.Context, image []byte) (string, error) {
	return GetClient().ExtractText(ctx, image)
}
