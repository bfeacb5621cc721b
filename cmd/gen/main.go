package main

import (
	"StampCard/internal/repository"
	"StampCard/pkg/logger"
)

func main() {
	logger.Init()
	defer logger.Sync()

	repository.RunGenerate()
}
