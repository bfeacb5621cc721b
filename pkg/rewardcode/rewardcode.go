package rewardcode

import (
	"crypto/rand"
	"fmt"
)

// Length 奖励码固定 6 位
const Length = 6

// digits 不含 0，避免和字母 O 混淆的客服成本
const digits = "123456789"

// Generate 生成一个 6 位奖励码，每一位独立取自 1-9。
// 不保证全局唯一：一次完成只会写一条完成记录，周期的唯一性由记录保证，
// 码本身只是顾客向店员出示的凭据。
func Generate() (string, error) {
	buf := make([]byte, Length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	code := make([]byte, Length)
	for i, b := range buf {
		code[i] = digits[int(b)%len(digits)]
	}

	return string(code), nil
}
