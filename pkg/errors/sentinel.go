package errors

import "errors"

// token 相关的内部哨兵错误，不直接对外暴露
var (
	ErrTokenGeneratorNotInitialized = errors.New("token generator not initialized")
	ErrUnexpectedSigningMethod      = errors.New("unexpected signing method")
	ErrInvalidToken                 = errors.New("invalid token")
	ErrInvalidTokenClaims           = errors.New("invalid token claims")
	ErrInvalidTokenType             = errors.New("invalid token type")
)

// SkipMessageError 消费者返回它表示消息应当 ack 掉而不重试（重复消息等）
type SkipMessageError struct {
	Reason string
}

func (e *SkipMessageError) Error() string {
	return "skip message: " + e.Reason
}

// IsSkipMessage 判断消费错误是否为跳过类错误
func IsSkipMessage(err error) bool {
	var skip *SkipMessageError
	return errors.As(err, &skip)
}
