package utils

import (
	"regexp"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func ValidateEmail(email string) bool {
	return len(email) <= 255 && emailPattern.MatchString(email)
}

// ValidatePassword 注册时的最低强度要求
func ValidatePassword(password string) bool {
	return len(password) >= 8 && len(password) <= 72 // bcrypt 上限 72 字节
}
