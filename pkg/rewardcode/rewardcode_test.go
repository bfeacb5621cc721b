package rewardcode

import (
	"regexp"
	"testing"
)

var codePattern = regexp.MustCompile(`^[1-9]{6}$`)

func TestGenerateFormat(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := Generate()
		if err != nil {
			t.Fatalf("Generate() error: %v", err)
		}
		if !codePattern.MatchString(code) {
			t.Fatalf("code %q does not match ^[1-9]{6}$", code)
		}
	}
}

func TestGenerateVaries(t *testing.T) {
	// 不要求唯一，但 50 次全部相同基本只可能是坏掉了
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := Generate()
		if err != nil {
			t.Fatalf("Generate() error: %v", err)
		}
		seen[code] = true
	}

	if len(seen) < 2 {
		t.Errorf("expected varied codes, got %d distinct of 50", len(seen))
	}
}
