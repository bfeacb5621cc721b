package receipt

import (
	"strings"
	"testing"
)

func TestBuildKeyDeterministic(t *testing.T) {
	text := "Costa Coffee\n25/01/2023 12:30:45\nTotal 3.20"

	first := BuildKey("Costa", text)
	second := BuildKey("Costa", text)

	if first != second {
		t.Errorf("BuildKey not deterministic: %q vs %q", first, second)
	}
}

func TestBuildKeySingleMatch(t *testing.T) {
	key := BuildKey("Costa", "Costa 25/01/2023 12:30:45")

	want := "Costa[25/01/2023][12:30:45]"
	if key != want {
		t.Errorf("BuildKey = %q, want %q", key, want)
	}
}

func TestBuildKeyNoMatches(t *testing.T) {
	key := BuildKey("Costa", "no timestamps on this receipt")

	// 没找到 token 时编码成空列表标记，key 仍然合法
	want := "Costa[][]"
	if key != want {
		t.Errorf("BuildKey = %q, want %q", key, want)
	}
}

func TestBuildKeyMultipleMatches(t *testing.T) {
	text := "printed 25/01/2023, visited 26-01-2023, in 10:00:00 out 10:45:30"
	key := BuildKey("Costa", text)

	want := "Costa[25/01/2023 26-01-2023][10:00:00 10:45:30]"
	if key != want {
		t.Errorf("BuildKey = %q, want %q", key, want)
	}
}

func TestBuildKeySeparatorVariants(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"25/01/2023", "Costa[25/01/2023][]"},
		{"25-01-2023", "Costa[25-01-2023][]"},
		{"2023/01/25", "Costa[][]"},   // 四位年在前不符合两位/两位/四位的模式
		{"25.01.2023", "Costa[][]"},   // 点分隔不识别
		{"12:30", "Costa[][]"},        // 缺秒的时间不识别
	}

	for _, tt := range tests {
		if got := BuildKey("Costa", tt.text); got != tt.want {
			t.Errorf("BuildKey(Costa, %q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestBuildKeyTruncated(t *testing.T) {
	text := strings.Repeat("25/01/2023 ", 40)
	key := BuildKey("Costa", text)

	if len(key) > MaxKeyLen {
		t.Errorf("key length = %d, want <= %d", len(key), MaxKeyLen)
	}

	// 截断之后仍然是确定性的
	if key != BuildKey("Costa", text) {
		t.Error("truncated key not deterministic")
	}
}

func TestParsePurchasedAt(t *testing.T) {
	ts, ok := ParsePurchasedAt("Costa 25/01/2023 12:30:45")
	if !ok {
		t.Fatal("expected a parsed timestamp")
	}
	if ts.Day() != 25 || ts.Month() != 1 || ts.Year() != 2023 {
		t.Errorf("wrong date: %v", ts)
	}
	if ts.Hour() != 12 || ts.Minute() != 30 || ts.Second() != 45 {
		t.Errorf("wrong time: %v", ts)
	}
}

func TestParsePurchasedAtAmbiguous(t *testing.T) {
	if _, ok := ParsePurchasedAt("25/01/2023 26/01/2023"); ok {
		t.Error("two date tokens should not parse")
	}
	if _, ok := ParsePurchasedAt("no dates here"); ok {
		t.Error("no date tokens should not parse")
	}
}
