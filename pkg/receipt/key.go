package receipt

import (
	"fmt"
	"regexp"
	"time"
)

// MaxKeyLen 与 receipt_records.receipt_key 的列宽保持一致
const MaxKeyLen = 300

var (
	datePattern = regexp.MustCompile(`\d{2}[/-]\d{2}[/-]\d{4}`)
	timePattern = regexp.MustCompile(`\d{2}:\d{2}:\d{2}`)
)

// BuildKey 从商家名和小票 OCR 文本推导去重指纹。
// 相同输入必须得到逐字节相同的 key，这是去重唯一依赖的性质：
// 找到零个或多个日期/时间 token 时全部按序编进 key，
// 没找到时编码成空列表标记 "[]"，本身也是一个合法（但弱）的 key。
func BuildKey(merchant, text string) string {
	dates := datePattern.FindAllString(text, -1)
	times := timePattern.FindAllString(text, -1)

	key := merchant + formatTokens(dates) + formatTokens(times)
	if len(key) > MaxKeyLen {
		key = key[:MaxKeyLen]
	}

	return key
}

func formatTokens(tokens []string) string {
	if tokens == nil {
		tokens = []string{}
	}
	return fmt.Sprintf("%v", tokens)
}

// ParsePurchasedAt 尽力解析小票上的购买时间，仅在日期 token 恰好唯一时有意义。
// 解析不出来不算错误，审计字段留空即可。
func ParsePurchasedAt(text string) (time.Time, bool) {
	dates := datePattern.FindAllString(text, -1)
	if len(dates) != 1 {
		return time.Time{}, false
	}

	var day time.Time
	var err error
	for _, layout := range []string{"02/01/2006", "02-01-2006"} {
		day, err = time.Parse(layout, dates[0])
		if err == nil {
			break
		}
	}
	if err != nil {
		return time.Time{}, false
	}

	times := timePattern.FindAllString(text, -1)
	if len(times) != 1 {
		return day, true
	}

	clock, err := time.Parse("15:04:05", times[0])
	if err != nil {
		return day, true
	}

	return time.Date(
		day.Year(), day.Month(), day.Day(),
		clock.Hour(), clock.Minute(), clock.Second(),
		0, day.Location(),
	), true
}
