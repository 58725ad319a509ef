package stats

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// excelEpochOffset Excel 1900 日期系统序列号与 Unix 纪元的天数差
// （序列号 25569 即 1970-01-01）
const excelEpochOffset = 25569

var dateLayouts = []string{
	"2006-1-2 15:04:05",
	"2006-1-2 15:04",
	"2006-1-2",
	"2006-1-2T15:04:05",
	time.RFC3339,
}

// NormalizeDate 将异构单元格值归一化为日期时间
// 支持 time.Time 透传、Excel 序列号（数字或数字字符串）以及常见日期字符串；
// 序列号一律按 UTC 日历日换算，不做本地时区偏移。
// 解析失败返回 ok=false，绝不 panic。
func NormalizeDate(v any) (time.Time, bool) {
	switch val := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if val.IsZero() {
			return time.Time{}, false
		}
		return val, true
	case float64:
		return serialToTime(val)
	case float32:
		return serialToTime(float64(val))
	case int:
		return serialToTime(float64(val))
	case int64:
		return serialToTime(float64(val))
	case string:
		return parseDateString(val)
	default:
		return time.Time{}, false
	}
}

func serialToTime(serial float64) (time.Time, bool) {
	// 序列号必须落在合理的日历范围内，否则视为普通数字
	if serial <= 0 || serial > 500000 {
		return time.Time{}, false
	}
	ms := int64(math.Round((serial - excelEpochOffset) * 86400 * 1000))
	return time.UnixMilli(ms).UTC(), true
}

func parseDateString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	lower := strings.ToLower(s)
	if lower == "nan" || lower == "null" {
		return time.Time{}, false
	}

	// 纯数字字符串按 Excel 序列号处理（excelize 原始值模式下日期即如此）
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return serialToTime(n)
	}

	// 统一 . 和 / 为 - 分隔符后尝试通用解析
	normalized := strings.ReplaceAll(strings.ReplaceAll(s, ".", "-"), "/", "-")
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, normalized); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// StartOfDay 截断到当日零点（UTC 日历日）
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDay 格式化为 YYYY-MM-DD
func FormatDay(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
