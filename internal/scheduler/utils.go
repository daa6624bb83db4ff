package scheduler

import (
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/meetup-poll/backend/internal/domain"
)

// EncodeSlotKey 将 (日期, 小时, 分钟) 编码为格子标识
func EncodeSlotKey(date string, hour, minute int) (domain.SlotKey, error) {
	if hour < 0 || hour > 23 {
		return "", fmt.Errorf("%w: 小时 %d 超出范围", ErrInvalidTime, hour)
	}
	if minute != 0 && minute != slotMinutes {
		return "", fmt.Errorf("%w: 分钟只能为 0 或 30，实际为 %d", ErrInvalidTime, minute)
	}
	if !IsDate(date) {
		return "", fmt.Errorf("%w: 日期 %q 不是 YYYY-MM-DD", ErrMalformedKey, date)
	}

	return domain.SlotKey(fmt.Sprintf("%sT%s", date, FormatClock(hour, minute))), nil
}

// DecodeSlotKey 是 EncodeSlotKey 的逆操作
func DecodeSlotKey(key domain.SlotKey) (date string, hour, minute int, err error) {
	s := string(key)
	if len(s) != len("2006-01-02T15:04") || s[10] != 'T' {
		return "", 0, 0, fmt.Errorf("%w: %q", ErrMalformedKey, s)
	}

	date = s[:10]
	if !IsDate(date) {
		return "", 0, 0, fmt.Errorf("%w: %q", ErrMalformedKey, s)
	}

	hour, minute, err = ParseClock(s[11:])
	if err != nil {
		return "", 0, 0, fmt.Errorf("%w: %q", ErrMalformedKey, s)
	}

	return date, hour, minute, nil
}

// EndOfSlot 返回下一个格子的开始时间。
// 23:30 的格子结束于 (24, 0)，表示当天结束，不会进位到下一天。
func EndOfSlot(hour, minute int) (int, int) {
	if minute < slotMinutes {
		return hour, slotMinutes
	}
	return hour + 1, 0
}

// ParseClock 解析 HH:MM，只接受 00:00 到 23:30 之间的半小时整点
func ParseClock(s string) (hour, minute int, err error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
		}
	}

	hour = int(s[0]-'0')*10 + int(s[1]-'0')
	minute = int(s[3]-'0')*10 + int(s[4]-'0')
	if hour > 23 || (minute != 0 && minute != slotMinutes) {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}

	return hour, minute, nil
}

func FormatClock(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

func IsDate(s string) bool {
	if len(s) != len(dateLayout) {
		return false
	}
	_, err := time.Parse(dateLayout, s)
	return err == nil
}
