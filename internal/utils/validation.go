package utils

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/sysu-ecnc-dev/meetup-poll/backend/internal/domain"
	"github.com/sysu-ecnc-dev/meetup-poll/backend/internal/scheduler"
)

// NormalizeEventDates 检查日期格式，并返回去重、排序后的日期
func NormalizeEventDates(dates []string, maxDates int) ([]string, error) {
	if len(dates) == 0 {
		return nil, errors.New("至少需要选择一个日期")
	}

	res := make([]string, 0, len(dates))
	for _, date := range dates {
		if !scheduler.IsDate(date) {
			return nil, fmt.Errorf("日期 %q 格式错误，应为 YYYY-MM-DD", date)
		}
		if !slices.Contains(res, date) {
			res = append(res, date)
		}
	}

	if len(res) > maxDates {
		return nil, fmt.Errorf("最多只能选择 %d 个日期", maxDates)
	}

	slices.Sort(res)
	return res, nil
}

func ValidateEventHours(startHour int32, endHour int32) error {
	if startHour < 0 || startHour > 23 {
		return fmt.Errorf("开始时间 %d 超出范围", startHour)
	}
	if endHour < 1 || endHour > 24 {
		return fmt.Errorf("结束时间 %d 超出范围", endHour)
	}
	if endHour <= startHour {
		return errors.New("结束时间必须晚于开始时间")
	}
	return nil
}

func ValidateTimezone(tz string) error {
	if tz == "" {
		return errors.New("时区不能为空")
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return fmt.Errorf("未知时区 %q", tz)
	}
	return nil
}

func ValidateEvent(event *domain.Event, maxDates int) error {
	dates, err := NormalizeEventDates(event.Dates, maxDates)
	if err != nil {
		return err
	}
	event.Dates = dates

	if err := ValidateEventHours(event.StartHour, event.EndHour); err != nil {
		return err
	}

	return ValidateTimezone(event.Timezone)
}

// NormalizeParticipantName 去除首尾空白；名字在同一活动中不区分大小写
func NormalizeParticipantName(name string) string {
	return strings.TrimSpace(name)
}

func SameParticipantName(a string, b string) bool {
	return strings.EqualFold(NormalizeParticipantName(a), NormalizeParticipantName(b))
}

// NormalizeSubmissionSlots 解码提交的格子，检查它们是否落在活动的日期和时间范围内，
// 返回去重、排序后的结果
func NormalizeSubmissionSlots(event *domain.Event, raw []string) ([]domain.SlotKey, error) {
	slots := make([]domain.SlotKey, 0, len(raw))

	for i, s := range raw {
		key := domain.SlotKey(s)
		date, hour, _, err := scheduler.DecodeSlotKey(key)
		if err != nil {
			return nil, fmt.Errorf("第 %d 个时间格式错误: %q", i+1, s)
		}

		if !slices.Contains(event.Dates, date) {
			return nil, fmt.Errorf("第 %d 个时间的日期 %s 不在活动的候选日期中", i+1, date)
		}

		if int32(hour) < event.StartHour || int32(hour) >= event.EndHour {
			return nil, fmt.Errorf("第 %d 个时间 %s 不在活动的时间范围内", i+1, s)
		}

		if !slices.Contains(slots, key) {
			slots = append(slots, key)
		}
	}

	slices.Sort(slots)
	return slots, nil
}

// EventSlotKeys 返回活动网格中的所有格子
func EventSlotKeys(event *domain.Event) []domain.SlotKey {
	keys := make([]domain.SlotKey, 0, len(event.Dates)*int(event.EndHour-event.StartHour)*2)

	for _, date := range event.Dates {
		for hour := int(event.StartHour); hour < int(event.EndHour); hour++ {
			for _, minute := range []int{0, 30} {
				key, err := scheduler.EncodeSlotKey(date, hour, minute)
				if err != nil {
					// 活动在创建时已经校验过，理论上不会走到这里
					continue
				}
				keys = append(keys, key)
			}
		}
	}

	return keys
}
