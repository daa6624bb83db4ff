// Package calendar 把选定的时间段导出为日历文件或日历应用的创建链接。
package calendar

import (
	"errors"
	"fmt"
	"time"

	// 容器镜像里不一定有时区数据库
	_ "time/tzdata"

	"github.com/sysu-ecnc-dev/meetup-poll/backend/internal/scheduler"
)

var ErrInvalidMeeting = errors.New("无效的会议时间")

// Meeting 是导出一个时间段所需的全部信息，时间均为活动时区下的本地时间
type Meeting struct {
	UID         string
	Date        string // YYYY-MM-DD
	StartTime   string // HH:MM
	EndTime     string // HH:MM，不包含，可以是 24:00
	Timezone    string // IANA 时区名，为空时按 UTC 处理
	Title       string
	Description string
}

// Interval 校验会议时间并返回起止时刻
func (m *Meeting) Interval() (time.Time, time.Time, error) {
	if !scheduler.IsDate(m.Date) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: 日期 %q 格式错误", ErrInvalidMeeting, m.Date)
	}
	day, _ := time.Parse("2006-01-02", m.Date)

	startHour, startMinute, err := scheduler.ParseClock(m.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: 开始时间 %q 格式错误", ErrInvalidMeeting, m.StartTime)
	}

	endHour, endMinute := 24, 0
	if m.EndTime != "24:00" {
		endHour, endMinute, err = scheduler.ParseClock(m.EndTime)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: 结束时间 %q 格式错误", ErrInvalidMeeting, m.EndTime)
		}
	}

	if endHour*60+endMinute <= startHour*60+startMinute {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: 结束时间必须晚于开始时间", ErrInvalidMeeting)
	}

	loc, err := time.LoadLocation(m.Timezone)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: 未知时区 %q", ErrInvalidMeeting, m.Timezone)
	}

	// 24:00 会被 time.Date 规范化为第二天 00:00
	start := time.Date(day.Year(), day.Month(), day.Day(), startHour, startMinute, 0, 0, loc)
	end := time.Date(day.Year(), day.Month(), day.Day(), endHour, endMinute, 0, 0, loc)

	return start, end, nil
}
