package calendar

import (
	"bytes"
	"fmt"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
)

const productID = "-//sysu-ecnc-dev//meetup-poll//CN"

// ICS 生成只包含一个 VEVENT 的 iCalendar 文本
func ICS(m *Meeting, now time.Time) ([]byte, error) {
	start, end, err := m.Interval()
	if err != nil {
		return nil, err
	}

	uid := m.UID
	if uid == "" {
		uid = uuid.New().String()
	}

	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, uid)
	ve.Props.SetText(ical.PropSummary, m.Title)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, now.UTC())
	ve.Props.SetDateTime(ical.PropDateTimeStart, start.UTC())
	ve.Props.SetDateTime(ical.PropDateTimeEnd, end.UTC())
	if m.Description != "" {
		ve.Props.SetText(ical.PropDescription, m.Description)
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)
	cal.Children = append(cal.Children, ve)

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("无法编码 iCalendar: %w", err)
	}

	return buf.Bytes(), nil
}
