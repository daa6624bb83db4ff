package calendar

import (
	"net/url"
	"time"
)

const (
	googleCalendarURL = "https://calendar.google.com/calendar/render"
	outlookComposeURL = "https://outlook.live.com/calendar/0/deeplink/compose"

	googleTimeLayout = "20060102T150405Z"
)

// GoogleURL 返回 Google 日历的创建活动链接
func GoogleURL(m *Meeting) (string, error) {
	start, end, err := m.Interval()
	if err != nil {
		return "", err
	}

	q := url.Values{}
	q.Set("action", "TEMPLATE")
	q.Set("text", m.Title)
	q.Set("dates", start.UTC().Format(googleTimeLayout)+"/"+end.UTC().Format(googleTimeLayout))
	if m.Description != "" {
		q.Set("details", m.Description)
	}
	if m.Timezone != "" {
		q.Set("ctz", m.Timezone)
	}

	return googleCalendarURL + "?" + q.Encode(), nil
}

// OutlookURL 返回 Outlook 网页版的创建活动链接
func OutlookURL(m *Meeting) (string, error) {
	start, end, err := m.Interval()
	if err != nil {
		return "", err
	}

	q := url.Values{}
	q.Set("path", "/calendar/action/compose")
	q.Set("rru", "addevent")
	q.Set("subject", m.Title)
	q.Set("startdt", start.Format(time.RFC3339))
	q.Set("enddt", end.Format(time.RFC3339))
	if m.Description != "" {
		q.Set("body", m.Description)
	}

	return outlookComposeURL + "?" + q.Encode(), nil
}
