package handler

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/meetup-poll/backend/internal/calendar"
	"github.com/sysu-ecnc-dev/meetup-poll/backend/internal/domain"
)

// meetingFromQuery 从 ?date=&start=&end= 中读取要导出的时间段
func (h *Handler) meetingFromQuery(r *http.Request, event *domain.Event) (*calendar.Meeting, error) {
	q := r.URL.Query()
	date := q.Get("date")
	start := q.Get("start")
	end := q.Get("end")

	if date == "" || start == "" || end == "" {
		return nil, errors.New("date、start、end 参数不能为空")
	}
	if !slices.Contains(event.Dates, date) {
		return nil, fmt.Errorf("日期 %s 不在活动的候选日期中", date)
	}

	shareURL := h.eventURL(event)
	description := event.Description
	if description != "" {
		description += "\n\n"
	}
	description += shareURL

	// 同一个时间段多次导出得到相同的 UID，日历应用会视为同一个日程
	uid := uuid.NewSHA1(uuid.NameSpaceURL, []byte(fmt.Sprintf("%s#%sT%s-%s", shareURL, date, start, end)))

	m := &calendar.Meeting{
		UID:         uid.String(),
		Date:        date,
		StartTime:   start,
		EndTime:     end,
		Timezone:    event.Timezone,
		Title:       event.Name,
		Description: description,
	}
	if _, _, err := m.Interval(); err != nil {
		return nil, err
	}

	return m, nil
}

func (h *Handler) ExportICS(w http.ResponseWriter, r *http.Request) {
	event := r.Context().Value(EventCtx).(*domain.Event)

	m, err := h.meetingFromQuery(r, event)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	data, err := calendar.ICS(m, time.Now())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.ics"`, event.Slug))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *Handler) ExportLinks(w http.ResponseWriter, r *http.Request) {
	event := r.Context().Value(EventCtx).(*domain.Event)

	m, err := h.meetingFromQuery(r, event)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	googleURL, err := calendar.GoogleURL(m)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	outlookURL, err := calendar.OutlookURL(m)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取日历链接成功", struct {
		GoogleURL  string `json:"googleUrl"`
		OutlookURL string `json:"outlookUrl"`
	}{
		GoogleURL:  googleURL,
		OutlookURL: outlookURL,
	})
}
