package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sysu-ecnc-dev/meetup-poll/backend/internal/domain"
	"github.com/sysu-ecnc-dev/meetup-poll/backend/internal/repository"
	"github.com/sysu-ecnc-dev/meetup-poll/backend/internal/utils"
)

const (
	organizerRole       = "organizer"
	organizerCookieName = "__ecnc_meetup_poll_organizer_token"
	slugAttempts        = 3
)

type OrganizerClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (h *Handler) eventURL(event *domain.Event) string {
	return strings.TrimRight(h.config.PublicBaseURL, "/") + "/e/" + event.Slug
}

func (h *Handler) issueOrganizerToken(event *domain.Event) (string, time.Time, error) {
	expiration := time.Now().Add(time.Duration(h.config.JWT.Expiration) * time.Hour)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, OrganizerClaims{
		Role: organizerRole,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiration),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Subject:   strconv.FormatInt(event.ID, 10),
		},
	})
	ss, err := token.SignedString([]byte(h.config.JWT.Secret))
	if err != nil {
		return "", time.Time{}, err
	}

	return ss, expiration, nil
}

func (h *Handler) organizerCookie(event *domain.Event, value string, expiration time.Time) *http.Cookie {
	cookie := &http.Cookie{
		Name:     organizerCookieName,
		Value:    value,
		Expires:  expiration,
		Path:     "/events/" + event.Slug,
		HttpOnly: true,
		Secure:   false,
	}

	if h.config.Environment == "production" {
		cookie.Secure = true
		cookie.SameSite = http.SameSiteStrictMode
	}

	return cookie
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name           string   `json:"name" validate:"required,max=100"`
		Description    string   `json:"description" validate:"max=1000"`
		Dates          []string `json:"dates" validate:"required,min=1,dive,datetime=2006-01-02"`
		StartHour      *int32   `json:"startHour" validate:"required,min=0,max=23"`
		EndHour        *int32   `json:"endHour" validate:"required,min=1,max=24"`
		Timezone       string   `json:"timezone" validate:"required,timezone"`
		OrganizerEmail string   `json:"organizerEmail" validate:"omitempty,email"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	event := &domain.Event{
		Name:           strings.TrimSpace(req.Name),
		Description:    req.Description,
		Dates:          req.Dates,
		StartHour:      *req.StartHour,
		EndHour:        *req.EndHour,
		Timezone:       req.Timezone,
		OrganizerEmail: req.OrganizerEmail,
	}
	if err := utils.ValidateEvent(event, h.config.Event.MaxDates); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// slug 带随机后缀，冲突的概率很低，冲突时重新生成
	var err error
	for attempt := 0; attempt < slugAttempts; attempt++ {
		event.Slug = utils.GenerateEventSlug(event.Name)
		err = h.repository.CreateEvent(event)
		if repository.ViolatedConstraint(err) != repository.ConstraintEventsSlugKey {
			break
		}
	}
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	token, expiration, err := h.issueOrganizerToken(event)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	http.SetCookie(w, h.organizerCookie(event, token, expiration))

	if event.OrganizerEmail != "" {
		msg := &domain.MailMessage{
			Type: domain.MailTypeEventCreated,
			To:   event.OrganizerEmail,
			Data: domain.EventCreatedMailData{
				EventName:      event.Name,
				ShareURL:       h.eventURL(event),
				OrganizerToken: token,
			},
		}
		// 活动已经创建成功，邮件发不出去不影响结果
		if err := h.publishMail(msg); err != nil {
			slog.Warn("发布活动创建邮件失败", "event", event.Slug, "error", err)
		}
	}

	h.successResponse(w, r, "创建活动成功", struct {
		Event          *domain.Event `json:"event"`
		OrganizerToken string        `json:"organizerToken"`
	}{
		Event:          event,
		OrganizerToken: token,
	})
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	event := r.Context().Value(EventCtx).(*domain.Event)

	h.successResponse(w, r, "获取活动成功", event)
}

func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name           *string `json:"name" validate:"omitempty,min=1,max=100"`
		Description    *string `json:"description" validate:"omitempty,max=1000"`
		OrganizerEmail *string `json:"organizerEmail" validate:"omitempty,email"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	event := r.Context().Value(EventCtx).(*domain.Event)

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			h.errorResponse(w, r, "活动名称不能为空")
			return
		}
		event.Name = name
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.OrganizerEmail != nil {
		event.OrganizerEmail = *req.OrganizerEmail
	}

	if err := h.repository.UpdateEvent(event); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "活动已被修改，请刷新后重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新活动成功", event)
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	event := r.Context().Value(EventCtx).(*domain.Event)

	if err := h.repository.DeleteEvent(event.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.invalidateResults(r.Context(), event.ID)

	http.SetCookie(w, &http.Cookie{
		Name:    organizerCookieName,
		Value:   "",
		Expires: time.Now().Add(-time.Hour),
		Path:    "/events/" + event.Slug,
	})

	h.successResponse(w, r, "删除活动成功", nil)
}
