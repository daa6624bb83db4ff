package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sysu-ecnc-dev/meetup-poll/backend/internal/domain"
	"github.com/sysu-ecnc-dev/meetup-poll/backend/internal/repository"
	"github.com/sysu-ecnc-dev/meetup-poll/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/meetup-poll/backend/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

func (h *Handler) GetEventParticipants(w http.ResponseWriter, r *http.Request) {
	event := r.Context().Value(EventCtx).(*domain.Event)

	participants, err := h.repository.GetAllParticipantsByEventID(event.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取参与者成功", participants)
}

// checkParticipantPassword 未设置密码的参与者任何人都可以修改
func (h *Handler) checkParticipantPassword(p *domain.Participant, password string) (bool, error) {
	if !p.HasPassword() {
		return true, nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

func (h *Handler) SubmitAvailability(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string   `json:"name" validate:"required,max=50"`
		Password string   `json:"password" validate:"max=72"`
		Slots    []string `json:"slots" validate:"required,max=2000"`
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

	name := utils.NormalizeParticipantName(req.Name)
	if name == "" {
		h.errorResponse(w, r, "名字不能为空")
		return
	}

	slots, err := utils.NormalizeSubmissionSlots(event, req.Slots)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 同名（不区分大小写）视为同一个人再次提交
	existing, err := h.repository.GetParticipantByName(event.ID, name)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		h.internalServerError(w, r, err)
		return
	}

	participant := &domain.Participant{
		EventID: event.ID,
		Name:    name,
		Slots:   slots,
	}

	if existing != nil && existing.HasPassword() {
		ok, err := h.checkParticipantPassword(existing, req.Password)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		if !ok {
			h.errorResponse(w, r, "该名字已被使用且密码错误")
			return
		}
		participant.PasswordHash = existing.PasswordHash
	} else if req.Password != "" {
		passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		participant.PasswordHash = string(passwordHash)
	}

	if err := h.repository.UpsertParticipant(participant); err != nil {
		switch repository.ViolatedConstraint(err) {
		case repository.ConstraintParticipantsEventIDKey:
			h.errorResponse(w, r, "活动不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.invalidateResults(r.Context(), event.ID)

	if event.OrganizerEmail != "" {
		h.notifyOrganizer(r, event, participant)
	}

	h.successResponse(w, r, "提交成功", participant)
}

// notifyOrganizer 提交已经落库，通知失败只记录日志
func (h *Handler) notifyOrganizer(r *http.Request, event *domain.Event, participant *domain.Participant) {
	results, err := h.loadResults(r.Context(), event, scheduler.DefaultLimit)
	if err != nil {
		slog.Warn("计算活动结果失败", "event", event.Slug, "error", err)
		return
	}

	msg := &domain.MailMessage{
		Type: domain.MailTypeParticipantResponded,
		To:   event.OrganizerEmail,
		Data: domain.ParticipantRespondedMailData{
			EventName:         event.Name,
			ParticipantName:   participant.Name,
			TotalParticipants: results.TotalParticipants,
			BestBlocks:        results.BestBlocks,
			ResultsURL:        h.eventURL(event) + "/results",
		},
	}
	if err := h.publishMail(msg); err != nil {
		slog.Warn("发布参与者提交邮件失败", "event", event.Slug, "error", err)
	}
}

func (h *Handler) LookupParticipant(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name" validate:"required,max=50"`
		Password string `json:"password" validate:"max=72"`
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

	participant, err := h.repository.GetParticipantByName(event.ID, strings.TrimSpace(req.Name))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "参与者不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	ok, err := h.checkParticipantPassword(participant, req.Password)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if !ok {
		h.errorResponse(w, r, "密码错误")
		return
	}

	h.successResponse(w, r, "获取参与者成功", participant)
}

func (h *Handler) DeleteParticipant(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, "参与者ID无效")
		return
	}

	event := r.Context().Value(EventCtx).(*domain.Event)

	if err := h.repository.DeleteParticipant(event.ID, id); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "参与者不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.invalidateResults(r.Context(), event.ID)

	h.successResponse(w, r, "删除参与者成功", nil)
}
