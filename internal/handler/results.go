package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/sysu-ecnc-dev/meetup-poll/backend/internal/domain"
	"github.com/sysu-ecnc-dev/meetup-poll/backend/internal/scheduler"
)

func (h *Handler) cacheContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, time.Duration(h.config.Redis.OperationExpiration)*time.Second)
}

// invalidateResults 必须在写入数据库之后调用
func (h *Handler) invalidateResults(ctx context.Context, eventID int64) {
	ctx, cancel := h.cacheContext(ctx)
	defer cancel()

	if err := h.results.Invalidate(ctx, eventID); err != nil {
		slog.Warn("删除结果缓存失败", "eventID", eventID, "error", err)
	}
}

// loadResults 缓存只是派生视图，未命中时对整个活动重新计算。
// 缓存出错时退化为直接计算。
func (h *Handler) loadResults(ctx context.Context, event *domain.Event, limit int) (*domain.EventResults, error) {
	cacheCtx, cancel := h.cacheContext(ctx)
	defer cancel()

	cached, ok, err := h.results.Get(cacheCtx, event.ID, limit)
	if err != nil {
		slog.Warn("读取结果缓存失败", "eventID", event.ID, "error", err)
	}
	if ok {
		return cached, nil
	}

	// 版本号要在读取快照之前获取，期间如果有新的提交，写回会被拒绝
	generation, err := h.results.Generation(cacheCtx, event.ID)
	cacheable := err == nil
	if err != nil {
		slog.Warn("读取结果缓存版本失败", "eventID", event.ID, "error", err)
	}

	participants, err := h.listParticipants(event.ID)
	if err != nil {
		return nil, err
	}

	results, err := scheduler.Summarize(participants, limit)
	if err != nil {
		return nil, err
	}

	if cacheable {
		setCtx, setCancel := h.cacheContext(ctx)
		defer setCancel()

		stored, err := h.results.Set(setCtx, event.ID, generation, limit, results)
		switch {
		case err != nil:
			slog.Warn("写入结果缓存失败", "eventID", event.ID, "error", err)
		case !stored:
			slog.Debug("结果已过期，不写入缓存", "eventID", event.ID, "generation", generation)
		}
	}

	return results, nil
}

func (h *Handler) parseLimit(r *http.Request) (int, error) {
	limitParam := r.URL.Query().Get("limit")
	if limitParam == "" {
		return scheduler.DefaultLimit, nil
	}

	limit, err := strconv.Atoi(limitParam)
	if err != nil {
		return 0, errors.New("limit 参数必须是整数")
	}
	if limit > h.config.Results.MaxLimit {
		return 0, fmt.Errorf("limit 参数不能超过 %d", h.config.Results.MaxLimit)
	}

	return limit, nil
}

func (h *Handler) GetEventResults(w http.ResponseWriter, r *http.Request) {
	limit, err := h.parseLimit(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	event := r.Context().Value(EventCtx).(*domain.Event)

	results, err := h.loadResults(r.Context(), event, limit)
	if err != nil {
		switch {
		case errors.Is(err, scheduler.ErrInvalidLimit):
			h.badRequest(w, r, err)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "获取结果成功", results)
}
