package handler

import (
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/meetup-poll/backend/internal/cache"
	"github.com/sysu-ecnc-dev/meetup-poll/backend/internal/config"
	"github.com/sysu-ecnc-dev/meetup-poll/backend/internal/domain"
	"github.com/sysu-ecnc-dev/meetup-poll/backend/internal/ratelimit"
	"github.com/sysu-ecnc-dev/meetup-poll/backend/internal/repository"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	translator  ut.Translator
	mailChannel *amqp.Channel
	limiter     ratelimit.Limiter
	results     cache.ResultsCache

	// 默认读取 repository，测试中可以替换
	listParticipants func(eventID int64) ([]*domain.Participant, error)

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mailCh *amqp.Channel, limiter ratelimit.Limiter, results cache.ResultsCache) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	// 错误信息中使用 json 字段名，和前端保持一致
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		mailChannel: mailCh,
		limiter:     limiter,
		results:     results,

		listParticipants: repo.GetAllParticipantsByEventID,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(middleware.RealIP)
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Route("/events", func(r chi.Router) {
		r.With(h.rateLimit("create_event")).Post("/", h.CreateEvent)
		r.Route("/{slug}", func(r chi.Router) {
			r.Use(h.event)
			r.Get("/", h.GetEvent)
			r.With(h.organizerOnly).Patch("/", h.UpdateEvent)
			r.With(h.organizerOnly).Delete("/", h.DeleteEvent)

			r.Route("/participants", func(r chi.Router) {
				r.Get("/", h.GetEventParticipants)
				r.With(h.rateLimit("submit_availability")).Post("/", h.SubmitAvailability)
				r.With(h.rateLimit("lookup_participant")).Post("/lookup", h.LookupParticipant)
				r.With(h.organizerOnly).Delete("/{id}", h.DeleteParticipant)
			})

			r.Get("/results", h.GetEventResults)
			r.Get("/export.ics", h.ExportICS)
			r.Get("/export/links", h.ExportLinks)
		})
	})
}
