package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/meetup-poll/backend/internal/config"
)

const (
	ConstraintEventsSlugKey          = "events_slug_key"
	ConstraintParticipantsNameKey    = "participants_event_id_lower_name_key"
	ConstraintParticipantsEventIDKey = "participants_event_id_fkey"
)

type Repository struct {
	cfg    *config.Config
	dbpool *sql.DB
}

func NewRepository(cfg *config.Config, dbpool *sql.DB) *Repository {
	return &Repository{
		cfg:    cfg,
		dbpool: dbpool,
	}
}

// ViolatedConstraint 返回 postgres 报告的被违反的约束名，不是约束错误时返回空字符串
func ViolatedConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}
