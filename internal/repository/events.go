package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/meetup-poll/backend/internal/domain"
)

func (r *Repository) CreateEvent(event *domain.Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO events (slug, name, description, start_hour, end_hour, timezone, organizer_email)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, version
	`
	args := []any{event.Slug, event.Name, event.Description, event.StartHour, event.EndHour, event.Timezone, event.OrganizerEmail}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&event.ID, &event.CreatedAt, &event.Version); err != nil {
		return err
	}

	for _, date := range event.Dates {
		query := `
			INSERT INTO event_dates (event_id, event_date)
			VALUES ($1, $2)
		`
		if _, err := tx.ExecContext(ctx, query, event.ID, date); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetEventBySlug(slug string) (*domain.Event, error) {
	query := `
		SELECT id, name, description, start_hour, end_hour, timezone, organizer_email, created_at, version
		FROM events WHERE slug = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	event := &domain.Event{
		Slug: slug,
	}

	dst := []any{&event.ID, &event.Name, &event.Description, &event.StartHour, &event.EndHour, &event.Timezone, &event.OrganizerEmail, &event.CreatedAt, &event.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, slug).Scan(dst...); err != nil {
		return nil, err
	}

	dates, err := r.getEventDates(ctx, event.ID)
	if err != nil {
		return nil, err
	}
	event.Dates = dates

	return event, nil
}

func (r *Repository) GetEventByID(id int64) (*domain.Event, error) {
	query := `
		SELECT slug, name, description, start_hour, end_hour, timezone, organizer_email, created_at, version
		FROM events WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	event := &domain.Event{
		ID: id,
	}

	dst := []any{&event.Slug, &event.Name, &event.Description, &event.StartHour, &event.EndHour, &event.Timezone, &event.OrganizerEmail, &event.CreatedAt, &event.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	dates, err := r.getEventDates(ctx, event.ID)
	if err != nil {
		return nil, err
	}
	event.Dates = dates

	return event, nil
}

func (r *Repository) getEventDates(ctx context.Context, eventID int64) ([]string, error) {
	query := `
		SELECT event_date FROM event_dates WHERE event_id = $1 ORDER BY event_date
	`

	rows, err := r.dbpool.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dates := make([]string, 0)
	for rows.Next() {
		var date time.Time
		if err := rows.Scan(&date); err != nil {
			return nil, err
		}
		dates = append(dates, date.Format("2006-01-02"))
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return dates, nil
}

// UpdateEvent 只允许修改描述性的字段，日期和时间范围一旦创建就不能修改，否则已有的提交会失效
func (r *Repository) UpdateEvent(event *domain.Event) error {
	query := `
		UPDATE events
		SET
			name = $1,
			description = $2,
			organizer_email = $3,
			version = version + 1
		WHERE id = $4 AND version = $5
		RETURNING created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{event.Name, event.Description, event.OrganizerEmail, event.ID, event.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&event.CreatedAt, &event.Version); err != nil {
		return err
	}

	return nil
}

// DeleteEvent 同时会级联删除所有参与者的提交
func (r *Repository) DeleteEvent(id int64) error {
	query := `
		DELETE FROM events WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
