package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/meetup-poll/backend/internal/domain"
	"github.com/sysu-ecnc-dev/meetup-poll/backend/internal/scheduler"
)

// UpsertParticipant 以 (活动, 不区分大小写的名字) 作为唯一标识，
// 重复提交时保留原来的 ID，并用新的格子替换旧的格子
func (r *Repository) UpsertParticipant(p *domain.Participant) error {
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
		INSERT INTO participants (event_id, name, password_hash)
		VALUES ($1, $2, $3)
		ON CONFLICT (event_id, lower(name)) DO UPDATE
		SET
			name = EXCLUDED.name,
			password_hash = EXCLUDED.password_hash,
			updated_at = now(),
			version = participants.version + 1
		RETURNING id, created_at, updated_at, version
	`
	dst := []any{&p.ID, &p.CreatedAt, &p.UpdatedAt, &p.Version}
	if err := tx.QueryRowContext(ctx, query, p.EventID, p.Name, p.PasswordHash).Scan(dst...); err != nil {
		return err
	}

	// 先把原先的格子删除再插入
	query = `DELETE FROM participant_slots WHERE participant_id = $1`
	if _, err := tx.ExecContext(ctx, query, p.ID); err != nil {
		return err
	}

	for _, slot := range p.Slots {
		query := `
			INSERT INTO participant_slots (participant_id, slot_key)
			VALUES ($1, $2)
		`
		if _, err := tx.ExecContext(ctx, query, p.ID, string(slot)); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetParticipantByName(eventID int64, name string) (*domain.Participant, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, name, password_hash, created_at, updated_at, version
		FROM participants
		WHERE event_id = $1 AND lower(name) = lower($2)
	`

	p := &domain.Participant{
		EventID: eventID,
	}

	dst := []any{&p.ID, &p.Name, &p.PasswordHash, &p.CreatedAt, &p.UpdatedAt, &p.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, eventID, name).Scan(dst...); err != nil {
		return nil, err
	}

	query = `
		SELECT slot_key FROM participant_slots WHERE participant_id = $1 ORDER BY slot_key
	`

	rows, err := r.dbpool.QueryContext(ctx, query, p.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	p.Slots = make([]domain.SlotKey, 0)
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}

		slot, err := decodeStoredSlot(raw)
		if err != nil {
			return nil, err
		}
		p.Slots = append(p.Slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return p, nil
}

// GetAllParticipantsByEventID 一次查询取出活动的全部提交，保证聚合时使用的是同一个快照。
// 返回结果按首次提交时间排序。
func (r *Repository) GetAllParticipantsByEventID(eventID int64) ([]*domain.Participant, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			p.id,
			p.name,
			p.password_hash,
			p.created_at,
			p.updated_at,
			p.version,
			ps.slot_key
		FROM participants p
		LEFT JOIN participant_slots ps ON p.id = ps.participant_id
		WHERE p.event_id = $1
		ORDER BY p.created_at, p.id, ps.slot_key
	`

	rows, err := r.dbpool.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	participants := make([]*domain.Participant, 0)
	participantsMap := make(map[int64]*domain.Participant)

	for rows.Next() {
		var row struct {
			id           int64
			name         string
			passwordHash string
			createdAt    time.Time
			updatedAt    time.Time
			version      int32
			slotKey      sql.NullString
		}

		dst := []any{
			&row.id,
			&row.name,
			&row.passwordHash,
			&row.createdAt,
			&row.updatedAt,
			&row.version,
			&row.slotKey,
		}

		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		p, exists := participantsMap[row.id]
		if !exists {
			p = &domain.Participant{
				ID:           row.id,
				EventID:      eventID,
				Name:         row.name,
				PasswordHash: row.passwordHash,
				Slots:        make([]domain.SlotKey, 0),
				CreatedAt:    row.createdAt,
				UpdatedAt:    row.updatedAt,
				Version:      row.version,
			}
			participantsMap[row.id] = p
			participants = append(participants, p)
		}

		if !row.slotKey.Valid {
			// 该参与者没有选择任何时间
			continue
		}

		slot, err := decodeStoredSlot(row.slotKey.String)
		if err != nil {
			return nil, err
		}
		p.Slots = append(p.Slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return participants, nil
}

func (r *Repository) DeleteParticipant(eventID int64, id int64) error {
	query := `
		DELETE FROM participants WHERE event_id = $1 AND id = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	res, err := r.dbpool.ExecContext(ctx, query, eventID, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// decodeStoredSlot 在数据进入内存时校验格式，脏数据不会流入聚合
func decodeStoredSlot(raw string) (domain.SlotKey, error) {
	slot := domain.SlotKey(raw)
	if _, _, _, err := scheduler.DecodeSlotKey(slot); err != nil {
		return "", fmt.Errorf("数据库中的时间格式错误: %w", err)
	}
	return slot, nil
}
