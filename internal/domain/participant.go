package domain

import "time"

// SlotKey 是一个半小时格子的标识，格式为 YYYY-MM-DDTHH:MM。
// 由于日期和时间都是定长的，字典序即时间顺序。
type SlotKey string

// Participant 是某个参与者在某个活动中的一次（最新的）空闲时间提交
type Participant struct {
	ID           int64     `json:"id"`
	EventID      int64     `json:"eventID"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Slots        []SlotKey `json:"slots"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	Version      int32     `json:"-"`
}

func (p *Participant) HasPassword() bool {
	return p.PasswordHash != ""
}
