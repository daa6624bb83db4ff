package domain

import "time"

type Event struct {
	ID             int64     `json:"id"`
	Slug           string    `json:"slug"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Dates          []string  `json:"dates"`     // YYYY-MM-DD，升序且不重复
	StartHour      int32     `json:"startHour"` // 包含
	EndHour        int32     `json:"endHour"`   // 不包含，最大为 24
	Timezone       string    `json:"timezone"`
	OrganizerEmail string    `json:"organizerEmail,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	Version        int32     `json:"-"`
}
