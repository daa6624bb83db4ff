package seed

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/meetup-poll/backend/internal/domain"
)

func testEvent() *domain.Event {
	return &domain.Event{
		ID:        3,
		Dates:     []string{"2025-03-10", "2025-03-11"},
		StartHour: 9,
		EndHour:   12,
		Timezone:  "Asia/Shanghai",
	}
}

func TestReadParticipantsCSV(t *testing.T) {
	data := strings.Join([]string{
		"序号,姓名,2025-03-10,2025-03-11",
		`1,小明,"09:30, 09:00",11:30`,
		`2,  小红 ,,`,
		`3,,09:00,`,
	}, "\n")

	participants, err := ReadParticipantsCSV(strings.NewReader(data), testEvent())
	require.NoError(t, err)
	require.Len(t, participants, 2)

	assert.Equal(t, int64(3), participants[0].EventID)
	assert.Equal(t, "小明", participants[0].Name)
	assert.Equal(t, []domain.SlotKey{"2025-03-10T09:00", "2025-03-10T09:30", "2025-03-11T11:30"}, participants[0].Slots)

	assert.Equal(t, "小红", participants[1].Name)
	assert.Empty(t, participants[1].Slots)
}

func TestReadParticipantsCSV_LastRowWinsForSameName(t *testing.T) {
	data := strings.Join([]string{
		"姓名,2025-03-10",
		"Alice,09:00",
		"小明,10:00",
		`alice ,"10:30, 11:00"`,
	}, "\n")

	participants, err := ReadParticipantsCSV(strings.NewReader(data), testEvent())
	require.NoError(t, err)
	require.Len(t, participants, 2)

	// 保留首次出现的位置，内容以最后一次为准
	assert.Equal(t, "alice", participants[0].Name)
	assert.Equal(t, []domain.SlotKey{"2025-03-10T10:30", "2025-03-10T11:00"}, participants[0].Slots)
	assert.Equal(t, "小明", participants[1].Name)
}

func TestReadParticipantsCSV_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"缺少姓名列", "NetID,2025-03-10\nabc,09:00"},
		{"缺少日期列", "姓名,备注\n小明,无"},
		{"时间格式错误", "姓名,2025-03-10\n小明,09:15"},
		{"超出时间范围", "姓名,2025-03-10\n小明,13:00"},
		{"日期不在活动中", "姓名,2025-03-12\n小明,09:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadParticipantsCSV(strings.NewReader(tt.data), testEvent())
			assert.Error(t, err)
		})
	}
}
