package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/meetup-poll/backend/internal/domain"
)

func testEvent() *domain.Event {
	return &domain.Event{
		Dates:     []string{"2024-01-10", "2024-01-11"},
		StartHour: 9,
		EndHour:   11,
		Timezone:  "UTC",
	}
}

func TestNormalizeEventDates(t *testing.T) {
	dates, err := NormalizeEventDates([]string{"2024-01-11", "2024-01-10", "2024-01-11"}, 31)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-10", "2024-01-11"}, dates)

	_, err = NormalizeEventDates(nil, 31)
	assert.Error(t, err)

	_, err = NormalizeEventDates([]string{"2024/01/10"}, 31)
	assert.Error(t, err)

	_, err = NormalizeEventDates([]string{"2024-01-10", "2024-01-11"}, 1)
	assert.Error(t, err)
}

func TestValidateEventHours(t *testing.T) {
	assert.NoError(t, ValidateEventHours(0, 24))
	assert.NoError(t, ValidateEventHours(9, 10))
	assert.Error(t, ValidateEventHours(10, 10))
	assert.Error(t, ValidateEventHours(12, 9))
	assert.Error(t, ValidateEventHours(-1, 9))
	assert.Error(t, ValidateEventHours(9, 25))
}

func TestValidateTimezone(t *testing.T) {
	assert.NoError(t, ValidateTimezone("UTC"))
	assert.Error(t, ValidateTimezone(""))
	assert.Error(t, ValidateTimezone("Mars/Olympus"))
}

func TestValidateEvent_SortsDates(t *testing.T) {
	event := testEvent()
	event.Dates = []string{"2024-01-11", "2024-01-10"}

	require.NoError(t, ValidateEvent(event, 31))
	assert.Equal(t, []string{"2024-01-10", "2024-01-11"}, event.Dates)
}

func TestNormalizeSubmissionSlots(t *testing.T) {
	slots, err := NormalizeSubmissionSlots(testEvent(), []string{
		"2024-01-11T09:00",
		"2024-01-10T10:30",
		"2024-01-10T09:00",
		"2024-01-10T10:30",
	})
	require.NoError(t, err)
	assert.Equal(t, []domain.SlotKey{"2024-01-10T09:00", "2024-01-10T10:30", "2024-01-11T09:00"}, slots)

	slots, err = NormalizeSubmissionSlots(testEvent(), nil)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestNormalizeSubmissionSlots_Rejects(t *testing.T) {
	for _, raw := range []string{
		"2024-01-10T09:15", // 不在半小时网格上
		"2024-01-12T09:00", // 不是候选日期
		"2024-01-10T08:30", // 早于开始时间
		"2024-01-10T11:00", // 结束时间不包含
		"tomorrow",
	} {
		_, err := NormalizeSubmissionSlots(testEvent(), []string{raw})
		assert.Error(t, err, raw)
	}
}

func TestEventSlotKeys(t *testing.T) {
	keys := EventSlotKeys(testEvent())

	assert.Equal(t, []domain.SlotKey{
		"2024-01-10T09:00", "2024-01-10T09:30", "2024-01-10T10:00", "2024-01-10T10:30",
		"2024-01-11T09:00", "2024-01-11T09:30", "2024-01-11T10:00", "2024-01-11T10:30",
	}, keys)
}

func TestSameParticipantName(t *testing.T) {
	assert.True(t, SameParticipantName("Alice", " alice "))
	assert.False(t, SameParticipantName("Alice", "Alicia"))
	assert.Equal(t, "张伟", NormalizeParticipantName("  张伟 "))
}
