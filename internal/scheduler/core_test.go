package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/meetup-poll/backend/internal/domain"
)

func tally(names ...string) *domain.SlotTally {
	return &domain.SlotTally{Count: len(names), Participants: names}
}

func TestFindBestBlocks_Scenario(t *testing.T) {
	blocks, err := FindBestBlocks(Aggregate(scenario()), 3, DefaultLimit)
	require.NoError(t, err)

	assert.Equal(t, []domain.TimeBlock{
		{Date: "2024-01-10", StartTime: "09:00", EndTime: "09:30", Count: 3, Participants: []string{"P1", "P2", "P3"}},
		{Date: "2024-01-10", StartTime: "09:30", EndTime: "10:00", Count: 2, Participants: []string{"P1", "P3"}},
		{Date: "2024-01-10", StartTime: "10:00", EndTime: "10:30", Count: 1, Participants: []string{"P3"}},
	}, blocks)

	blocks, err = FindBestBlocks(Aggregate(scenario()), 3, 1)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, "09:00", blocks[0].StartTime)
	assert.Equal(t, 3, blocks[0].Count)
}

func TestFindBestBlocks_MergesAdjacentEqualCounts(t *testing.T) {
	agg := domain.SlotAggregate{
		"2024-01-10T09:00": tally("a", "b"),
		"2024-01-10T09:30": tally("a", "b"),
		"2024-01-10T10:00": tally("b", "a"),
	}

	blocks, err := FindBestBlocks(agg, 2, DefaultLimit)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, domain.TimeBlock{
		Date: "2024-01-10", StartTime: "09:00", EndTime: "10:30", Count: 2, Participants: []string{"a", "b"},
	}, blocks[0])
}

func TestFindBestBlocks_IntersectsParticipants(t *testing.T) {
	// 人数相同但换了人，合并后只保留全程有空的人
	agg := domain.SlotAggregate{
		"2024-01-10T09:00": tally("a", "b"),
		"2024-01-10T09:30": tally("b", "c"),
	}

	blocks, err := FindBestBlocks(agg, 3, DefaultLimit)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, "09:00", blocks[0].StartTime)
	assert.Equal(t, "10:00", blocks[0].EndTime)
	assert.Equal(t, 2, blocks[0].Count)
	assert.Equal(t, []string{"b"}, blocks[0].Participants)
}

func TestFindBestBlocks_GapSplitsBlock(t *testing.T) {
	agg := domain.SlotAggregate{
		"2024-01-10T09:00": tally("a"),
		"2024-01-10T10:00": tally("a"),
	}

	blocks, err := FindBestBlocks(agg, 1, DefaultLimit)
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, "09:00", blocks[0].StartTime)
	assert.Equal(t, "09:30", blocks[0].EndTime)
	assert.Equal(t, "10:00", blocks[1].StartTime)
	assert.Equal(t, "10:30", blocks[1].EndTime)
}

func TestFindBestBlocks_NeverMergesAcrossDates(t *testing.T) {
	agg := domain.SlotAggregate{
		"2024-01-10T23:30": tally("a"),
		"2024-01-11T00:00": tally("a"),
	}

	blocks, err := FindBestBlocks(agg, 1, DefaultLimit)
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, domain.TimeBlock{
		Date: "2024-01-10", StartTime: "23:30", EndTime: "24:00", Count: 1, Participants: []string{"a"},
	}, blocks[0])
	assert.Equal(t, "2024-01-11", blocks[1].Date)
	assert.Equal(t, "00:00", blocks[1].StartTime)
}

func TestFindBestBlocks_TieBreak(t *testing.T) {
	agg := domain.SlotAggregate{
		// 2 人 1 小时
		"2024-01-12T14:00": tally("a", "b"),
		"2024-01-12T14:30": tally("a", "b"),
		// 2 人 1 小时，日期更早
		"2024-01-11T16:00": tally("a", "b"),
		"2024-01-11T16:30": tally("a", "b"),
		// 2 人 1 小时，同一天但开始更早
		"2024-01-11T09:00": tally("a", "b"),
		"2024-01-11T09:30": tally("a", "b"),
		// 2 人半小时
		"2024-01-10T08:00": tally("a", "b"),
		// 3 人半小时，人数最多
		"2024-01-13T20:00": tally("a", "b", "c"),
	}

	blocks, err := FindBestBlocks(agg, 3, 10)
	require.NoError(t, err)

	got := make([]string, 0, len(blocks))
	for _, b := range blocks {
		got = append(got, b.Date+" "+b.StartTime+"-"+b.EndTime)
	}
	assert.Equal(t, []string{
		"2024-01-13 20:00-20:30",
		"2024-01-11 09:00-10:00",
		"2024-01-11 16:00-17:00",
		"2024-01-12 14:00-15:00",
		"2024-01-10 08:00-08:30",
	}, got)
}

func TestFindBestBlocks_CoversEverySelectedSlot(t *testing.T) {
	ps := []*domain.Participant{
		participant("a", "2024-05-01T09:00", "2024-05-01T09:30", "2024-05-01T10:00", "2024-05-01T13:00"),
		participant("b", "2024-05-01T09:30", "2024-05-01T10:00", "2024-05-01T10:30"),
		participant("c", "2024-05-01T10:00", "2024-05-01T13:00", "2024-05-01T13:30"),
	}
	agg := Aggregate(ps)

	blocks, err := FindBestBlocks(agg, len(ps), 100)
	require.NoError(t, err)

	covered := make(map[domain.SlotKey]bool)
	for _, b := range blocks {
		hour, minute, err := ParseClock(b.StartTime)
		require.NoError(t, err)
		for FormatClock(hour, minute) != b.EndTime {
			key, err := EncodeSlotKey(b.Date, hour, minute)
			require.NoError(t, err)
			assert.False(t, covered[key], "slot %s covered twice", key)
			covered[key] = true

			// 时间段内每个格子的人数都等于时间段的人数
			assert.Equal(t, b.Count, agg[key].Count)
			for _, name := range b.Participants {
				assert.Contains(t, agg[key].Participants, name)
			}
			hour, minute = EndOfSlot(hour, minute)
		}
	}

	assert.Len(t, covered, len(agg))
	for key := range agg {
		assert.True(t, covered[key], "slot %s missing", key)
	}
}

func TestFindBestBlocks_Empty(t *testing.T) {
	blocks, err := FindBestBlocks(domain.SlotAggregate{}, 0, DefaultLimit)
	require.NoError(t, err)
	assert.NotNil(t, blocks)
	assert.Empty(t, blocks)

	blocks, err = FindBestBlocks(domain.SlotAggregate{"2024-01-10T09:00": tally("a")}, 0, DefaultLimit)
	require.NoError(t, err)
	assert.Empty(t, blocks)
}

func TestFindBestBlocks_InvalidLimit(t *testing.T) {
	_, err := FindBestBlocks(domain.SlotAggregate{}, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidLimit)

	_, err = FindBestBlocks(Aggregate(scenario()), 3, -1)
	assert.ErrorIs(t, err, ErrInvalidLimit)
}

func TestFindBestBlocks_MalformedKey(t *testing.T) {
	_, err := FindBestBlocks(domain.SlotAggregate{"tomorrow morning": tally("a")}, 1, DefaultLimit)
	assert.ErrorIs(t, err, ErrMalformedKey)
}
