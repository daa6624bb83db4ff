package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/meetup-poll/backend/internal/domain"
)

func participant(name string, slots ...domain.SlotKey) *domain.Participant {
	return &domain.Participant{Name: name, Slots: slots}
}

func scenario() []*domain.Participant {
	return []*domain.Participant{
		participant("P1", "2024-01-10T09:00", "2024-01-10T09:30"),
		participant("P2", "2024-01-10T09:00"),
		participant("P3", "2024-01-10T09:00", "2024-01-10T09:30", "2024-01-10T10:00"),
	}
}

func TestAggregate_Scenario(t *testing.T) {
	agg := Aggregate(scenario())

	require.Len(t, agg, 3)
	assert.Equal(t, &domain.SlotTally{Count: 3, Participants: []string{"P1", "P2", "P3"}}, agg["2024-01-10T09:00"])
	assert.Equal(t, &domain.SlotTally{Count: 2, Participants: []string{"P1", "P3"}}, agg["2024-01-10T09:30"])
	assert.Equal(t, &domain.SlotTally{Count: 1, Participants: []string{"P3"}}, agg["2024-01-10T10:00"])
}

func TestAggregate_Empty(t *testing.T) {
	assert.Empty(t, Aggregate(nil))
	assert.Empty(t, Aggregate([]*domain.Participant{participant("nobody")}))
}

func TestAggregate_OrderDoesNotChangeCounts(t *testing.T) {
	ps := scenario()
	forward := Aggregate(ps)
	backward := Aggregate([]*domain.Participant{ps[2], ps[1], ps[0]})
	rotated := Aggregate([]*domain.Participant{ps[1], ps[2], ps[0]})

	for key, tally := range forward {
		for _, other := range []domain.SlotAggregate{backward, rotated} {
			require.Contains(t, other, key)
			assert.Equal(t, tally.Count, other[key].Count)
			assert.ElementsMatch(t, tally.Participants, other[key].Participants)
		}
	}

	// 名字按首次出现的顺序排列
	assert.Equal(t, []string{"P3", "P2", "P1"}, backward["2024-01-10T09:00"].Participants)
}

func TestAggregate_CountMatchesParticipants(t *testing.T) {
	ps := []*domain.Participant{
		participant("alice", "2024-03-01T10:00", "2024-03-01T10:30", "2024-03-02T10:00"),
		participant("bob", "2024-03-01T10:30", "2024-03-02T10:00"),
		participant("carol", "2024-03-02T10:00"),
	}

	for key, tally := range Aggregate(ps) {
		assert.Equal(t, tally.Count, len(tally.Participants), "key %s", key)

		seen := make(map[string]bool)
		for _, name := range tally.Participants {
			assert.False(t, seen[name], "duplicate %s in %s", name, key)
			seen[name] = true
		}
	}
}

func TestSummarize(t *testing.T) {
	res, err := Summarize(scenario(), 1)
	require.NoError(t, err)

	assert.Equal(t, 3, res.TotalParticipants)
	assert.Len(t, res.Aggregate, 3)
	require.Len(t, res.BestBlocks, 1)
	assert.Equal(t, "09:00", res.BestBlocks[0].StartTime)

	_, err = Summarize(scenario(), 0)
	assert.ErrorIs(t, err, ErrInvalidLimit)
}

func TestSummarize_NoParticipants(t *testing.T) {
	res, err := Summarize(nil, DefaultLimit)
	require.NoError(t, err)

	assert.Equal(t, 0, res.TotalParticipants)
	assert.Empty(t, res.Aggregate)
	assert.NotNil(t, res.BestBlocks)
	assert.Empty(t, res.BestBlocks)
}
