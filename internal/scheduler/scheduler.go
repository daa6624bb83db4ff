package scheduler

import (
	"github.com/sysu-ecnc-dev/meetup-poll/backend/internal/domain"
)

// Aggregate 统计每个格子有多少人、哪些人有空。
// 参与者名字按输入顺序首次出现的先后排列，因此调用方应保证输入顺序稳定。
func Aggregate(participants []*domain.Participant) domain.SlotAggregate {
	aggregate := make(domain.SlotAggregate)

	for _, p := range participants {
		for _, key := range p.Slots {
			tally, exists := aggregate[key]
			if !exists {
				tally = &domain.SlotTally{
					Participants: make([]string, 0, 1),
				}
				aggregate[key] = tally
			}

			tally.Count++
			tally.Participants = append(tally.Participants, p.Name)
		}
	}

	return aggregate
}

// Summarize 对一个活动的全部提交做一次完整的重新计算
func Summarize(participants []*domain.Participant, limit int) (*domain.EventResults, error) {
	aggregate := Aggregate(participants)

	blocks, err := FindBestBlocks(aggregate, len(participants), limit)
	if err != nil {
		return nil, err
	}

	return &domain.EventResults{
		TotalParticipants: len(participants),
		Aggregate:         aggregate,
		BestBlocks:        blocks,
	}, nil
}
