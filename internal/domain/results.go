package domain

type SlotTally struct {
	Count        int      `json:"count"`
	Participants []string `json:"participants"`
}

// SlotAggregate 只包含至少有一人选择的格子
type SlotAggregate map[SlotKey]*SlotTally

type TimeBlock struct {
	Date         string   `json:"date"`
	StartTime    string   `json:"startTime"`
	EndTime      string   `json:"endTime"` // 不包含；一天的最后一个格子结束于 24:00
	Count        int      `json:"count"`
	Participants []string `json:"participants"` // 在整个时间段内都有空的参与者
}

type EventResults struct {
	TotalParticipants int           `json:"totalParticipants"`
	Aggregate         SlotAggregate `json:"aggregate"`
	BestBlocks        []TimeBlock   `json:"bestBlocks"`
}
