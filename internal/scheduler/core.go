package scheduler

import (
	"fmt"
	"slices"
	"sort"

	"github.com/sysu-ecnc-dev/meetup-poll/backend/internal/domain"
)

/**
 * FindBestBlocks 找出最适合开会的时间段
 * 1. 按日期对格子分组，每组内按时间排序
 * 2. 相邻且人数相同的格子合并成一个时间段，参与者取交集
 * 3. 排序规则依次为：人数降序、时长降序、日期升序、开始时间升序
 * 4. 取前 limit 个
 */
func FindBestBlocks(aggregate domain.SlotAggregate, totalParticipants int, limit int) ([]domain.TimeBlock, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}

	result := make([]domain.TimeBlock, 0)
	if totalParticipants == 0 || len(aggregate) == 0 {
		return result, nil
	}

	// 按日期分组
	keysByDate := make(map[string][]domain.SlotKey)
	for key, tally := range aggregate {
		if tally == nil || tally.Count == 0 {
			continue
		}
		date, _, _, err := DecodeSlotKey(key)
		if err != nil {
			return nil, err
		}
		keysByDate[date] = append(keysByDate[date], key)
	}

	blocks := make([]*block, 0)
	for date, keys := range keysByDate {
		dateBlocks, err := mergeDate(date, keys, aggregate)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, dateBlocks...)
	}

	sort.Slice(blocks, func(i, j int) bool {
		a, b := blocks[i], blocks[j]
		if a.count != b.count {
			return a.count > b.count
		}
		if a.duration() != b.duration() {
			return a.duration() > b.duration()
		}
		if a.date != b.date {
			return a.date < b.date
		}
		return a.start < b.start
	})

	if len(blocks) > limit {
		blocks = blocks[:limit]
	}

	for _, b := range blocks {
		result = append(result, domain.TimeBlock{
			Date:         b.date,
			StartTime:    formatMinutes(b.start),
			EndTime:      formatMinutes(b.end),
			Count:        b.count,
			Participants: b.participants,
		})
	}

	return result, nil
}

// mergeDate 对同一天的格子做一次扫描，合并相邻且人数相同的格子
func mergeDate(date string, keys []domain.SlotKey, aggregate domain.SlotAggregate) ([]*block, error) {
	// 定长编码下字典序就是时间顺序
	slices.Sort(keys)

	blocks := make([]*block, 0)
	var current *block

	for _, key := range keys {
		_, hour, minute, err := DecodeSlotKey(key)
		if err != nil {
			return nil, err
		}
		endHour, endMinute := EndOfSlot(hour, minute)
		start := hour*60 + minute
		end := endHour*60 + endMinute
		tally := aggregate[key]

		if current != nil && current.end == start && current.count == tally.Count {
			current.end = end
			current.participants = intersect(current.participants, tally.Participants)
			continue
		}

		if current != nil {
			blocks = append(blocks, current)
		}
		current = &block{
			date:         date,
			start:        start,
			end:          end,
			count:        tally.Count,
			participants: slices.Clone(tally.Participants),
		}
	}

	if current != nil {
		blocks = append(blocks, current)
	}

	return blocks, nil
}

// intersect 保留 a 中同时出现在 b 里的名字，顺序与 a 相同
func intersect(a []string, b []string) []string {
	res := make([]string, 0, len(a))
	for _, name := range a {
		if slices.Contains(b, name) {
			res = append(res, name)
		}
	}
	return res
}

func formatMinutes(m int) string {
	if m >= minutesADay {
		return "24:00"
	}
	return FormatClock(m/60, m%60)
}
