// Package seed 从导出的问卷表格中导入参与者的空闲时间。
//
// 表格第一行为表头：一列为 "姓名"，其余每一列是一个候选日期（YYYY-MM-DD），
// 单元格中是该日期有空的时间点，用 ", " 分隔，例如 "09:00, 09:30"。
// 其他表头会被忽略。
package seed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/sysu-ecnc-dev/meetup-poll/backend/internal/domain"
	"github.com/sysu-ecnc-dev/meetup-poll/backend/internal/repository"
	"github.com/sysu-ecnc-dev/meetup-poll/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/meetup-poll/backend/internal/utils"
)

const nameHeader = "姓名"

func ReadParticipantsCSV(reader io.Reader, event *domain.Event) ([]*domain.Participant, error) {
	r := csv.NewReader(reader)
	r.TrimLeadingSpace = true

	// 读取表头
	headers, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("读取表头失败: %w", err)
	}

	nameIndex := -1
	dateIndexes := map[int]string{}
	for i, header := range headers {
		header = strings.TrimSpace(header)
		switch {
		case header == nameHeader:
			nameIndex = i
		case scheduler.IsDate(header):
			// 表示这列是某个日期
			dateIndexes[i] = header
		}
	}

	if nameIndex < 0 {
		return nil, errors.New("没有找到姓名列")
	}
	if len(dateIndexes) == 0 {
		return nil, errors.New("没有找到日期列")
	}

	// 读取数据
	var participants []*domain.Participant
	for line := 2; ; line++ {
		row, err := r.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("读取第 %d 行失败: %w", line, err)
		}

		name := utils.NormalizeParticipantName(row[nameIndex])
		if name == "" {
			slog.Warn("跳过没有姓名的行", "line", line)
			continue
		}

		raw := []string{}
		for i, date := range dateIndexes {
			for _, clock := range strings.Split(row[i], ",") {
				clock = strings.TrimSpace(clock)
				if clock == "" {
					continue
				}

				hour, minute, err := scheduler.ParseClock(clock)
				if err != nil {
					return nil, fmt.Errorf("第 %d 行 %s 列: %w", line, date, err)
				}

				key, err := scheduler.EncodeSlotKey(date, hour, minute)
				if err != nil {
					return nil, fmt.Errorf("第 %d 行 %s 列: %w", line, date, err)
				}
				raw = append(raw, string(key))
			}
		}

		slots, err := utils.NormalizeSubmissionSlots(event, raw)
		if err != nil {
			return nil, fmt.Errorf("第 %d 行: %w", line, err)
		}

		p := &domain.Participant{
			EventID: event.ID,
			Name:    name,
			Slots:   slots,
		}

		// 同一个人重复填写时以最后一次为准，和网页上再次提交的效果一致
		index := slices.IndexFunc(participants, func(existing *domain.Participant) bool {
			return utils.SameParticipantName(existing.Name, name)
		})
		if index >= 0 {
			slog.Warn("姓名重复，使用最后一次填写", "name", name, "line", line)
			participants[index] = p
			continue
		}
		participants = append(participants, p)
	}

	return participants, nil
}

// SeedCSV 把表格中的参与者写入指定活动，同名参与者会被覆盖
func SeedCSV(r *repository.Repository, event *domain.Event, path string) {
	file, err := os.Open(path)
	if err != nil {
		slog.Error("打开文件失败", "error", err)
		return
	}
	defer file.Close()

	participants, err := ReadParticipantsCSV(file, event)
	if err != nil {
		slog.Error("解析文件失败", "error", err)
		return
	}

	cnt := 0
	for _, p := range participants {
		if err := r.UpsertParticipant(p); err != nil {
			slog.Error("插入参与者失败", "name", p.Name, "error", err)
			continue
		}
		cnt++
	}

	slog.Info("导入数据完成", "count", cnt)
}
