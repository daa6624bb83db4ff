package scheduler

import "errors"

var (
	ErrInvalidTime  = errors.New("时间不在半小时网格上")
	ErrMalformedKey = errors.New("格子标识格式错误")
	ErrInvalidLimit = errors.New("返回数量必须大于 0")
)

const (
	DefaultLimit = 3

	slotMinutes = 30
	minutesADay = 24 * 60
	dateLayout  = "2006-01-02"
)

// block 是合并过程中的时间段，时间以当天零点起的分钟数表示
type block struct {
	date         string
	start        int
	end          int
	count        int
	participants []string
}

func (b *block) duration() int {
	return b.end - b.start
}
