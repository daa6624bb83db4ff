package utils

import (
	"math/rand"
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/mozillazg/go-pinyin"
	"github.com/sysu-ecnc-dev/meetup-poll/backend/internal/domain"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "勇", "霞", "飞", "玲",
	"超", "华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌",
	"庆", "建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var slugLetters = []rune("abcdefghijklmnopqrstuvwxyz0123456789")

func GenerateRandomID(length int) string {
	id := make([]rune, length)
	for i := range id {
		id[i] = slugLetters[rand.Intn(len(slugLetters))]
	}
	return string(id)
}

const (
	maxSlugBaseLength = 40
	slugSuffixLength  = 6
)

// SlugBase 把活动名称转换为 URL 中可读的部分：汉字转拼音，字母数字转小写，其余字符视为分隔符
func SlugBase(name string) string {
	args := pinyin.NewArgs()
	words := make([]string, 0)
	current := strings.Builder{}

	flush := func() {
		if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}

	for _, r := range name {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			current.WriteRune(unicode.ToLower(r))
		case unicode.Is(unicode.Han, r):
			flush()
			if py := pinyin.LazyPinyin(string(r), args); len(py) > 0 {
				words = append(words, py[0])
			}
		default:
			flush()
		}
	}
	flush()

	base := strings.Join(words, "-")
	if len(base) > maxSlugBaseLength {
		base = strings.TrimRight(base[:maxSlugBaseLength], "-")
	}
	return base
}

// GenerateEventSlug 生成活动的分享标识，随机后缀用于避免重名
func GenerateEventSlug(name string) string {
	base := SlugBase(name)
	if base == "" {
		return GenerateRandomID(slugSuffixLength * 2)
	}
	return base + "-" + GenerateRandomID(slugSuffixLength)
}

var eventNames = []string{"组会", "周例会", "项目讨论", "读书会", "聚餐", "面试安排", "答辩彩排"}

func GenerateRandomEvent() *domain.Event {
	name := eventNames[rand.Intn(len(eventNames))] + GenerateRandomID(3)

	// 从明天开始的连续若干天
	start := time.Now().AddDate(0, 0, 1)
	dateNum := rand.Intn(7) + 1
	dates := make([]string, dateNum)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i).Format("2006-01-02")
	}

	startHour := int32(rand.Intn(12) + 6) // 6~17
	endHour := startHour + int32(rand.Intn(6)+2)

	return &domain.Event{
		Slug:        GenerateEventSlug(name),
		Name:        name,
		Description: "随机生成的活动",
		Dates:       dates,
		StartHour:   startHour,
		EndHour:     endHour,
		Timezone:    "Asia/Shanghai",
	}
}

// 使用 Fisher-Yates 洗牌算法来生成一个随机子集，结果按时间排序
func GenerateRandomSubset(keys []domain.SlotKey) []domain.SlotKey {
	if len(keys) == 0 {
		return []domain.SlotKey{}
	}

	keysCopy := append([]domain.SlotKey{}, keys...) // 复制数组，避免修改原数组

	for i := 0; i < len(keysCopy)-1; i++ {
		j := rand.Intn(len(keysCopy)-i) + i
		keysCopy[i], keysCopy[j] = keysCopy[j], keysCopy[i]
	}

	l := rand.Intn(len(keysCopy)) + 1
	subset := keysCopy[:l]
	slices.Sort(subset)
	return subset
}

func GenerateRandomParticipant(event *domain.Event) *domain.Participant {
	return &domain.Participant{
		EventID: event.ID,
		Name:    GenerateRandomChineseName(),
		Slots:   GenerateRandomSubset(EventSlotKeys(event)),
	}
}
