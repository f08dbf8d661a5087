package scores

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TimestampLayout 与浏览器 toISOString 输出一致（UTC，毫秒）
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// MaxNameLen 玩家名最大长度
const MaxNameLen = 5

var (
	ErrInvalidName   = errors.New("invalid player name")
	ErrInvalidRecord = errors.New("invalid score record")
)

// Record 一条排行榜记录
type Record struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Score     int    `json:"score"`
	Height    int    `json:"height"`
	Timestamp string `json:"timestamp"`
}

// ValidateName 名字为 1..5 个 A-Z 大写字母
func ValidateName(name string) error {
	if name == "" || len(name) > MaxNameLen {
		return fmt.Errorf("%w: length must be 1..%d", ErrInvalidName, MaxNameLen)
	}
	for _, r := range name {
		if r < 'A' || r > 'Z' {
			return fmt.Errorf("%w: %q", ErrInvalidName, name)
		}
	}
	return nil
}

// NewRecord 生成带唯一 id 与时间戳的记录
func NewRecord(name string, score, height int, now time.Time) (Record, error) {
	if err := ValidateName(name); err != nil {
		return Record{}, err
	}
	rec := Record{
		ID:        name + "-" + uuid.NewString(),
		Name:      name,
		Score:     score,
		Height:    height,
		Timestamp: now.UTC().Format(TimestampLayout),
	}
	return rec, rec.Validate()
}

// Validate 检查记录字段
func (r Record) Validate() error {
	if err := ValidateName(r.Name); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if r.Score < 0 || r.Height < 0 {
		return fmt.Errorf("%w: negative score or height", ErrInvalidRecord)
	}
	if r.ID == "" || r.Timestamp == "" {
		return fmt.Errorf("%w: missing id or timestamp", ErrInvalidRecord)
	}
	return nil
}

// Complete 补全缺省的 id 与时间戳
func (r *Record) Complete(now time.Time) {
	if r.ID == "" {
		r.ID = r.Name + "-" + uuid.NewString()
	}
	if r.Timestamp == "" {
		r.Timestamp = now.UTC().Format(TimestampLayout)
	}
}
