package scores

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

// MaxRecords 持久化保留的最多记录数
const MaxRecords = 100

// Store 排行榜存储
type Store interface {
	Submit(ctx context.Context, rec Record) error
	Top(ctx context.Context, n int) ([]Record, error)
}

// Document 持久化文件格式
type Document struct {
	Scores []Record `json:"scores"`
}

// FileStore 以单个 JSON 文件保存前 100 名（按分数降序）
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore 文件不存在时视为空榜
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path 文件路径
func (s *FileStore) Path() string { return s.path }

// Submit 追加、排序、截断后整体写回
func (s *FileStore) Submit(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := rec.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	doc.Scores = append(doc.Scores, rec)
	SortByScore(doc.Scores)
	if len(doc.Scores) > MaxRecords {
		doc.Scores = doc.Scores[:MaxRecords]
	}
	return s.save(doc)
}

// Top 前 n 条；n<=0 返回全部
func (s *FileStore) Top(ctx context.Context, n int) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	doc, err := s.load()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if n > 0 && len(doc.Scores) > n {
		doc.Scores = doc.Scores[:n]
	}
	return doc.Scores, nil
}

func (s *FileStore) load() (Document, error) {
	doc := Document{Scores: []Record{}}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return doc, fmt.Errorf("read scores: %w", err)
	}
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("decode scores %s: %w", s.path, err)
	}
	if doc.Scores == nil {
		doc.Scores = []Record{}
	}
	return doc, nil
}

// save 先写临时文件再 rename，避免写到一半的文件被读到
func (s *FileStore) save(doc Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode scores: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create scores dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".scores-*.json")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write scores: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace scores: %w", err)
	}
	return nil
}

// SortByScore 按分数降序（稳定）
func SortByScore(recs []Record) {
	slices.SortStableFunc(recs, func(a, b Record) int { return cmp.Compare(b.Score, a.Score) })
}

// SortByHeight 按高度降序（稳定）
func SortByHeight(recs []Record) {
	slices.SortStableFunc(recs, func(a, b Record) int { return cmp.Compare(b.Height, a.Height) })
}
