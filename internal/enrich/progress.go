package enrich

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const dateLayout = "2006-01-02"

// Progress is the resumable state of the video importer. It is passed by value: every step
// returns the updated record instead of mutating shared state.
type Progress struct {
	ProcessedIDs   []int64 `json:"processed_ids"`
	SuccessCount   int     `json:"success_count"`
	ErrorCount     int     `json:"error_count"`
	SkippedCount   int     `json:"skipped_count"`
	QuotaUsedToday int     `json:"quota_used_today"`
	LastDate       string  `json:"last_date"`
	LastProcessed  int64   `json:"last_processed"`
	LastUpdated    string  `json:"last_updated"`
}

// NewProgress returns a fresh record dated now.
func NewProgress(now time.Time) Progress {
	return Progress{ProcessedIDs: []int64{}, LastDate: now.Format(dateLayout)}
}

// RollOver resets the daily quota when now falls on a later date than LastDate.
func (p Progress) RollOver(now time.Time) Progress {
	today := now.Format(dateLayout)
	if p.LastDate != today {
		p.QuotaUsedToday = 0
		p.LastDate = today
	}
	if p.ProcessedIDs == nil {
		p.ProcessedIDs = []int64{}
	}
	return p
}

// Processed reports whether id was already handled by an earlier run.
func (p Progress) Processed(id int64) bool {
	for _, v := range p.ProcessedIDs {
		if v == id {
			return true
		}
	}
	return false
}

// ProcessedSet returns the processed ids as a set.
func (p Progress) ProcessedSet() map[int64]bool {
	set := make(map[int64]bool, len(p.ProcessedIDs))
	for _, id := range p.ProcessedIDs {
		set[id] = true
	}
	return set
}

// SpendQuota records one search call.
func (p Progress) SpendQuota(cost int) Progress {
	p.QuotaUsedToday += cost
	return p
}

// Mark records the outcome for exercise id and stamps the update time.
func (p Progress) Mark(id int64, outcome Outcome, now time.Time) Progress {
	if !p.Processed(id) {
		ids := make([]int64, len(p.ProcessedIDs), len(p.ProcessedIDs)+1)
		copy(ids, p.ProcessedIDs)
		p.ProcessedIDs = append(ids, id)
	}
	switch outcome {
	case OutcomeSuccess:
		p.SuccessCount++
	case OutcomeSkipped:
		p.SkippedCount++
	case OutcomeError:
		p.ErrorCount++
	}
	p.LastProcessed = id
	p.LastUpdated = now.UTC().Format(time.RFC3339)
	return p
}

// ProgressStore persists the importer progress between runs.
// No locking is done across processes: only one importer may run at a time.
type ProgressStore interface {
	// Load returns the stored record. A missing or unreadable record yields a fresh one.
	Load(ctx context.Context, now time.Time) (Progress, error)
	Save(ctx context.Context, p Progress) error
	Reset(ctx context.Context) error
}

func decodeProgress(data []byte, now time.Time) Progress {
	var p Progress
	if err := json.Unmarshal(data, &p); err != nil {
		return NewProgress(now)
	}
	if p.ProcessedIDs == nil {
		p.ProcessedIDs = []int64{}
	}
	return p
}

func encodeProgress(p Progress) ([]byte, error) {
	if p.ProcessedIDs == nil {
		p.ProcessedIDs = []int64{}
	}
	return json.MarshalIndent(p, "", "  ")
}

// --- File store ---

// FileProgressStore keeps the record in a JSON file, replaced atomically on save.
type FileProgressStore struct {
	Path string
}

func NewFileProgressStore(path string) *FileProgressStore {
	return &FileProgressStore{Path: path}
}

func (s *FileProgressStore) Load(_ context.Context, now time.Time) (Progress, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return NewProgress(now), nil
	}
	if err != nil {
		return Progress{}, fmt.Errorf("read progress file: %w", err)
	}
	return decodeProgress(data, now), nil
}

func (s *FileProgressStore) Save(_ context.Context, p Progress) error {
	data, err := encodeProgress(p)
	if err != nil {
		return err
	}
	return writeFileAtomic(s.Path, data)
}

func (s *FileProgressStore) Reset(_ context.Context) error {
	if err := os.Remove(s.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// writeFileAtomic writes data next to path and renames it into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// --- Redis store ---

// RedisProgressStore keeps the record as a JSON string under one key.
type RedisProgressStore struct {
	client redis.Cmdable
	key    string
}

func NewRedisProgressStore(client redis.Cmdable, key string) *RedisProgressStore {
	return &RedisProgressStore{client: client, key: key}
}

func (s *RedisProgressStore) Load(ctx context.Context, now time.Time) (Progress, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return NewProgress(now), nil
	}
	if err != nil {
		return Progress{}, fmt.Errorf("redis get %s: %w", s.key, err)
	}
	return decodeProgress(data, now), nil
}

func (s *RedisProgressStore) Save(ctx context.Context, p Progress) error {
	data, err := encodeProgress(p)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key, data, 0).Err()
}

func (s *RedisProgressStore) Reset(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}

// --- Memory store ---

// MemoryProgressStore keeps the encoded record in memory. Used by tests and dry runs.
type MemoryProgressStore struct {
	mu   sync.Mutex
	data []byte
}

func NewMemoryProgressStore() *MemoryProgressStore {
	return &MemoryProgressStore{}
}

func (s *MemoryProgressStore) Load(_ context.Context, now time.Time) (Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return NewProgress(now), nil
	}
	return decodeProgress(s.data, now), nil
}

func (s *MemoryProgressStore) Save(_ context.Context, p Progress) error {
	data, err := encodeProgress(p)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}

func (s *MemoryProgressStore) Reset(_ context.Context) error {
	s.mu.Lock()
	s.data = nil
	s.mu.Unlock()
	return nil
}
