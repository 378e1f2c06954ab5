package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/copilotwatch/reddit-monitor/internal/modules/analysis/domain"
	"github.com/samber/oops"
)

// FileStorage implements Repository using the file system
type FileStorage struct {
	basePath string
	mu       sync.RWMutex
}

// NewFileStorage creates a new file-based analysis repository
func NewFileStorage(basePath string) (Repository, error) {
	analysisPath := filepath.Join(basePath, "analyses")
	if err := os.MkdirAll(analysisPath, 0755); err != nil {
		return nil, oops.With("base_path", basePath, "context", "failed to create analyses directory").Wrap(err)
	}

	return &FileStorage{basePath: analysisPath}, nil
}

func (s *FileStorage) SaveImageAnalysis(_ context.Context, record *domain.ImageAnalysisRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.basePath, fmt.Sprintf("%s.json", record.ID))
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return oops.With("record_id", record.ID, "context", "failed to marshal analysis record").Wrap(err)
	}

	return os.WriteFile(path, data, 0644)
}

func (s *FileStorage) ListImageAnalyses(_ context.Context, filter Filter, limit int) ([]*domain.ImageAnalysisRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []*domain.ImageAnalysisRecord{}, nil
		}
		return nil, oops.With("analysis_dir", s.basePath, "context", "failed to read analyses directory").Wrap(err)
	}

	var records []*domain.ImageAnalysisRecord
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		path := filepath.Join(s.basePath, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		var record domain.ImageAnalysisRecord
		if err := json.Unmarshal(data, &record); err != nil {
			continue
		}

		if !matches(&record, filter) {
			continue
		}
		records = append(records, &record)
	}

	// Newest first
	sort.Slice(records, func(i, j int) bool {
		return records[i].AnalyzedAt.After(records[j].AnalyzedAt)
	})

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func matches(record *domain.ImageAnalysisRecord, filter Filter) bool {
	if filter.PostID != "" && record.PostID != filter.PostID {
		return false
	}
	if filter.Subreddit != "" && record.Subreddit != filter.Subreddit {
		return false
	}
	if filter.FlaggedOnly && !record.Analysis.Flags.Any() {
		return false
	}
	return true
}
