package repository

import (
	"context"

	"github.com/copilotwatch/reddit-monitor/internal/modules/analysis/domain"
)

// Filter narrows an analysis-history query. Zero values mean "no constraint".
type Filter struct {
	PostID      string
	Subreddit   string
	FlaggedOnly bool
}

// Repository defines the interface for image analysis persistence
type Repository interface {
	SaveImageAnalysis(ctx context.Context, record *domain.ImageAnalysisRecord) error
	ListImageAnalyses(ctx context.Context, filter Filter, limit int) ([]*domain.ImageAnalysisRecord, error)
}
