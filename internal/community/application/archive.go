package application

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"energy-community/internal/observability/metrics"
)

var (
	ErrArchiveServiceRequired  = errors.New("roster archiver: settlement service is required")
	ErrArchiveRendererRequired = errors.New("roster archiver: renderer is required")
	ErrArchiveRootRequired     = errors.New("roster archiver: storage root is required")
)

// RosterRenderer encodes a roster into a document.
type RosterRenderer func(report *RosterReport) ([]byte, error)

// RosterArchiver writes monthly roster snapshots to disk.
type RosterArchiver struct {
	service *SettlementService
	render  RosterRenderer
	root    string
	logger  *zap.Logger
}

// NewRosterArchiver constructs an archiver rooted at root.
func NewRosterArchiver(service *SettlementService, render RosterRenderer, root string, logger *zap.Logger) (*RosterArchiver, error) {
	if service == nil {
		return nil, ErrArchiveServiceRequired
	}
	if render == nil {
		return nil, ErrArchiveRendererRequired
	}
	if root == "" {
		return nil, ErrArchiveRootRequired
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterArchiver{service: service, render: render, root: root, logger: logger}, nil
}

// Archive renders the current roster of a community to
// <root>/community-<id>/<period>.xlsx and returns the file path.
func (a *RosterArchiver) Archive(ctx context.Context, communityID int64) (string, error) {
	start := time.Now()
	path, err := a.archive(ctx, communityID)
	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultError
	}
	metrics.IncArchiveRun(result)
	metrics.ObserveExport("archive", result, time.Since(start))
	return path, err
}

func (a *RosterArchiver) archive(ctx context.Context, communityID int64) (string, error) {
	res := a.service.GetCommunityUsers(ctx, communityID)
	if !res.Success() {
		return "", fmt.Errorf("roster archiver: community %d: %s", communityID, res.Message)
	}
	data, err := a.render(res.Data)
	if err != nil {
		return "", fmt.Errorf("roster archiver: render community %d: %w", communityID, err)
	}

	dir := filepath.Join(a.root, fmt.Sprintf("community-%d", communityID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("roster archiver: %w", err)
	}
	path := filepath.Join(dir, res.Data.Period.String()+".xlsx")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("roster archiver: %w", err)
	}
	a.logger.Info("roster archived",
		zap.Int64("community_id", communityID),
		zap.String("period", res.Data.Period.String()),
		zap.Int("members", res.Data.MembersCount),
		zap.String("path", path),
	)
	return path, nil
}
