package audit

import (
	"context"

	"go.uber.org/zap"
)

// ZapLogger writes audit entries to a structured log. Used when no database
// is configured.
type ZapLogger struct {
	logger *zap.Logger
}

// NewZapLogger constructs a log-backed audit logger.
func NewZapLogger(logger *zap.Logger) *ZapLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapLogger{logger: logger}
}

// Log emits the entry at info level.
func (l *ZapLogger) Log(ctx context.Context, entry Entry) error {
	_ = ctx
	entry = normalize(entry)
	l.logger.Info("audit",
		zap.String("audit_id", entry.ID),
		zap.Int64("community_id", entry.CommunityID),
		zap.String("actor", entry.Actor),
		zap.String("role", entry.Role),
		zap.String("action", entry.Action),
		zap.String("resource_type", entry.ResourceType),
		zap.String("resource_id", entry.ResourceID),
		zap.ByteString("metadata", entry.Metadata),
		zap.String("payload_digest", entry.PayloadDigest),
		zap.String("ip", entry.IP),
	)
	return nil
}
