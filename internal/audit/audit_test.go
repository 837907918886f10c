package audit

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNormalizeFillsDefaults(t *testing.T) {
	meta := json.RawMessage(`{"kwh":"1.5"}`)
	entry := normalize(Entry{Action: ActionCreditConsume, Metadata: meta})

	assert.True(t, strings.HasPrefix(entry.ID, "audit-"))
	assert.False(t, entry.CreatedAt.IsZero())
	assert.Equal(t, DigestJSON(meta), entry.PayloadDigest)
	assert.Len(t, entry.PayloadDigest, 64)
	assert.Empty(t, DigestJSON(nil))
}

func TestZapLoggerWritesEntry(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := NewZapLogger(zap.New(core))

	err := logger.Log(context.Background(), Entry{
		CommunityID:  3,
		Actor:        "ops",
		Action:       ActionMemberRegister,
		ResourceType: "membership",
		ResourceID:   "17",
	})
	require.NoError(t, err)

	entries := logs.FilterMessage("audit").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, ActionMemberRegister, fields["action"])
	assert.Equal(t, int64(3), fields["community_id"])
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.9:5123"
	assert.Equal(t, "10.0.0.9", ClientIP(req))

	req.Header.Set("X-Real-IP", "172.16.0.1")
	assert.Equal(t, "172.16.0.1", ClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")
	assert.Equal(t, "203.0.113.5", ClientIP(req))
}
