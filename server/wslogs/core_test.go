package wslogs

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type captureSink struct {
	mu      sync.Mutex
	batches []*Batch
}

func (s *captureSink) SendBatch(b *Batch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, b)
}

func TestCore_DropsWithoutBatcher(t *testing.T) {
	core := NewCore(zapcore.InfoLevel)
	log := zap.New(core).Sugar()

	sink := &captureSink{}
	b := NewBatcher("reload-1", sink)

	log.Infow("before capture")
	core.SetBatcher(b)
	log.Infow("during capture")
	log.Debugw("filtered by level")
	core.ClearBatcher()
	log.Infow("after capture")

	assert.Equal(t, 1, b.Count())
	b.Flush()
	require.Len(t, sink.batches, 1)
	assert.Equal(t, "reload-1", sink.batches[0].CommandID)
	assert.Equal(t, "during capture", sink.batches[0].Messages[0].Message)
	assert.Zero(t, b.Count())
}

func TestCore_FieldsAndNames(t *testing.T) {
	core := NewCore(zapcore.DebugLevel)
	log := zap.New(core).Sugar().Named("session").With("client_id", "c1")

	sink := &captureSink{}
	b := NewBatcher("cmd", sink)
	core.SetBatcher(b)

	log.Warnw("Dataset reload failed",
		"nodes", 12,
		"alpha", 0.25,
		"settled", true,
		"elapsed", 1500*time.Millisecond,
		"error", errors.New("boom"),
		"groups", []string{"Aurora"},
	)
	b.Flush()

	require.Len(t, sink.batches, 1)
	msg := sink.batches[0].Messages[0]
	assert.Equal(t, "WARN", msg.Level)
	assert.Equal(t, "session", msg.Logger)
	assert.Equal(t, "c1", msg.Fields["client_id"])
	assert.Equal(t, int64(12), msg.Fields["nodes"])
	assert.Equal(t, 0.25, msg.Fields["alpha"])
	assert.Equal(t, true, msg.Fields["settled"])
	assert.Equal(t, "1.5s", msg.Fields["elapsed"])
	assert.Equal(t, "boom", msg.Fields["error"])
	assert.Equal(t, []interface{}{"Aurora"}, msg.Fields["groups"])
}

func TestBatcher_FlushEmptyIsNoop(t *testing.T) {
	sink := &captureSink{}
	NewBatcher("noop", sink).Flush()
	assert.Empty(t, sink.batches)
}
