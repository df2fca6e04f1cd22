// Package wslogs captures zap log entries so they can be shipped to
// WebSocket clients in batches.
package wslogs

import (
	"sync"

	"go.uber.org/zap/zapcore"
)

// Core is a zap core that appends entries to the active Batcher. With no
// batcher set it drops everything. Tee it next to the console core.
type Core struct {
	zapcore.LevelEnabler
	state  *coreState
	fields []zapcore.Field
}

type coreState struct {
	mu      sync.RWMutex
	batcher *Batcher
}

// NewCore creates a core that accepts entries at or above level
func NewCore(level zapcore.LevelEnabler) *Core {
	return &Core{LevelEnabler: level, state: &coreState{}}
}

// SetBatcher routes subsequent entries to b
func (c *Core) SetBatcher(b *Batcher) {
	c.state.mu.Lock()
	defer c.state.mu.Unlock()
	c.state.batcher = b
}

// ClearBatcher stops capturing
func (c *Core) ClearBatcher() {
	c.state.mu.Lock()
	defer c.state.mu.Unlock()
	c.state.batcher = nil
}

// With returns a child core carrying fields. Children share the batcher.
func (c *Core) With(fields []zapcore.Field) zapcore.Core {
	merged := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	merged = append(merged, c.fields...)
	merged = append(merged, fields...)
	return &Core{LevelEnabler: c.LevelEnabler, state: c.state, fields: merged}
}

// Check implements zapcore.Core
func (c *Core) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

// Write implements zapcore.Core
func (c *Core) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	if !c.Enabled(entry.Level) {
		return nil
	}

	c.state.mu.RLock()
	batcher := c.state.batcher
	c.state.mu.RUnlock()
	if batcher == nil {
		return nil
	}

	all := fields
	if len(c.fields) > 0 {
		all = append(append([]zapcore.Field{}, c.fields...), fields...)
	}
	batcher.Append(FromZapEntry(entry, all))
	return nil
}

// Sync is a no-op, batches are flushed explicitly
func (c *Core) Sync() error {
	return nil
}
