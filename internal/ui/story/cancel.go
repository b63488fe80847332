// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package story

import (
	"context"
	"sync"
)

// cancelManager holds the context cancel function for the in-flight turn.
//
// The Model is copied by value on every Bubble Tea update, so the mutex
// must live behind a pointer. The manager is created once in NewModel and
// shared by every copy of the Model.
type cancelManager struct {
	mu     sync.Mutex
	cancel context.CancelFunc
}

func newCancelManager() *cancelManager {
	return &cancelManager{}
}

// set stores the cancel function for the current turn, cancelling any
// previous one first.
func (cm *cancelManager) set(cancel context.CancelFunc) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if cm.cancel != nil {
		cm.cancel()
	}
	cm.cancel = cancel
}

// cancelActive cancels the in-flight turn, if any. Returns true if there
// was one to cancel.
func (cm *cancelManager) cancelActive() bool {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if cm.cancel == nil {
		return false
	}
	cm.cancel()
	cm.cancel = nil
	return true
}

// clear drops the stored cancel function without calling it. Used when a
// turn completes on its own.
func (cm *cancelManager) clear() {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.cancel = nil
}
