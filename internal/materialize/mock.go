// SPDX-License-Identifier: MPL-2.0

package materialize

import (
	"context"
	"sync"

	"github.com/denvtool/denv/internal/compose"
)

// MockMaterializer records the descriptors it is asked to realize and
// returns a canned result. Tests and dry-run flows use it in place of a
// live shell.
type MockMaterializer struct {
	// Result is returned from every Materialize call. Nil means success.
	Result *Result

	mu    sync.Mutex
	calls []*compose.Descriptor
}

// NewMockMaterializer creates a mock that succeeds.
func NewMockMaterializer() *MockMaterializer {
	return &MockMaterializer{}
}

// Name returns "mock".
func (m *MockMaterializer) Name() string { return "mock" }

// Available always returns true.
func (m *MockMaterializer) Available() bool { return true }

// Materialize records the descriptor and returns the canned result.
func (m *MockMaterializer) Materialize(_ context.Context, desc *compose.Descriptor, _ Options) *Result {
	m.mu.Lock()
	m.calls = append(m.calls, desc)
	m.mu.Unlock()
	if m.Result != nil {
		return m.Result
	}
	return &Result{}
}

// Calls returns the descriptors materialized so far.
func (m *MockMaterializer) Calls() []*compose.Descriptor {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*compose.Descriptor, len(m.calls))
	copy(out, m.calls)
	return out
}
