// SPDX-License-Identifier: MPL-2.0

package remote

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/denvtool/denv/internal/compose"
	"github.com/denvtool/denv/pkg/platform"
)

func stubProvider(t *testing.T) DescriptorProvider {
	t.Helper()
	return func(_ context.Context, output string, p platform.Platform) (*compose.Descriptor, error) {
		if output == "missing" {
			return nil, errors.New("no such output")
		}
		return &compose.Descriptor{Output: output, Platform: p.String()}, nil
	}
}

func TestNewServer_RequiresProvider(t *testing.T) {
	t.Parallel()

	if _, err := NewServer(Config{}, nil, nil); err == nil {
		t.Fatal("expected error for nil provider")
	}
}

func TestNewServer_Defaults(t *testing.T) {
	t.Parallel()

	s, err := NewServer(Config{}, stubProvider(t), nil)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	if s.cfg.Address != "localhost:2222" {
		t.Errorf("default address = %q", s.cfg.Address)
	}
	if s.cfg.ShutdownTimeout <= 0 {
		t.Error("shutdown timeout not defaulted")
	}
}

func TestServer_StartStop(t *testing.T) {
	t.Parallel()

	cfg := Config{
		Address:     "127.0.0.1:0",
		HostKeyPath: filepath.Join(t.TempDir(), "hostkey"),
	}
	s, err := NewServer(cfg, stubProvider(t), log.New(io.Discard))
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer func() { _ = s.Stop() }()

	addr := s.Addr()
	if addr == "" || strings.HasSuffix(addr, ":0") {
		t.Errorf("expected a bound address with a real port, got %q", addr)
	}

	if err := s.Start(context.Background()); err == nil {
		t.Error("second Start should fail; servers are single-use")
	}

	if err := s.Stop(); err != nil {
		t.Errorf("Stop: %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Errorf("second Stop should be a no-op, got %v", err)
	}
}
