package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fekuna/omnipos-community-store/config"
	"github.com/fekuna/omnipos-community-store/pkg/logger"
)

func newTestApp(t *testing.T) *App {
	t.Helper()

	cfg := config.LoadEnv()
	cfg.Database.Driver = "sqlite"
	cfg.Database.SQLitePath = filepath.Join(t.TempDir(), "app.db")
	cfg.Redis.Enabled = false
	cfg.Kafka.Enabled = false
	cfg.Lock.Backend = "local"

	a, err := New(context.Background(), cfg, logger.NewNopLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(a.Close)
	return a
}

func TestNewWiresHTTP(t *testing.T) {
	a := newTestApp(t)
	h := a.HTTPHandler()

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("health: got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rr.Body.String(), "go_goroutines") {
		t.Error("metrics should include runtime collectors")
	}
}

func TestGRPCServicesNamed(t *testing.T) {
	a := newTestApp(t)

	want := map[string]bool{
		"communitystore.v1.TransactionService": false,
		"communitystore.v1.RationService":      false,
		"communitystore.v1.CreditService":      false,
		"communitystore.v1.MemberService":      false,
		"communitystore.v1.CatalogService":     false,
		"communitystore.v1.BranchService":      false,
	}
	for _, svc := range a.GRPCServices() {
		name := svc.ServiceDesc().ServiceName
		if _, ok := want[name]; !ok {
			t.Errorf("unexpected service %q", name)
		}
		want[name] = true
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("service %q not registered", name)
		}
	}
}

func TestStartBranchListenerDisabled(t *testing.T) {
	a := newTestApp(t)
	before := len(a.closers)
	a.StartBranchListener(context.Background())
	if len(a.closers) != before {
		t.Error("listener should not start when Kafka is disabled")
	}
}
