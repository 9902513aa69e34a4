package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

type staticChecker struct {
	name   string
	result *Result
	delay  time.Duration
}

func (c *staticChecker) Name() string { return c.name }

func (c *staticChecker) Check(ctx context.Context) *Result {
	if c.delay > 0 {
		select {
		case <-time.After(c.delay):
		case <-ctx.Done():
			return Unhealthy("timed out")
		}
	}
	return c.result
}

func TestManagerCheckRunsAll(t *testing.T) {
	m := NewManager()
	m.AddChecker(&staticChecker{name: "a", result: Healthy("ok")})
	m.AddChecker(&staticChecker{name: "b", result: Degraded("meh")})

	results := m.Check(context.Background())
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results["a"].Status != StatusHealthy || results["b"].Status != StatusDegraded {
		t.Errorf("results = %+v", results)
	}
	if results["a"].Latency == 0 {
		t.Error("latency not recorded")
	}
}

func TestManagerCheckTimeout(t *testing.T) {
	m := NewManager().WithTimeout(20 * time.Millisecond)
	m.AddChecker(&staticChecker{name: "slow", result: Healthy("ok"), delay: time.Second})

	results := m.Check(context.Background())
	if results["slow"].Status != StatusUnhealthy {
		t.Errorf("slow checker status = %s, want unhealthy", results["slow"].Status)
	}
}

func TestOverallStatus(t *testing.T) {
	m := NewManager()
	tests := []struct {
		name    string
		results map[string]*Result
		want    Status
	}{
		{"empty", map[string]*Result{}, StatusHealthy},
		{"all healthy", map[string]*Result{"a": Healthy("")}, StatusHealthy},
		{"one degraded", map[string]*Result{"a": Healthy(""), "b": Degraded("")}, StatusDegraded},
		{"one unhealthy", map[string]*Result{"a": Degraded(""), "b": Unhealthy("")}, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.OverallStatus(tt.results); got != tt.want {
				t.Errorf("OverallStatus() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestProbeLifecycle(t *testing.T) {
	pm := NewProbeManager("1.2.3")
	ctx := context.Background()

	// Before initialization: startup fails, liveness passes.
	if got := pm.CheckStartup(ctx).Status; got != StatusUnhealthy {
		t.Errorf("startup before init = %s", got)
	}
	if got := pm.CheckLiveness(ctx).Status; got != StatusHealthy {
		t.Errorf("liveness before init = %s", got)
	}

	pm.MarkInitialized()
	if got := pm.CheckStartup(ctx).Status; got != StatusHealthy {
		t.Errorf("startup after init = %s", got)
	}
	if got := pm.CheckReadiness(ctx).Status; got != StatusHealthy {
		t.Errorf("readiness after init = %s", got)
	}

	pm.MarkShutdown()
	if got := pm.CheckReadiness(ctx).Status; got != StatusUnhealthy {
		t.Errorf("readiness during shutdown = %s", got)
	}
	// Liveness stays alive through shutdown so the pod is not restarted.
	if got := pm.CheckLiveness(ctx).Status; got != StatusDegraded {
		t.Errorf("liveness during shutdown = %s", got)
	}
}

func TestProbeReadinessAggregatesCheckers(t *testing.T) {
	pm := NewProbeManager("dev")
	pm.MarkInitialized()
	pm.AddChecker(&staticChecker{name: "dep", result: Unhealthy("down")})

	result := pm.CheckReadiness(context.Background())
	if result.Status != StatusUnhealthy {
		t.Errorf("readiness = %s, want unhealthy", result.Status)
	}
	if result.Checks["dep"] == nil {
		t.Error("dependency result missing from probe payload")
	}
	if result.Version != "dev" {
		t.Errorf("version = %q", result.Version)
	}
}

type fakeOracle struct {
	err error
}

func (f *fakeOracle) Provider() string               { return "anthropic" }
func (f *fakeOracle) Health(_ context.Context) error { return f.err }

func TestOracleChecker(t *testing.T) {
	healthy := NewOracleChecker(&fakeOracle{})
	if got := healthy.Check(context.Background()); got.Status != StatusHealthy {
		t.Errorf("status = %s, want healthy", got.Status)
	}

	// A down provider degrades the service but sessions still work.
	down := NewOracleChecker(&fakeOracle{err: errors.New("401")})
	result := down.Check(context.Background())
	if result.Status != StatusDegraded {
		t.Errorf("status = %s, want degraded", result.Status)
	}
	if result.Details["provider"] != "anthropic" {
		t.Errorf("details = %v", result.Details)
	}
}

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping(_ context.Context) error { return f.err }

func TestStoreChecker(t *testing.T) {
	ok := NewStoreChecker(&fakePinger{})
	if got := ok.Check(context.Background()); got.Status != StatusHealthy {
		t.Errorf("status = %s, want healthy", got.Status)
	}

	down := NewStoreChecker(&fakePinger{err: errors.New("disk gone")})
	if got := down.Check(context.Background()); got.Status != StatusUnhealthy {
		t.Errorf("status = %s, want unhealthy", got.Status)
	}
}
