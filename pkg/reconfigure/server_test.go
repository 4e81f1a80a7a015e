package reconfigure_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-navparams/pkg/navigation"
	"github.com/goliatone/go-navparams/pkg/paramgen"
	"github.com/goliatone/go-navparams/pkg/reconfigure"
	"github.com/goliatone/go-navparams/pkg/values"
)

func newServer(t *testing.T, options ...reconfigure.Option) *reconfigure.Server {
	t.Helper()
	server, err := reconfigure.New(navigation.MustSchema(), options...)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return server
}

func TestNew_SeedsDefaults(t *testing.T) {
	server := newServer(t)
	if diff := cmp.Diff(navigation.MustSchema().Defaults(), server.Current()); diff != "" {
		t.Fatalf("initial values mismatch (-want +got):\n%s", diff)
	}
}

func TestNew_InitialValues(t *testing.T) {
	server := newServer(t, reconfigure.WithInitialValues(map[string]any{
		navigation.ParamControllerFrequency: 10,
	}))
	if got := server.Current()[navigation.ParamControllerFrequency]; got != 10.0 {
		t.Fatalf("expected coerced initial value 10.0, got %#v", got)
	}

	_, err := reconfigure.New(navigation.MustSchema(), reconfigure.WithInitialValues(map[string]any{
		navigation.ParamPlannerFrequency: 101.0,
	}))
	if err == nil {
		t.Fatalf("expected invalid initial values to fail")
	}
}

func TestNew_EmptySchema(t *testing.T) {
	if _, err := reconfigure.New(paramgen.Schema{}); err == nil {
		t.Fatalf("expected error for empty schema")
	}
}

func TestUpdate_AppliesPartialUpdate(t *testing.T) {
	server := newServer(t)
	got, err := server.Update(context.Background(), map[string]any{
		navigation.ParamPlannerFrequency:  2,
		navigation.ParamLocalPlanner:      "dwa_local_planner/DWAPlannerROS",
		navigation.ParamRecoveryEnabled:   false,
		navigation.ParamPlannerMaxRetries: 5.0,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	want := navigation.MustSchema().Defaults()
	want[navigation.ParamPlannerFrequency] = 2.0
	want[navigation.ParamLocalPlanner] = "dwa_local_planner/DWAPlannerROS"
	want[navigation.ParamRecoveryEnabled] = false
	want[navigation.ParamPlannerMaxRetries] = 5
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, server.Current()); diff != "" {
		t.Fatalf("current mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdate_RejectsWholeUpdate(t *testing.T) {
	server := newServer(t)
	before := server.Current()

	_, err := server.Update(context.Background(), map[string]any{
		navigation.ParamPlannerFrequency:   50.0,
		navigation.ParamControllerPatience: 500.0,
		"recovery_behaviors":               []any{},
	})
	if !errors.Is(err, reconfigure.ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
	var verr *values.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *values.ValidationError, got %T", err)
	}
	var fields []string
	for _, issue := range verr.Issues {
		fields = append(fields, issue.Field)
	}
	if diff := cmp.Diff([]string{navigation.ParamControllerPatience, "recovery_behaviors"}, fields); diff != "" {
		t.Fatalf("issue fields mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(before, server.Current()); diff != "" {
		t.Fatalf("rejected update must not change values (-want +got):\n%s", diff)
	}
}

func TestUpdate_RestoreDefaults(t *testing.T) {
	server := newServer(t, reconfigure.WithInitialValues(map[string]any{
		navigation.ParamGlobalPlanner: "global_planner/GlobalPlanner",
	}))
	restorePoint := server.Current()

	if _, err := server.Update(context.Background(), map[string]any{
		navigation.ParamGlobalPlanner:    "carrot_planner/CarrotPlanner",
		navigation.ParamPlannerFrequency: 4.0,
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := server.Update(context.Background(), map[string]any{
		reconfigure.RestoreDefaultsKey:   true,
		navigation.ParamPlannerFrequency: 9.0,
	})
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if diff := cmp.Diff(restorePoint, got); diff != "" {
		t.Fatalf("restore mismatch (-want +got):\n%s", diff)
	}
	if _, stored := got[reconfigure.RestoreDefaultsKey]; stored {
		t.Fatalf("restore_defaults must never be stored")
	}

	if _, err := server.Update(context.Background(), map[string]any{reconfigure.RestoreDefaultsKey: "yes"}); !errors.Is(err, reconfigure.ErrRejected) {
		t.Fatalf("expected non bool restore flag to be rejected, got %v", err)
	}
}

func TestUpdate_CancelledContext(t *testing.T) {
	server := newServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := server.Update(ctx, map[string]any{navigation.ParamPlannerFrequency: 1.0}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSubscribe_LevelBitmask(t *testing.T) {
	gen := paramgen.NewGenerator()
	mustAdd(t, gen, "rate", paramgen.KindDouble, 1, 10.0, 0.0, 100.0)
	mustAdd(t, gen, "name", paramgen.KindString, 2, "a")
	mustAdd(t, gen, "enabled", paramgen.KindBool, 8, true)

	server, err := reconfigure.New(gen.Schema())
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	var levels []paramgen.Level
	var seen []paramgen.Values
	unsubscribe := server.Subscribe(func(current paramgen.Values, level paramgen.Level) {
		levels = append(levels, level)
		seen = append(seen, current)
	})

	ctx := context.Background()
	updates := []map[string]any{
		{"rate": 20.0, "enabled": false},
		{"name": "b"},
		{"rate": 20.0},
	}
	for _, update := range updates {
		if _, err := server.Update(ctx, update); err != nil {
			t.Fatalf("update %v: %v", update, err)
		}
	}
	if diff := cmp.Diff([]paramgen.Level{9, 2, 0}, levels); diff != "" {
		t.Fatalf("levels mismatch (-want +got):\n%s", diff)
	}
	if seen[1]["name"] != "b" {
		t.Fatalf("callback should receive the new values, got %v", seen[1])
	}

	unsubscribe()
	unsubscribe()
	if _, err := server.Update(ctx, map[string]any{"rate": 1.0}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(levels) != 3 {
		t.Fatalf("unsubscribed callback was invoked")
	}
}

func TestSubscribe_ConcurrentUpdatesObservedInOrder(t *testing.T) {
	server := newServer(t)

	var (
		mu   sync.Mutex
		last = -2
		ok   = true
	)
	server.Subscribe(func(current paramgen.Values, _ paramgen.Level) {
		mu.Lock()
		defer mu.Unlock()
		v := current[navigation.ParamPlannerMaxRetries].(int)
		if v == last {
			ok = false
		}
		last = v
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := server.Update(context.Background(), map[string]any{navigation.ParamPlannerMaxRetries: i}); err != nil {
				t.Errorf("update: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if !ok {
		t.Fatalf("callbacks observed a repeated value")
	}
	if got := server.Current()[navigation.ParamPlannerMaxRetries]; got != last {
		t.Fatalf("last callback saw %v but current is %v", last, got)
	}
}

func mustAdd(t *testing.T, b paramgen.Builder, name string, kind paramgen.Kind, level paramgen.Level, def any, bounds ...any) {
	t.Helper()
	if err := b.Add(name, kind, level, name, def, bounds...); err != nil {
		t.Fatalf("add %s: %v", name, err)
	}
}
