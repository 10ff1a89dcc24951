package influxdb

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

func fieldsOf(p *write.Point) map[string]interface{} {
	out := map[string]interface{}{}
	for _, f := range p.FieldList() {
		out[f.Key] = f.Value
	}
	return out
}

func tagsOf(p *write.Point) map[string]string {
	out := map[string]string{}
	for _, t := range p.TagList() {
		out[t.Key] = t.Value
	}
	return out
}

func TestEnergyPoint(t *testing.T) {
	ts := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	p := energyPoint("My Smart Home", 120.5, 2.5, 0.0145, ts)

	if p.Name() != MeasurementEnergy {
		t.Errorf("Name() = %q", p.Name())
	}
	if !p.Time().Equal(ts) {
		t.Errorf("Time() = %v, want %v", p.Time(), ts)
	}
	if tagsOf(p)["home"] != "My Smart Home" {
		t.Errorf("tags = %v", tagsOf(p))
	}
	f := fieldsOf(p)
	if f["power_watts"] != 120.5 || f["energy_kwh"] != 2.5 || f["hourly_cost"] != 0.0145 {
		t.Errorf("fields = %v", f)
	}
}

func TestDevicePowerPoint(t *testing.T) {
	p := devicePowerPoint("Maple Cottage", "Main Light", "Living Room", "light", 8, true, time.Now())

	tags := tagsOf(p)
	if tags["home"] != "Maple Cottage" || tags["device"] != "Main Light" || tags["room"] != "Living Room" || tags["type"] != "light" {
		t.Errorf("tags = %v", tags)
	}
	f := fieldsOf(p)
	if f["power_watts"] != 8.0 || f["on"] != true {
		t.Errorf("fields = %v", f)
	}
}

func TestEngineTickPoint(t *testing.T) {
	p := engineTickPoint("Maple Cottage", EngineTick{
		RulesEvaluated:   4,
		RulesFired:       2,
		EvaluationFaults: 1,
		ActionFaults:     0,
		Duration:         1500 * time.Microsecond,
	}, time.Now())

	if p.Name() != MeasurementEngineTick {
		t.Errorf("Name() = %q", p.Name())
	}
	f := fieldsOf(p)
	// write.Point normalises ints to int64.
	if f["rules_evaluated"] != int64(4) || f["rules_fired"] != int64(2) || f["evaluation_faults"] != int64(1) {
		t.Errorf("fields = %v", f)
	}
	if f["duration_ms"] != 1.5 {
		t.Errorf("duration_ms = %v, want 1.5", f["duration_ms"])
	}
}

func TestTaskRunPoint(t *testing.T) {
	p := taskRunPoint("Maple Cottage", "Morning heat", false, 2*time.Millisecond, time.Now())

	if tagsOf(p)["task"] != "Morning heat" || tagsOf(p)["home"] != "Maple Cottage" {
		t.Errorf("tags = %v", tagsOf(p))
	}
	f := fieldsOf(p)
	if f["ok"] != false || f["duration_ms"] != 2.0 {
		t.Errorf("fields = %v", f)
	}
}

// ─── Client writes ──────────────────────────────────────────────────────────

type fakeWriter struct {
	mu      sync.Mutex
	points  []*write.Point
	flushes int
}

func (w *fakeWriter) WritePoint(p *write.Point) {
	w.mu.Lock()
	w.points = append(w.points, p)
	w.mu.Unlock()
}

func (w *fakeWriter) Flush() {
	w.mu.Lock()
	w.flushes++
	w.mu.Unlock()
}

func TestClientWritesTagHome(t *testing.T) {
	w := &fakeWriter{}
	c := &Client{writer: w, home: "Maple Cottage", connected: true}
	ts := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	c.WriteEnergy(152.5, 3.25, 0.018, ts)
	c.WriteDevicePower("Main Light", "Living Room", "light", 10, true, ts)
	c.WriteEngineTick(EngineTick{RulesEvaluated: 3, RulesFired: 1}, ts)
	c.WriteTaskRun("Morning heat", true, time.Millisecond, ts)

	want := []string{MeasurementEnergy, MeasurementDevicePower, MeasurementEngineTick, MeasurementTaskRun}
	if len(w.points) != len(want) {
		t.Fatalf("wrote %d points, want %d", len(w.points), len(want))
	}
	for i, p := range w.points {
		if p.Name() != want[i] {
			t.Errorf("point %d = %q, want %q", i, p.Name(), want[i])
		}
		if tagsOf(p)["home"] != "Maple Cottage" {
			t.Errorf("point %s tags = %v", p.Name(), tagsOf(p))
		}
	}
}

func TestClientCloseFlushesThenDrops(t *testing.T) {
	w := &fakeWriter{}
	c := &Client{writer: w, home: "Maple Cottage", connected: true}

	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if w.flushes != 1 {
		t.Errorf("flushes = %d, want 1", w.flushes)
	}

	c.WriteEnergy(1, 0, 0, time.Now())
	if len(w.points) != 0 {
		t.Errorf("closed client wrote %d points", len(w.points))
	}
	if err := c.Close(); err != nil || w.flushes != 1 {
		t.Errorf("second Close() err = %v flushes = %d", err, w.flushes)
	}
}

func TestForwardErrorsWrapsWriteFailed(t *testing.T) {
	c := &Client{}
	var got []error
	c.SetOnError(func(err error) { got = append(got, err) })

	errs := make(chan error, 2)
	errs <- errors.New("401 unauthorized")
	errs <- errors.New("bucket not found")
	close(errs)
	c.forwardErrors(errs)

	if len(got) != 2 {
		t.Fatalf("callback got %d errors, want 2", len(got))
	}
	for _, err := range got {
		if !errors.Is(err, ErrWriteFailed) {
			t.Errorf("error %v does not wrap ErrWriteFailed", err)
		}
	}
}
