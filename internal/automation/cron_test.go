package automation

import (
	"errors"
	"testing"
	"time"
)

func TestNewCronTrigger(t *testing.T) {
	tests := []struct {
		expr    string
		wantErr bool
	}{
		{expr: "0 7 * * 1-5"},
		{expr: "*/15 * * * *"},
		{expr: "0 7 * * * 30", wantErr: true}, // seconds field
		{expr: "0 7 * *", wantErr: true},
		{expr: "61 * * * *", wantErr: true},
		{expr: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			_, err := NewCronTrigger(tt.expr)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRule) {
					t.Errorf("error = %v, want ErrInvalidRule", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestCronTriggerFiresOncePerMinute(t *testing.T) {
	trig, err := NewCronTrigger("30 7 * * *")
	if err != nil {
		t.Fatalf("NewCronTrigger() error = %v", err)
	}
	eval := func(h, m, s int) bool {
		ts := time.Date(2026, 1, 15, h, m, s, 0, time.UTC)
		ok, err := trig.Evaluate(NewContext(nil, ts.Unix(), time.UTC))
		if err != nil {
			t.Fatalf("Evaluate() error = %v", err)
		}
		return ok
	}

	if eval(7, 29, 55) {
		t.Error("matched at 07:29")
	}
	if !eval(7, 30, 0) {
		t.Error("did not match at 07:30:00")
	}
	if eval(7, 30, 5) {
		t.Error("matched twice within 07:30")
	}
	if eval(7, 31, 0) {
		t.Error("matched at 07:31")
	}
}

func TestCronTriggerUsesLocalTime(t *testing.T) {
	trig, _ := NewCronTrigger("0 7 * * *")
	loc := time.FixedZone("UTC+1", 3600)
	// 06:00 UTC is 07:00 local.
	ts := time.Date(2026, 1, 15, 6, 0, 0, 0, time.UTC)
	ok, err := trig.Evaluate(NewContext(nil, ts.Unix(), loc))
	if err != nil || !ok {
		t.Errorf("Evaluate() = %v, %v; want true", ok, err)
	}
}
