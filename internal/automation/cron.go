package automation

import (
	"fmt"
	"strings"
	"time"

	"github.com/adhocore/gronx"
)

// CronTrigger holds once per minute matching a standard 5-field cron
// expression, evaluated in the tick's local time. Further ticks within the
// same minute do not match again.
type CronTrigger struct {
	expr       string
	lastMinute int64
}

// NewCronTrigger validates expr and returns a trigger for it.
func NewCronTrigger(expr string) (*CronTrigger, error) {
	expr = strings.TrimSpace(expr)
	// gronx also accepts a 6-field form with seconds; ticks are minute-grained.
	if len(strings.Fields(expr)) != 5 {
		return nil, fmt.Errorf("%w: cron expression %q must have exactly 5 fields", ErrInvalidRule, expr)
	}
	if !gronx.IsValid(expr) {
		return nil, fmt.Errorf("%w: invalid cron expression %q", ErrInvalidRule, expr)
	}
	return &CronTrigger{expr: expr, lastMinute: -1}, nil
}

func (t *CronTrigger) Evaluate(c Context) (bool, error) {
	minute := c.Time().Truncate(time.Minute)
	key := minute.Unix() / 60
	if key == t.lastMinute {
		return false, nil
	}
	next, err := gronx.NextTickAfter(t.expr, minute, true)
	if err != nil {
		return false, fmt.Errorf("evaluating cron %q: %w", t.expr, err)
	}
	if !next.Equal(minute) {
		return false, nil
	}
	t.lastMinute = key
	return true, nil
}

func (t *CronTrigger) Describe() string { return "cron " + t.expr }
