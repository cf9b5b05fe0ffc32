// Package schedule runs the daily report job at a configurable wall-clock
// time, retargetable while running.
package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mocchh/hltv-monitor/internal/logger"
)

// Daily fires a callback once per day at a configured HH:MM in a fixed
// location. The time can be changed while running; the pending fire is
// recomputed immediately.
type Daily struct {
	mu       sync.Mutex
	hour     int
	minute   int
	loc      *time.Location
	run      func()
	retarget chan struct{}
}

// NewDaily creates a scheduler that calls run at hour:minute in loc. A nil
// location means UTC.
func NewDaily(hour, minute int, loc *time.Location, run func()) (*Daily, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return nil, fmt.Errorf("invalid schedule time %02d:%02d", hour, minute)
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Daily{
		hour:     hour,
		minute:   minute,
		loc:      loc,
		run:      run,
		retarget: make(chan struct{}, 1),
	}, nil
}

// Time returns the currently configured fire time.
func (d *Daily) Time() (hour, minute int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.hour, d.minute
}

// SetTime changes the fire time and retargets the pending fire.
func (d *Daily) SetTime(hour, minute int) error {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return fmt.Errorf("invalid schedule time %02d:%02d", hour, minute)
	}

	d.mu.Lock()
	d.hour = hour
	d.minute = minute
	d.mu.Unlock()

	select {
	case d.retarget <- struct{}{}:
	default:
	}
	return nil
}

// Start launches the scheduler loop; it stops when ctx is canceled.
func (d *Daily) Start(ctx context.Context) {
	go d.loop(ctx)
}

func (d *Daily) loop(ctx context.Context) {
	for {
		hour, minute := d.Time()
		now := time.Now().In(d.loc)
		next := nextFire(now, hour, minute)

		logger.Debug("scheduler armed", logger.Fields{
			"next": next.Format(time.RFC3339),
		})

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-d.retarget:
			timer.Stop()
		case <-timer.C:
			d.run()
		}
	}
}

// nextFire returns the first instant at hour:minute strictly after now, in
// now's location.
func nextFire(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
