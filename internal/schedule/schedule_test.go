package schedule

import (
	"context"
	"testing"
	"time"
)

func TestNextFire(t *testing.T) {
	base := time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name   string
		now    time.Time
		hour   int
		minute int
		want   time.Time
	}{
		{
			name: "later today",
			now:  base,
			hour: 18, minute: 0,
			want: time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC),
		},
		{
			name: "already passed rolls to tomorrow",
			now:  base,
			hour: 8, minute: 0,
			want: time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC),
		},
		{
			name: "exact minute rolls to tomorrow",
			now:  base,
			hour: 10, minute: 30,
			want: time.Date(2024, 1, 2, 10, 30, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := nextFire(tt.now, tt.hour, tt.minute)
			if !got.Equal(tt.want) {
				t.Errorf("nextFire(%v, %02d:%02d) = %v, expected %v",
					tt.now, tt.hour, tt.minute, got, tt.want)
			}
		})
	}
}

func TestNewDailyValidation(t *testing.T) {
	if _, err := NewDaily(24, 0, time.UTC, func() {}); err == nil {
		t.Error("expected error for hour 24")
	}
	if _, err := NewDaily(8, 60, time.UTC, func() {}); err == nil {
		t.Error("expected error for minute 60")
	}
	if _, err := NewDaily(8, 0, nil, func() {}); err != nil {
		t.Errorf("nil location should default to UTC, got error: %v", err)
	}
}

func TestSetTime(t *testing.T) {
	d, err := NewDaily(8, 0, time.UTC, func() {})
	if err != nil {
		t.Fatalf("NewDaily failed: %v", err)
	}

	if err := d.SetTime(21, 45); err != nil {
		t.Fatalf("SetTime failed: %v", err)
	}
	h, m := d.Time()
	if h != 21 || m != 45 {
		t.Errorf("expected 21:45, got %02d:%02d", h, m)
	}

	if err := d.SetTime(25, 0); err == nil {
		t.Error("expected error for invalid time")
	}
	// Failed update must not clobber the configured time.
	h, m = d.Time()
	if h != 21 || m != 45 {
		t.Errorf("invalid SetTime changed the time to %02d:%02d", h, m)
	}
}

func TestStartStopsOnCancel(t *testing.T) {
	fired := make(chan struct{}, 1)
	d, err := NewDaily(23, 59, time.UTC, func() {
		fired <- struct{}{}
	})
	if err != nil {
		t.Fatalf("NewDaily failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)
	cancel()

	select {
	case <-fired:
		t.Error("callback fired despite cancellation")
	case <-time.After(100 * time.Millisecond):
	}
}
