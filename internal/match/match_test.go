package match

import (
	"testing"
	"time"
)

func at(s string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestSelect(t *testing.T) {
	records := []Record{
		{StartTime: at("2024-01-02 12:00"), Event: "C"},
		{StartTime: at("2024-01-01 18:00"), Event: "A"},
		{StartTime: at("2024-01-01 18:00"), Event: "B"},
		{StartTime: at("2024-01-03 10:00"), Event: "D"},
	}

	t.Run("sorts chronologically with stable ties", func(t *testing.T) {
		got := Select(records, 10)
		want := []string{"A", "B", "C", "D"}
		if len(got) != len(want) {
			t.Fatalf("expected %d records, got %d", len(want), len(got))
		}
		for i, ev := range want {
			if got[i].Event != ev {
				t.Errorf("position %d: expected %q, got %q", i, ev, got[i].Event)
			}
		}
		for i := 1; i < len(got); i++ {
			if got[i].StartTime.Before(got[i-1].StartTime) {
				t.Errorf("output not time-ordered at position %d", i)
			}
		}
	})

	t.Run("truncates to limit", func(t *testing.T) {
		got := Select(records, 2)
		if len(got) != 2 {
			t.Fatalf("expected 2 records, got %d", len(got))
		}
		if got[0].Event != "A" || got[1].Event != "B" {
			t.Errorf("expected earliest two records, got %q and %q", got[0].Event, got[1].Event)
		}
	})

	t.Run("empty input yields empty output", func(t *testing.T) {
		got := Select(nil, 5)
		if len(got) != 0 {
			t.Errorf("expected empty output, got %d records", len(got))
		}
	})

	t.Run("does not mutate input", func(t *testing.T) {
		Select(records, 1)
		if records[0].Event != "C" {
			t.Error("input slice was reordered")
		}
	})
}

func TestParseBestOf(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"bo3", 3},
		{"BO5", 5},
		{"Best of 3", 3},
		{"bo1", 1},
		{"", DefaultBestOf},
		{"unknown", DefaultBestOf},
		{"未知", DefaultBestOf},
		{"bo0", DefaultBestOf},
		{"  bo3  ", 3},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseBestOf(tt.in); got != tt.want {
				t.Errorf("ParseBestOf(%q) = %d, expected %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestDate(t *testing.T) {
	r := Record{StartTime: at("2024-01-01 23:59")}
	if got := r.Date(); got != "2024-01-01" {
		t.Errorf("Date() = %q, expected 2024-01-01", got)
	}
}
