package score

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/maxdcmn/rsgbench/internal/task"
)

const DefaultSeparator = " / "

// Score holds one or two metric values for a task, in leaderboard order.
type Score struct {
	First  float64  `json:"first"`
	Second *float64 `json:"second,omitempty"`
}

// FromMetrics picks the leaderboard metrics of t out of m.
func FromMetrics(t task.Task, m Metrics) (Score, error) {
	spec := t.Metric()
	first, ok := m[spec.First]
	if !ok {
		return Score{}, fmt.Errorf("%s: missing metric %q", t, spec.First)
	}
	s := Score{First: first}
	if spec.Second != "" {
		second, ok := m[spec.Second]
		if !ok {
			return Score{}, fmt.Errorf("%s: missing metric %q", t, spec.Second)
		}
		s.Second = &second
	}
	return s, nil
}

// Value is the mean of both metrics, or First when there is only one.
func (s Score) Value() float64 {
	if s.Second == nil {
		return s.First
	}
	return (s.First + *s.Second) / 2
}

func (s Score) Format(digits int, sep string) string {
	out := strconv.FormatFloat(s.First, 'f', digits, 64)
	if s.Second != nil {
		out += sep + strconv.FormatFloat(*s.Second, 'f', digits, 64)
	}
	return out
}

func (s Score) String() string {
	return s.Format(3, DefaultSeparator)
}

// ParseScore reads a leaderboard cell such as "0.301 / 0.441" or "0.5".
func ParseScore(cell string) (Score, error) {
	parts := strings.Split(cell, "/")
	if len(parts) > 2 {
		return Score{}, fmt.Errorf("bad score %q", cell)
	}
	first, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Score{}, fmt.Errorf("bad score %q: %w", cell, err)
	}
	s := Score{First: first}
	if len(parts) == 2 {
		second, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return Score{}, fmt.Errorf("bad score %q: %w", cell, err)
		}
		s.Second = &second
	}
	return s, nil
}
