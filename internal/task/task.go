package task

import (
	"errors"
	"fmt"
	"path/filepath"
)

// Task is one of the nine Russian SuperGLUE tasks.
type Task int

const (
	DaNetQA Task = iota
	LiDiRus
	MuSeRC
	PARus
	RCB
	RuCoS
	RUSSE
	RWSD
	TERRa
)

// All lists tasks in leaderboard order.
var All = []Task{DaNetQA, MuSeRC, PARus, RCB, RuCoS, RUSSE, RWSD, TERRa, LiDiRus}

var ErrUnknownTask = errors.New("unknown task")

const (
	Train = "train"
	Val   = "val"
	Test  = "test"

	Public  = "public"
	Private = "private"
)

// MetricSpec names the metrics that make up a task's leaderboard score.
// Second is empty for single-metric tasks.
type MetricSpec struct {
	First  string
	Second string
}

func Parse(id string) (Task, error) {
	for _, t := range All {
		if t.String() == id {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTask, id)
}

func (t Task) String() string {
	switch t {
	case DaNetQA:
		return "danetqa"
	case LiDiRus:
		return "lidirus"
	case MuSeRC:
		return "muserc"
	case PARus:
		return "parus"
	case RCB:
		return "rcb"
	case RuCoS:
		return "rucos"
	case RUSSE:
		return "russe"
	case RWSD:
		return "rwsd"
	case TERRa:
		return "terra"
	}
	panic(fmt.Sprintf("invalid task %d", int(t)))
}

func (t Task) Title() string {
	switch t {
	case DaNetQA:
		return "DaNetQA"
	case LiDiRus:
		return "LiDiRus"
	case MuSeRC:
		return "MuSeRC"
	case PARus:
		return "PARus"
	case RCB:
		return "RCB"
	case RuCoS:
		return "RuCoS"
	case RUSSE:
		return "RUSSE"
	case RWSD:
		return "RWSD"
	case TERRa:
		return "TERRa"
	}
	panic(fmt.Sprintf("invalid task %d", int(t)))
}

func (t Task) Metric() MetricSpec {
	switch t {
	case DaNetQA, PARus, RUSSE, TERRa:
		return MetricSpec{First: "accuracy"}
	case MuSeRC:
		return MetricSpec{First: "ans_f1", Second: "em"}
	case RCB:
		return MetricSpec{First: "f1", Second: "accuracy"}
	case RuCoS:
		return MetricSpec{First: "f1", Second: "em"}
	case RWSD:
		return MetricSpec{First: "acc"}
	case LiDiRus:
		return MetricSpec{First: "all_mcc"}
	}
	panic(fmt.Sprintf("invalid task %d", int(t)))
}

// Path returns the location of a split inside a benchmark data directory.
// LiDiRus ships a single file named after the task.
func (t Task) Path(dir, split string) string {
	name := split
	if t == LiDiRus {
		name = t.Title()
	}
	return filepath.Join(dir, t.Title(), name+".jsonl")
}

// DataPath resolves a split inside a public or private dataset copy. The
// private copy keeps labelled test items in test_with_answers.jsonl.
func (t Task) DataPath(dir, access, split string) string {
	if access == Private && split == Test {
		return filepath.Join(dir, access, t.Title(), "test_with_answers.jsonl")
	}
	return t.Path(filepath.Join(dir, access), split)
}
