// Package registry stores benchmark runs on disk as
// {dir}/{model}/{task}/{input}_{batch}_{index}.jsonl.
package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"

	"github.com/samber/lo"

	"github.com/maxdcmn/rsgbench/internal/jsonl"
	"github.com/maxdcmn/rsgbench/internal/model"
)

const Ext = ".jsonl"

var ErrBadPath = errors.New("bad bench path")

var filenameRe = regexp.MustCompile(`^(\d+)_(\d+)_(\d+)\.(jsonl|jl)$`)

type Record struct {
	Dir       string
	Model     string
	Task      string
	InputSize int
	BatchSize int
	Index     int
	ext       string
}

func (r Record) Path() string {
	ext := r.ext
	if ext == "" {
		ext = Ext
	}
	name := fmt.Sprintf("%d_%d_%02d%s", r.InputSize, r.BatchSize, r.Index, ext)
	return filepath.Join(r.Dir, r.Model, r.Task, name)
}

// PathInfo is what a run file name tells about the run.
type PathInfo struct {
	Task      string
	InputSize int
	BatchSize int
	Index     int
}

// ParsePath reads the task directory and the sizes from a run path. Both the
// .jsonl and the legacy .jl extensions are accepted.
func ParsePath(path string) (PathInfo, error) {
	match := filenameRe.FindStringSubmatch(filepath.Base(path))
	task := filepath.Base(filepath.Dir(path))
	if match == nil || task == "." || task == string(filepath.Separator) {
		return PathInfo{}, fmt.Errorf("%w: %q", ErrBadPath, path)
	}
	input, _ := strconv.Atoi(match[1])
	batch, _ := strconv.Atoi(match[2])
	index, _ := strconv.Atoi(match[3])
	return PathInfo{Task: task, InputSize: input, BatchSize: batch, Index: index}, nil
}

// List walks dir two levels deep and returns every run file found, sorted by
// path.
func List(dir string) ([]Record, error) {
	models, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var records []Record
	for _, m := range models {
		if !m.IsDir() {
			continue
		}
		tasks, err := os.ReadDir(filepath.Join(dir, m.Name()))
		if err != nil {
			return nil, err
		}
		for _, t := range tasks {
			if !t.IsDir() {
				continue
			}
			files, err := os.ReadDir(filepath.Join(dir, m.Name(), t.Name()))
			if err != nil {
				return nil, err
			}
			for _, f := range files {
				match := filenameRe.FindStringSubmatch(f.Name())
				if f.IsDir() || match == nil {
					continue
				}
				info, err := ParsePath(filepath.Join(dir, m.Name(), t.Name(), f.Name()))
				if err != nil {
					return nil, err
				}
				records = append(records, Record{
					Dir:       dir,
					Model:     m.Name(),
					Task:      info.Task,
					InputSize: info.InputSize,
					BatchSize: info.BatchSize,
					Index:     info.Index,
					ext:       "." + match[4],
				})
			}
		}
	}
	slices.SortFunc(records, func(a, b Record) int {
		if a.Path() < b.Path() {
			return -1
		}
		if a.Path() > b.Path() {
			return 1
		}
		return 0
	})
	return records, nil
}

// Filter selects records. Empty fields match everything.
type Filter struct {
	Models     []string
	Tasks      []string
	InputSizes []int
	BatchSizes []int
}

func (f Filter) Match(r Record) bool {
	return matches(f.Models, r.Model) &&
		matches(f.Tasks, r.Task) &&
		matches(f.InputSizes, r.InputSize) &&
		matches(f.BatchSizes, r.BatchSize)
}

func matches[T comparable](allowed []T, v T) bool {
	return len(allowed) == 0 || lo.Contains(allowed, v)
}

func Query(records []Record, f Filter) []Record {
	return lo.Filter(records, func(r Record, _ int) bool { return f.Match(r) })
}

// NextIndex returns the first unused index for a model, task and size pair,
// starting at 1.
func NextIndex(records []Record, modelName, task string, inputSize, batchSize int) int {
	taken := Query(records, Filter{
		Models:     []string{modelName},
		Tasks:      []string{task},
		InputSizes: []int{inputSize},
		BatchSizes: []int{batchSize},
	})
	next := 1
	for _, r := range taken {
		if r.Index >= next {
			next = r.Index + 1
		}
	}
	return next
}

func Load(r Record) (model.Run, error) {
	return LoadFile(r.Path())
}

func LoadFile(path string) (model.Run, error) {
	return jsonl.ReadFile[model.Sample](path)
}

func Save(r Record, run model.Run) error {
	return jsonl.WriteFile(r.Path(), run)
}
