package bench

import (
	"fmt"
	"os"
	"strings"

	"github.com/maxdcmn/rsgbench/internal/jsonl"
	"github.com/maxdcmn/rsgbench/internal/task"
)

// Input returns size lines of the task's validation split, cycling through
// the file when it is shorter than size.
func Input(dataDir string, t task.Task, size int) (*strings.Reader, error) {
	path := t.Path(dataDir, task.Val)
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	lines, err := jsonl.Lines(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return strings.NewReader(Cycle(lines, size)), nil
}

// Cycle joins the first size lines of an endless repetition of lines.
func Cycle(lines []string, size int) string {
	if len(lines) == 0 || size <= 0 {
		return ""
	}
	var b strings.Builder
	for i := 0; i < size; i++ {
		b.WriteString(lines[i%len(lines)])
		b.WriteByte('\n')
	}
	return b.String()
}
