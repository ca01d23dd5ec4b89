package ui

import (
	"bytes"
	"io"
	"os"

	"github.com/maxdcmn/rsgbench/internal/jsonl"
	"github.com/maxdcmn/rsgbench/internal/model"
)

// tailer returns the samples appended to a run file since the last call.
// A trailing line without a newline is left for the next call.
type tailer struct {
	path   string
	offset int64
}

func (t *tailer) next() ([]model.Sample, error) {
	f, err := os.Open(t.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() < t.offset {
		// truncated or replaced
		t.offset = 0
	}
	if _, err := f.Seek(t.offset, io.SeekStart); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	end := bytes.LastIndexByte(data, '\n')
	if end < 0 {
		return nil, nil
	}
	complete := data[:end+1]
	samples, err := jsonl.Decode[model.Sample](bytes.NewReader(complete))
	if err != nil {
		return nil, err
	}
	t.offset += int64(len(complete))
	return samples, nil
}

func (t *tailer) reset() {
	t.offset = 0
}
