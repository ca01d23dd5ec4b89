package probe

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

var memoryUnits = map[string]int64{
	"KiB": 1 << 10,
	"MiB": 1 << 20,
	"GiB": 1 << 30,
}

// ParseMemory converts nvidia-smi memory values like "4443 MiB" to bytes.
func ParseMemory(s string) (int64, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return 0, fmt.Errorf("unexpected memory value %q", s)
	}
	unit, ok := memoryUnits[fields[1]]
	if !ok {
		return 0, fmt.Errorf("unexpected memory unit %q", fields[1])
	}
	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, fmt.Errorf("unexpected memory value %q: %w", s, err)
	}
	return int64(v * float64(unit)), nil
}

// ParsePercent converts values like "22 %" to a fraction in [0, 1].
func ParsePercent(s string) (float64, error) {
	v := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	pct, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("unexpected percent value %q: %w", s, err)
	}
	return pct / 100, nil
}

// parseCSV splits nvidia-smi --format=csv output into records, dropping the
// header line.
func parseCSV(out []byte) [][]string {
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) < 2 {
		return nil
	}
	records := make([][]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		records = append(records, strings.Split(line, ", "))
	}
	return records
}

func round(v float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Round(v*p) / p
}
