package balancewatch

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// cycleReport collects the per-wallet outcome lines of one poll cycle. Each
// cycle carries a monotonically increasing sequence number within its session
// and a UUIDv7 identifier for correlation in logs.
type cycleReport struct {
	cycleID string   // unique identifier for this cycle (UUIDv7)
	number  uint64   // 1-based cycle sequence number within the session
	lines   []string // one outcome line per inspected wallet
}

// newCycleReport creates a report for the cycle with the given sequence number.
func newCycleReport(number uint64) *cycleReport {
	return &cycleReport{
		cycleID: uuid.Must(uuid.NewV7()).String(),
		number:  number,
	}
}

// addf appends a formatted outcome line to the report.
func (r *cycleReport) addf(format string, args ...any) {
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

// String renders the report as plain text: a header naming the cycle followed
// by one line per wallet.
func (r *cycleReport) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "checking transaction status (cycle %d)", r.number)
	for _, line := range r.lines {
		sb.WriteByte('\n')
		sb.WriteString(line)
	}
	return sb.String()
}
