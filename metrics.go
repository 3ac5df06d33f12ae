package instinct

import (
	"fmt"
	"io"
	"sort"

	"github.com/rwortham/instinct/internal/domain"
	"github.com/rwortham/instinct/internal/monitor"
)

const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiCyan   = "\033[36m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiRed    = "\033[31m"
)

// DisplayMetrics renders a MetricsSink's counters to w as a colored console
// report: a totals summary followed by one section per node kind, the
// sections ordered by NodeKind.
func DisplayMetrics(w io.Writer, sink *monitor.MetricsSink) {
	title := func(s string) { fmt.Fprintf(w, "%s%s%s\n", ansiBold+ansiCyan, s, ansiReset) }
	kv := func(label string, value any) { fmt.Fprintf(w, "  %-12s %v\n", label+":", value) }

	snapshot := sink.Snapshot()

	title("=== Dispatch Summary ===")
	var totalExecuted, totalSuccess, totalFail, totalError uint64
	for _, c := range snapshot {
		totalExecuted += c.Executed
		totalSuccess += c.Success
		totalFail += c.Fail
		totalError += c.Error
	}
	kv("executed", totalExecuted)
	kv("success", fmt.Sprintf("%s%d%s", ansiGreen, totalSuccess, ansiReset))
	kv("fail", fmt.Sprintf("%s%d%s", ansiYellow, totalFail, ansiReset))
	kv("error", fmt.Sprintf("%s%d%s", ansiRed, totalError, ansiReset))
	kv("sense reads", sink.SenseReads())
	fmt.Fprintln(w)

	kinds := make([]domain.NodeKind, 0, len(snapshot))
	for k := range snapshot {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	for _, kind := range kinds {
		c := snapshot[kind]
		title(fmt.Sprintf("=== %s ===", kind.String()))
		kv("executed", c.Executed)
		kv("success", c.Success)
		kv("in progress", c.InProgress)
		kv("fail", c.Fail)
		kv("error", c.Error)
		fmt.Fprintln(w)
	}
}
