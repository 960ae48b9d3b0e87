package report

import (
	"fmt"
	"strings"

	"gowoa/internal/benchstats"
	"gowoa/internal/format"
)

// Markdown renders rows as a titled three-column table.
func Markdown(title string, rows []Row) string {
	var sb strings.Builder
	if title != "" {
		fmt.Fprintf(&sb, "# %s\n\n", title)
	}
	writeTable(&sb, Header, func(emit func(...string)) {
		for _, r := range rows {
			emit(r.Category, r.Parameter, r.Value)
		}
	})
	return sb.String()
}

// BenchmarkMarkdown renders a side-by-side report per function: the metric
// table, the run blocks of each variant and the significance verdict.
func BenchmarkMarkdown(stats []benchstats.FunctionStats, precision int) string {
	var sb strings.Builder
	sb.WriteString("# Benchmark Results\n\n")

	for _, fs := range stats {
		fmt.Fprintf(&sb, "## %s\n\n", fs.Name)

		woa := metricsOrNil(fs.WOA)
		ewoa := metricsOrNil(fs.EWOA)
		writeTable(&sb, []string{"Metric", "WOA", "EWOA"}, func(emit func(...string)) {
			for i, key := range []string{"best_mean", "best_std", "average_eer", "runtime_s", "convergence_rate_mean", "convergence_rate_std"} {
				emit(MetricName(key), cell(woa, i, precision), cell(ewoa, i, precision))
			}
		})

		for _, vs := range []*benchstats.VariantStats{fs.WOA, fs.EWOA} {
			if vs == nil || len(vs.Blocks) == 0 {
				continue
			}
			fmt.Fprintf(&sb, "### %s run blocks\n\n", strings.ToUpper(vs.Algorithm))
			writeTable(&sb, []string{"Runs", "Mean Best Fitness", "Std Dev (Fitness)"}, func(emit func(...string)) {
				for _, blk := range vs.Blocks {
					emit(fmt.Sprintf("%d-%d", blk.Start, blk.End),
						format.Metric(blk.Mean, blk.Defined, precision),
						format.Metric(blk.Std, blk.Defined, precision))
				}
			})
		}

		if fs.Test != nil {
			fmt.Fprintf(&sb, "**Wilcoxon signed-rank:** p = %s (n = %d) · %s\n\n",
				format.Float(fs.Test.PValue, PValuePrecision), fs.Test.N, fs.Significance)
		}
		for _, w := range fs.Warnings {
			fmt.Fprintf(&sb, "> %s\n\n", escapeCell(w))
		}
	}
	return sb.String()
}

func metricsOrNil(vs *benchstats.VariantStats) []NamedMetric {
	if vs == nil {
		return nil
	}
	return VariantMetrics(vs)
}

func cell(metrics []NamedMetric, i, precision int) string {
	if metrics == nil {
		return format.Absent
	}
	return metrics[i].Format(precision)
}

func writeTable(sb *strings.Builder, header []string, body func(emit func(...string))) {
	line := func(cells ...string) {
		for i := range cells {
			cells[i] = escapeCell(cells[i])
		}
		sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	line(append([]string(nil), header...)...)
	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	sb.WriteString("| " + strings.Join(sep, " | ") + " |\n")
	body(line)
	sb.WriteString("\n")
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
