//go:build linux

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/ja7ad/proctab/pkg/proctab"
	"github.com/ja7ad/proctab/pkg/types"
)

type memoryView struct {
	Total     types.Bytes `json:"total_bytes"`
	Used      types.Bytes `json:"used_bytes"`
	Free      types.Bytes `json:"free_bytes"`
	Cached    types.Bytes `json:"cached_bytes"`
	Buffers   types.Bytes `json:"buffers_bytes"`
	SwapTotal types.Bytes `json:"swap_total_bytes"`
	SwapUsed  types.Bytes `json:"swap_used_bytes"`
}

type cycleView struct {
	Cycle     int                `json:"cycle"`
	CPUs      int                `json:"cpus"`
	Totals    proctab.Totals     `json:"totals"`
	Memory    memoryView         `json:"memory"`
	Processes []*proctab.Process `json:"processes"`
}

func newCycleView(cycle int, tbl *proctab.Table, all bool) cycleView {
	m := tbl.Memory()
	v := cycleView{
		Cycle:  cycle,
		CPUs:   tbl.ProcessorCount(),
		Totals: tbl.Totals(),
		Memory: memoryView{
			Total:     types.FromKB(m.TotalKB),
			Used:      types.FromKB(m.UsedKB),
			Free:      types.FromKB(m.FreeKB),
			Cached:    types.FromKB(m.CachedKB),
			Buffers:   types.FromKB(m.BuffersKB),
			SwapTotal: types.FromKB(m.TotalSwapKB),
			SwapUsed:  types.FromKB(m.UsedSwapKB),
		},
		Processes: []*proctab.Process{},
	}
	tbl.ForEach(func(p *proctab.Process) bool {
		if all || p.Show {
			v.Processes = append(v.Processes, p)
		}
		return true
	})
	return v
}

func render(w io.Writer, cfg config, cycle int, tbl *proctab.Table) error {
	v := newCycleView(cycle, tbl, cfg.ShowAll)
	if cfg.Format == formatJSON {
		return json.NewEncoder(w).Encode(v)
	}
	return renderTable(w, v, tbl.PageSizeKB())
}

func renderTable(w io.Writer, v cycleView, pageKB uint64) error {
	fmt.Fprintf(w, "Tasks: %d, %d kthr; %d running\n", v.Totals.Tasks, v.Totals.KernelThreads, v.Totals.Running)
	fmt.Fprintf(w, "Mem: %s / %s   Swp: %s / %s\n\n",
		v.Memory.Used.Humanized(), v.Memory.Total.Humanized(),
		v.Memory.SwapUsed.Humanized(), v.Memory.SwapTotal.Humanized())

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PID\tUSER\tPRI\tNI\tVIRT\tRES\tS\tCPU%\tMEM%\tTIME+\tSTART\tCommand")
	for _, p := range v.Processes {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%s\t%s\t%s\t%.1f\t%.1f\t%s\t%s\t%s\n",
			p.PID, p.User, p.Priority, p.Nice,
			types.FromPages(p.VSize, pageKB).Humanized(),
			types.FromPages(p.RSS, pageKB).Humanized(),
			p.State, p.CPUPercent, p.MemPercent,
			formatTime(p.Time), p.StartTimeText, p.Comm)
	}
	return tw.Flush()
}

// formatTime renders hundredths of a second as M:SS.hh.
func formatTime(cs uint64) string {
	return fmt.Sprintf("%d:%02d.%02d", cs/6000, (cs/100)%60, cs%100)
}
