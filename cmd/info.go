package cmd

import (
	"bytes"
	"fmt"
	"runtime"

	"github.com/df07/go-raydiance/pkg/renderer"
	"github.com/olekukonko/tablewriter"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
	"github.com/urfave/cli"
)

// Display the host resources available to the worker pool.
func SystemInfo(ctx *cli.Context) error {
	setupLogging(ctx)

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Resource", "Value"})

	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		table.Append([]string{"CPU model", infos[0].ModelName})
		table.Append([]string{"CPU clock", fmt.Sprintf("%.0f MHz", infos[0].Mhz)})
	} else {
		logger.Warningf("cpu info unavailable: %v", err)
	}
	if logical, err := cpu.Counts(true); err == nil {
		table.Append([]string{"Logical cores", fmt.Sprintf("%d", logical)})
	}
	table.Append([]string{"Default workers", fmt.Sprintf("%d", renderer.DefaultWorkerCount())})
	table.Append([]string{"GOMAXPROCS", fmt.Sprintf("%d", runtime.GOMAXPROCS(0))})

	if vm, err := mem.VirtualMemory(); err == nil {
		table.Append([]string{"Memory total", formatBytes(vm.Total)})
		table.Append([]string{"Memory available", formatBytes(vm.Available)})
	} else {
		logger.Warningf("memory info unavailable: %v", err)
	}

	table.Render()
	logger.Noticef("system information\n%s", buf.String())
	return nil
}

// formatBytes renders a byte count with a binary unit
func formatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
