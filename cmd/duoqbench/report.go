// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// SystemInfo holds system information.
type SystemInfo struct {
	NumCPU      int     `json:"num_cpu"`
	GOMAXPROCS  int     `json:"gomaxprocs"`
	CPUModel    string  `json:"cpu_model,omitempty"`
	CPUSpeedMHz float64 `json:"cpu_speed_mhz,omitempty"`
	GOARCH      string  `json:"go_arch"`
	GoVersion   string  `json:"go_version"`
	TotalMemory uint64  `json:"total_memory_bytes,omitempty"`
}

// Report is what the CLI prints.
type Report struct {
	SessionTime string     `json:"session_time"`
	SystemInfo  SystemInfo `json:"system_info"`
	Result      Result     `json:"result"`
}

// gatherSystemInfo collects what gopsutil can report. Missing values are
// left empty.
func gatherSystemInfo() SystemInfo {
	info := SystemInfo{
		NumCPU:     runtime.NumCPU(),
		GOMAXPROCS: runtime.GOMAXPROCS(0),
		GOARCH:     runtime.GOARCH,
		GoVersion:  runtime.Version(),
	}
	if stats, err := cpu.Info(); err == nil && len(stats) > 0 {
		info.CPUModel = stats[0].ModelName
		info.CPUSpeedMHz = stats[0].Mhz
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		info.TotalMemory = vm.Total
	}
	return info
}

func newReport(res Result, info SystemInfo) Report {
	return Report{
		SessionTime: time.Now().Format(time.RFC3339),
		SystemInfo:  info,
		Result:      res,
	}
}

func writeJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func writeText(w io.Writer, r Report) error {
	res, cfg := r.Result, r.Result.Config
	si := r.SystemInfo
	_, err := fmt.Fprintf(w, `duoqbench %s
system:     %s, %d CPU (GOMAXPROCS %d), %s %s
queue:      %s, maxsize %d
workers:    %d/%d thread producers/consumers, %d/%d task producers/consumers
elapsed:    %v
produced:   thread %d, task %d
consumed:   thread %d, task %d
wakeups:    thread->task %d, task->thread %d, task->task %d
dropped:    thread->task %d, task->thread %d
throughput: %.0f msgs/sec
`,
		r.SessionTime,
		orUnknown(si.CPUModel), si.NumCPU, si.GOMAXPROCS, si.GOARCH, si.GoVersion,
		cfg.Order, cfg.Maxsize,
		cfg.ThreadProducers, cfg.ThreadConsumers, cfg.TaskProducers, cfg.TaskConsumers,
		res.Elapsed.Round(time.Millisecond),
		res.Produced[0], res.Produced[1],
		res.Consumed[0], res.Consumed[1],
		res.Notify[0][1], res.Notify[1][0], res.Notify[1][1],
		res.Drops[0][1], res.Drops[1][0],
		res.Throughput,
	)
	return err
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown cpu"
	}
	return s
}
