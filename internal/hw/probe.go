package hw

import (
	"context"
	"math"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

const gib = 1024 * 1024 * 1024

// GPU describes one CUDA device.
type GPU struct {
	Index    int     `json:"index"`
	Name     string  `json:"name"`
	MemoryGB float64 `json:"memory_gb"`
}

// Profile is a snapshot of the machine's capabilities, produced fresh on
// each probe and never persisted.
type Profile struct {
	OS             string  `json:"os"`
	CPUCount       int     `json:"cpu_count"`
	CPUThreads     int     `json:"cpu_threads"`
	RAMTotalGB     float64 `json:"ram_total_gb"`
	RAMAvailableGB float64 `json:"ram_available_gb"`
	HasCUDA        bool    `json:"has_cuda"`
	HasMPS         bool    `json:"has_mps"`
	GPUCount       int     `json:"gpu_count"`
	GPUs           []GPU   `json:"gpu_info,omitempty"`
	GPUMemoryGB    float64 `json:"gpu_memory_gb"`
}

// Probe gathers system facts: RAM from the OS, CUDA devices from
// nvidia-smi, the Apple accelerator from the build target.
func Probe(ctx context.Context) (*Profile, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, err
	}

	p := &Profile{
		OS:             runtime.GOOS,
		RAMTotalGB:     round2(float64(vm.Total) / gib),
		RAMAvailableGB: round2(float64(vm.Available) / gib),
	}

	if n, err := cpu.CountsWithContext(ctx, false); err == nil {
		p.CPUCount = n
	}
	if n, err := cpu.CountsWithContext(ctx, true); err == nil {
		p.CPUThreads = n
	}

	if gpus := cudaDevices(ctx); len(gpus) > 0 {
		p.HasCUDA = true
		p.GPUCount = len(gpus)
		p.GPUs = gpus
		for _, g := range gpus {
			p.GPUMemoryGB += g.MemoryGB
		}
		p.GPUMemoryGB = round2(p.GPUMemoryGB)
	} else if runtime.GOOS == "darwin" && runtime.GOARCH == "arm64" {
		// Apple Silicon shares memory between CPU and GPU; no per-device
		// figure exists, so only the accelerator flag is reported.
		p.HasMPS = true
		p.GPUCount = 1
		p.GPUs = []GPU{{Index: 0, Name: "Apple Silicon"}}
	}

	return p, nil
}

// cudaDevices lists CUDA GPUs by querying nvidia-smi. Any failure, the
// binary being absent included, means no usable CUDA devices.
func cudaDevices(ctx context.Context) []GPU {
	out, err := exec.CommandContext(ctx,
		"nvidia-smi",
		"--query-gpu=index,name,memory.total",
		"--format=csv,noheader,nounits",
	).Output()
	if err != nil {
		return nil
	}
	return parseSMI(string(out))
}

// parseSMI parses nvidia-smi CSV lines of the form "0, NVIDIA A100, 40960"
// with memory reported in MiB.
func parseSMI(out string) []GPU {
	var gpus []GPU
	for _, line := range strings.Split(out, "\n") {
		fields := strings.SplitN(strings.TrimSpace(line), ",", 3)
		if len(fields) != 3 {
			continue
		}
		index, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		if err != nil {
			continue
		}
		memMiB, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
		if err != nil {
			continue
		}
		gpus = append(gpus, GPU{
			Index:    index,
			Name:     strings.TrimSpace(fields[1]),
			MemoryGB: round2(memMiB / 1024),
		})
	}
	return gpus
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
