package model

import (
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/seleniumqt/workbench/internal/hw"
	"github.com/seleniumqt/workbench/internal/logging"
)

// DeviceMap selects where model weights are placed.
type DeviceMap string

const (
	DeviceAuto DeviceMap = "auto"
	DeviceCPU  DeviceMap = "cpu"
	DeviceMPS  DeviceMap = "mps"
)

// Precision is the weight representation loaded into memory. Exactly one
// precision is active in any resolved configuration.
type Precision string

const (
	PrecisionFP16 Precision = "fp16"
	PrecisionINT8 Precision = "int8"
	PrecisionINT4 Precision = "int4"
)

// Tier names the bucket a machine landed in. Tiers exist for logging and
// the CLI report; TierGPUHigh and TierGPUMid resolve to the same
// configuration.
type Tier string

const (
	TierGPUHigh    Tier = "gpu-high"
	TierGPUMid     Tier = "gpu-mid"
	TierGPULow     Tier = "gpu-low"
	TierGPUMin     Tier = "gpu-min"
	TierAppleMPS   Tier = "apple-mps"
	TierCPU        Tier = "cpu"
	TierCPUOffload Tier = "cpu-offload"
)

// quantNF4 is the 4-bit quantization scheme used for every INT4 tier.
const quantNF4 = "nf4"

// Thresholds are the GPU memory boundaries of the precision ladder, in
// GiB, each closed on the lower bound.
//
// Two sets ship and are deliberately not unified: the r1-1776 loader
// considers 24GB high-end while the DeepSeek loader demands 48GB for the
// same treatment. The discrepancy is inherited from the model scripts and
// kept until the owners reconcile them.
type Thresholds struct {
	Name   string
	HighGB float64
	MidGB  float64
	Int8GB float64
	Int4GB float64
}

var (
	// Standard is the r1-1776 ladder: FP16 from 24GB, INT8 from 8GB,
	// INT4 from 4GB. A CUDA GPU below 4GB falls through to the RAM tiers.
	Standard = Thresholds{Name: "standard", HighGB: 24, MidGB: 12, Int8GB: 8, Int4GB: 4}

	// Strict is the DeepSeek ladder: FP16 from 48GB, INT8 from 12GB, and
	// any CUDA GPU below that still gets INT4 rather than falling through.
	Strict = Thresholds{Name: "strict", HighGB: 48, MidGB: 24, Int8GB: 12, Int4GB: 0}
)

// ThresholdsByName maps a configuration string to a threshold set.
func ThresholdsByName(name string) (Thresholds, error) {
	switch name {
	case Standard.Name:
		return Standard, nil
	case Strict.Name:
		return Strict, nil
	}
	return Thresholds{}, fmt.Errorf("unknown threshold set %q", name)
}

// LoadConfig is the resolved model-loading configuration handed to the
// loader as flat keyword arguments via Kwargs.
type LoadConfig struct {
	Tier           Tier              `json:"tier"`
	DeviceMap      DeviceMap         `json:"device_map"`
	Precision      Precision         `json:"precision"`
	ComputeDtype   string            `json:"compute_dtype,omitempty"`
	QuantType      string            `json:"quant_type,omitempty"`
	MaxMemory      map[string]string `json:"max_memory,omitempty"`
	OffloadFolder  string            `json:"offload_folder,omitempty"`
	LowCPUMemUsage bool              `json:"low_cpu_mem_usage"`
}

// ConfigError reports a malformed hardware profile. It is a programming
// error in the caller, not a runtime condition to recover from.
type ConfigError struct {
	Field string
	Value float64
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid hardware profile: %s = %v", e.Field, e.Value)
}

// Resolver maps hardware profiles to load configurations using a fixed
// threshold set.
type Resolver struct {
	thresholds Thresholds
	offloadDir string
	log        *logging.Logger
}

// NewResolver creates a resolver. offloadDir is the cache path attached
// to low-resource CPU configurations; it is created on demand.
func NewResolver(t Thresholds, offloadDir string, log *logging.Logger) *Resolver {
	return &Resolver{
		thresholds: t,
		offloadDir: offloadDir,
		log:        log,
	}
}

// Resolve maps a profile to a configuration. The decision ladder is
// ordered and first match wins; the multi-GPU memory budget is attached
// afterwards whichever tier matched.
func (r *Resolver) Resolve(p *hw.Profile) (*LoadConfig, error) {
	if err := validate(p); err != nil {
		return nil, err
	}

	t := r.thresholds
	cfg := &LoadConfig{
		DeviceMap:      DeviceAuto,
		Precision:      PrecisionFP16,
		LowCPUMemUsage: true,
	}

	switch {
	case p.HasCUDA && p.GPUMemoryGB >= t.HighGB:
		cfg.Tier = TierGPUHigh
		r.log.Info("high-end GPU detected, using full precision FP16",
			zap.Float64("gpu_memory_gb", p.GPUMemoryGB))

	case p.HasCUDA && p.GPUMemoryGB >= t.MidGB:
		cfg.Tier = TierGPUMid
		r.log.Info("mid-range GPU detected, using FP16 with optimized memory usage",
			zap.Float64("gpu_memory_gb", p.GPUMemoryGB))

	case p.HasCUDA && p.GPUMemoryGB >= t.Int8GB:
		cfg.Tier = TierGPULow
		cfg.Precision = PrecisionINT8
		r.log.Info("low-end GPU detected, using 8-bit quantization",
			zap.Float64("gpu_memory_gb", p.GPUMemoryGB))

	case p.HasCUDA && p.GPUMemoryGB >= t.Int4GB:
		cfg.Tier = TierGPUMin
		quantize4Bit(cfg)
		r.log.Info("very low-end GPU detected, using 4-bit quantization",
			zap.Float64("gpu_memory_gb", p.GPUMemoryGB))

	case p.HasMPS:
		cfg.Tier = TierAppleMPS
		cfg.DeviceMap = DeviceMPS
		quantize4Bit(cfg)
		r.log.Info("Apple Silicon detected, using MPS device with 4-bit quantization")

	case p.RAMTotalGB >= 16:
		cfg.Tier = TierCPU
		cfg.DeviceMap = DeviceCPU
		quantize4Bit(cfg)
		r.log.Info("no GPU detected but sufficient RAM, using CPU with 4-bit quantization",
			zap.Float64("ram_total_gb", p.RAMTotalGB))

	default:
		cfg.Tier = TierCPUOffload
		cfg.DeviceMap = DeviceCPU
		quantize4Bit(cfg)
		cfg.OffloadFolder = r.offloadDir
		r.log.Warn("low-resource system detected, enabling disk offload",
			zap.Float64("ram_total_gb", p.RAMTotalGB),
			zap.String("offload_folder", r.offloadDir))
		if err := os.MkdirAll(r.offloadDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create offload folder: %w", err)
		}
	}

	if p.HasCUDA && p.GPUCount > 1 {
		cfg.MaxMemory = memoryBudget(p)
		r.log.Info("multi-GPU setup detected, optimizing memory allocation",
			zap.Int("gpu_count", p.GPUCount))
	}

	return cfg, nil
}

// Override carries caller-supplied fields applied after resolution.
// Explicit user flags beat auto-detection field by field; the result is
// not validated for internal consistency.
type Override struct {
	DeviceMap     *DeviceMap
	Precision     *Precision
	QuantType     *string
	OffloadFolder *string
	MaxMemory     map[string]string
}

// Apply overwrites the configuration with every override field that is set.
func (c *LoadConfig) Apply(o Override) {
	if o.DeviceMap != nil {
		c.DeviceMap = *o.DeviceMap
	}
	if o.Precision != nil {
		c.Precision = *o.Precision
	}
	if o.QuantType != nil {
		c.QuantType = *o.QuantType
	}
	if o.OffloadFolder != nil {
		c.OffloadFolder = *o.OffloadFolder
	}
	if o.MaxMemory != nil {
		c.MaxMemory = o.MaxMemory
	}
}

// Kwargs flattens the configuration into the keyword map the model loader
// consumes. The offload folder is managed by the caller and excluded.
func (c *LoadConfig) Kwargs() map[string]interface{} {
	kw := map[string]interface{}{
		"device_map":        string(c.DeviceMap),
		"torch_dtype":       "float16",
		"low_cpu_mem_usage": c.LowCPUMemUsage,
	}
	switch c.Precision {
	case PrecisionINT8:
		kw["load_in_8bit"] = true
	case PrecisionINT4:
		kw["load_in_4bit"] = true
		kw["bnb_4bit_compute_dtype"] = c.ComputeDtype
		kw["bnb_4bit_quant_type"] = c.QuantType
	}
	if c.MaxMemory != nil {
		kw["max_memory"] = c.MaxMemory
	}
	return kw
}

// memoryBudget allocates 90% of each GPU's memory, floored to whole GiB,
// plus half of the available RAM as a CPU reservation.
func memoryBudget(p *hw.Profile) map[string]string {
	budget := make(map[string]string, len(p.GPUs)+1)
	for _, g := range p.GPUs {
		budget[strconv.Itoa(g.Index)] = fmt.Sprintf("%dGiB", int(g.MemoryGB*0.9))
	}
	budget["cpu"] = fmt.Sprintf("%dGiB", int(p.RAMAvailableGB*0.5))
	return budget
}

func quantize4Bit(cfg *LoadConfig) {
	cfg.Precision = PrecisionINT4
	cfg.ComputeDtype = "float16"
	cfg.QuantType = quantNF4
}

func validate(p *hw.Profile) error {
	switch {
	case p.GPUCount < 0:
		return &ConfigError{Field: "gpu_count", Value: float64(p.GPUCount)}
	case p.GPUMemoryGB < 0:
		return &ConfigError{Field: "gpu_memory_gb", Value: p.GPUMemoryGB}
	case p.RAMTotalGB < 0:
		return &ConfigError{Field: "ram_total_gb", Value: p.RAMTotalGB}
	case p.RAMAvailableGB < 0:
		return &ConfigError{Field: "ram_available_gb", Value: p.RAMAvailableGB}
	}
	return nil
}
