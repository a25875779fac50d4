// Package hw probes the machine the backend runs on.
//
// A Profile is a point-in-time snapshot of CPU, RAM, and accelerator
// facts. It is consumed by the model package's tier resolver and printed
// by the CLI; it is never persisted.
//
// Detection:
//   - RAM and CPU counts via gopsutil
//   - CUDA devices via nvidia-smi (absence of the binary means no CUDA)
//   - Apple accelerator via the darwin/arm64 build target
package hw
