// Package model resolves model-loading configurations from hardware facts.
//
// The resolver is a pure computation over an hw.Profile: an ordered ladder
// of precision tiers picks FP16, INT8, or INT4 from available GPU memory,
// falling back to Apple MPS and then CPU tiers. The only side effect is
// creating the disk-offload cache directory on low-memory machines.
//
// Components:
//   - Thresholds: The GPU memory boundaries of the ladder; the Standard
//     (r1-1776) and Strict (DeepSeek) sets both ship
//   - Resolver: Maps a profile to a LoadConfig
//   - Override: Field-scoped user overrides applied after resolution
//   - LoadConfig.Kwargs: Flat keyword map for the model loader
package model
