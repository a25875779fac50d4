package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/seleniumqt/workbench/internal/config"
	"github.com/seleniumqt/workbench/internal/hw"
	"github.com/seleniumqt/workbench/internal/logging"
	"github.com/seleniumqt/workbench/internal/model"
)

func hwinfoCmd() *cobra.Command {
	var thresholds, device, precision string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "hwinfo",
		Short: "Probe the machine and print the recommended model configuration",
		Long: `Probes CPU, RAM, and accelerators, then prints the model-loading
configuration the resolver would pick for this machine. Flags override
individual fields of the auto-detected result.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadOrDefault()
			if thresholds == "" {
				thresholds = cfg.Model.Thresholds
			}
			t, err := model.ThresholdsByName(thresholds)
			if err != nil {
				return err
			}

			profile, err := hw.Probe(cmd.Context())
			if err != nil {
				return fmt.Errorf("hardware probe failed: %w", err)
			}

			resolver := model.NewResolver(t, cfg.Model.OffloadDir, logging.NewNop())
			loadCfg, err := resolver.Resolve(profile)
			if err != nil {
				return err
			}

			var override model.Override
			if device != "" {
				d := model.DeviceMap(device)
				override.DeviceMap = &d
			}
			if precision != "" {
				p := model.Precision(precision)
				override.Precision = &p
			}
			loadCfg.Apply(override)

			if asJSON {
				out := struct {
					Profile *hw.Profile       `json:"profile"`
					Config  *model.LoadConfig `json:"config"`
				}{profile, loadCfg}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}

			printProfile(cmd, profile)
			printConfig(cmd, loadCfg, t)
			return nil
		},
	}

	cmd.Flags().StringVar(&thresholds, "thresholds", "", "Threshold set (standard/strict)")
	cmd.Flags().StringVar(&device, "device", "", "Force device map (auto/cpu/mps)")
	cmd.Flags().StringVar(&precision, "precision", "", "Force precision (fp16/int8/int4)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")

	return cmd
}

func printProfile(cmd *cobra.Command, p *hw.Profile) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, header("System"))
	fmt.Fprintln(out, field("os", p.OS))
	fmt.Fprintln(out, field("cpu cores", fmt.Sprintf("%d (%d threads)", p.CPUCount, p.CPUThreads)))
	fmt.Fprintln(out, field("ram", fmt.Sprintf("%.2fGB total, %.2fGB available", p.RAMTotalGB, p.RAMAvailableGB)))
	fmt.Fprintln(out, field("cuda", strconv.FormatBool(p.HasCUDA)))
	fmt.Fprintln(out, field("mps", strconv.FormatBool(p.HasMPS)))
	for _, g := range p.GPUs {
		fmt.Fprintln(out, field(fmt.Sprintf("gpu %d", g.Index), fmt.Sprintf("%s (%.2fGB)", g.Name, g.MemoryGB)))
	}
}

func printConfig(cmd *cobra.Command, c *model.LoadConfig, t model.Thresholds) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, header("Recommended configuration ("+t.Name+" thresholds)"))
	fmt.Fprintln(out, field("tier", string(c.Tier)))
	fmt.Fprintln(out, field("device_map", string(c.DeviceMap)))
	fmt.Fprintln(out, field("precision", string(c.Precision)))
	if c.QuantType != "" {
		fmt.Fprintln(out, field("quant_type", c.QuantType))
	}
	for dev, budget := range c.MaxMemory {
		fmt.Fprintln(out, field("max_memory["+dev+"]", budget))
	}
	if c.OffloadFolder != "" {
		fmt.Fprintln(out, styleWarn.Render("  low-resource system: weights will be paged to "+c.OffloadFolder))
	}
}
