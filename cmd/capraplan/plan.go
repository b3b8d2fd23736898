package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/the-emerald/capra/gas"
	"github.com/the-emerald/capra/internal/config"
	"github.com/the-emerald/capra/internal/logging"
	"github.com/the-emerald/capra/planner"
	"github.com/the-emerald/capra/segment"
	"github.com/the-emerald/capra/tissue"
	"github.com/the-emerald/capra/units"
	"github.com/the-emerald/capra/zhl16"
)

var planFile string

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Compute a decompression schedule from a plan file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlan(planFile)
	},
}

func init() {
	planCmd.Flags().StringVarP(&planFile, "file", "f", "plan.toml", "dive plan TOML file")
}

func runPlan(filename string) error {
	cfg, err := config.ReadFile(filename)
	if err != nil {
		return err
	}
	logging.Logger.WithField("file", filename).Info("loaded dive plan")

	env := buildEnvironment(cfg)
	variant := zhl16.ZHL16B
	if cfg.Variant == "C" {
		variant = zhl16.ZHL16C
	}
	engine := zhl16.New(tissue.Surfaced(env), variant, cfg.GFLow, cfg.GFHigh)

	bottom, err := buildBottomSegments(cfg)
	if err != nil {
		return err
	}
	decoGases, err := buildDecoGases(cfg)
	if err != nil {
		return err
	}

	params := planner.Params{
		Env:         env,
		AscentRate:  units.Rate(cfg.AscentRate),
		DescentRate: units.Rate(cfg.DescentRate),
		SACBottom:   cfg.SACBottom,
		SACDeco:     cfg.SACDeco,
	}

	p := planner.New(engine, bottom, decoGases, params)
	result, err := p.Execute()
	if err != nil {
		return fmt.Errorf("capraplan: %w", err)
	}

	printSchedule(result)
	logging.Logger.WithField("legs", len(result.Segments)).Info("plan complete")
	return nil
}

func buildEnvironment(cfg *config.PlanFile) units.Environment {
	density := units.SaltWater
	if cfg.WaterDensity == "fresh" {
		density = units.FreshWater
	}
	atm := cfg.Atmospheric
	if atm == 0 {
		atm = 1.0
	}
	return units.NewEnvironment(density, units.Pressure(atm))
}

func buildBottomSegments(cfg *config.PlanFile) ([]planner.BottomSegment, error) {
	out := make([]planner.BottomSegment, 0, len(cfg.Bottom))
	for _, b := range cfg.Bottom {
		g, err := gas.New(b.O2, b.He, b.N2)
		if err != nil {
			return nil, err
		}
		typ := segment.Bottom
		if b.Type == "nodeco" {
			typ = segment.NoDeco
		}
		seg, err := segment.New(typ, units.Depth(b.StartDepth), units.Depth(b.EndDepth), units.Duration(b.DurationSeconds), units.Rate(cfg.AscentRate), units.Rate(cfg.DescentRate))
		if err != nil {
			return nil, err
		}
		out = append(out, planner.BottomSegment{Segment: seg, Gas: g})
	}
	return out, nil
}

func buildDecoGases(cfg *config.PlanFile) ([]planner.DecoGas, error) {
	out := make([]planner.DecoGas, 0, len(cfg.Deco))
	for _, d := range cfg.Deco {
		g, err := gas.New(d.O2, d.He, d.N2)
		if err != nil {
			return nil, err
		}
		dg := planner.DecoGas{Gas: g}
		if d.MOD > 0 {
			mod := units.Depth(d.MOD)
			dg.MOD = &mod
		}
		out = append(out, dg)
	}
	return out, nil
}

func printSchedule(result planner.Result) {
	for _, leg := range result.Segments {
		fmt.Printf("%-8s %3d -> %3d m  %6.1f min  %s\n",
			leg.Segment.Type(), leg.Segment.Start(), leg.Segment.End(), leg.Segment.Duration().Minutes(), leg.Gas)
	}
	fmt.Println()
	for g, vol := range result.GasUsed {
		fmt.Printf("gas %s: %.1f L\n", g, vol)
	}
}
