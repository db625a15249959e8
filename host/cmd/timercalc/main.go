// Command timercalc evaluates a board's timer plan before it is flashed: it
// prints the divider and compare value of every channel, can generate Go
// constants for the firmware and can run the plan on simulated registers to
// show the millisecond drift.
package main

import (
	"flag"
	"fmt"
	"os"

	"avrtimers/config"
	"avrtimers/host/logs"
	"avrtimers/host/plan"
)

var (
	planFile = flag.String("plan", "", "JSON plan file (default: the atmega328p demo)")
	genFile  = flag.String("gen", "", "Write Go constants to this file")
	genPkg   = flag.String("pkg", "board", "Package name for -gen")
	simulate = flag.Uint("simulate", 0, "Simulate the plan for this many seconds")
	verbose  = flag.Bool("verbose", false, "Enable verbose output")
)

func main() {
	flag.Parse()
	logger := logs.NewLogger("timercalc", *verbose)

	p := config.DefaultPlan()
	if *planFile != "" {
		data, err := os.ReadFile(*planFile)
		if err != nil {
			logger.WithError(err).Fatal("failed to read plan")
		}
		if p, err = config.Load(data); err != nil {
			logger.WithError(err).WithField("file", *planFile).Fatal("invalid plan")
		}
	}
	logger.WithField("plan", p.Name).Debugf("%d channels, CPU clock %d Hz", len(p.Channels), p.CPUClock)

	rows := plan.Evaluate(p)
	if err := plan.WriteTable(os.Stdout, rows); err != nil {
		logger.WithError(err).Fatal("failed to write table")
	}

	failed := false
	for _, r := range rows {
		if !r.OK() {
			logger.WithField("timer", r.Timer).Errorf("rate %d Hz unachievable", r.Requested)
			failed = true
		}
	}

	if *genFile != "" && !failed {
		if err := writeConstants(*genFile, *genPkg, p.Name, rows); err != nil {
			logger.WithError(err).Fatal("failed to generate constants")
		}
		logger.WithField("file", *genFile).Info("constants written")
	}

	if *simulate > 0 && !failed {
		results, err := plan.Simulate(p, uint32(*simulate))
		if err != nil {
			logger.WithError(err).Fatal("simulation failed")
		}
		fmt.Printf("\nAfter %d s:\n", *simulate)
		for _, res := range results {
			fmt.Printf("  T%d: %d interrupts, millis %d (%+d ms), task runs %v\n",
				res.Timer, res.Interrupts, res.Millis, res.DriftMs, res.TaskRuns)
			if res.Violations > 0 {
				logger.WithField("timer", res.Timer).Warnf("%d async register writes would be corrupted", res.Violations)
			}
		}
	}

	if failed {
		os.Exit(1)
	}
}

func writeConstants(path, pkg, name string, rows []plan.Row) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := plan.Generate(f, pkg, name, rows); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
