package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/pkg/errors"

	"hugs/config"
	"hugs/core"
	"hugs/sim"
)

var (
	configPath = flag.String("config", "", "YAML config with a scenario section (defaults plus HUGS_* env if empty)")
	verbose    = flag.Bool("verbose", false, "Print supervisor debug output")
	standalone = flag.Bool("standalone", false, "Run a master without a slave on the inter-unit link")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	core.SetDebugWriter(func(s string) { log.Println(s) })
	core.SetDebugEnabled(*verbose)

	if err := run(cfg); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(cfg *config.Config) error {
	cc, err := cfg.Core()
	if err != nil {
		return err
	}

	script, err := buildScript(cfg.Scenario)
	if err != nil {
		return err
	}

	var peer *sim.Board
	var wire *sim.Wire
	if cc.Variant == core.Master && !*standalone {
		slaveCfg := cc
		slaveCfg.Variant = core.Slave
		peer, err = sim.NewBoard(slaveCfg, cfg.Scenario.BatteryVolts, nil)
		if err != nil {
			return errors.Wrap(err, "slave board")
		}
		wire = &sim.Wire{Peer: peer}
	}

	b, err := sim.NewBoard(cc, cfg.Scenario.BatteryVolts, wire)
	if err != nil {
		return errors.Wrapf(err, "%s board", cc.Variant)
	}
	if cfg.Scenario.ConversionNs != 0 {
		b.H.SetConversionTime(cfg.Scenario.ConversionNs)
	}

	if err := b.FG.Boot(); err != nil {
		return errors.Wrap(err, "boot")
	}

	fmt.Printf("Running %s for %d ms on a %.1f V pack (%d scripted frames)\n",
		cc.Variant, cfg.Scenario.DurationMs, cfg.Scenario.BatteryVolts, len(script))

	res := b.Run(script, cfg.Scenario.DurationMs, peer)

	fmt.Printf("elapsed=%dms iterations=%d delivered=%d shutdown=%s\n",
		res.ElapsedMs, res.Iterations, res.Delivered, res.Shutdown)
	printBoard(cc.Variant.String(), b)
	if peer != nil {
		fmt.Printf("wire frames=%d\n", wire.Frames)
		printBoard("slave", peer)
	}

	core.SetDebugEnabled(true)
	core.DumpTimingRing()
	return nil
}

func buildScript(sc config.Scenario) ([]sim.Timed, error) {
	script := make([]sim.Timed, 0, len(sc.Frames))
	for i, e := range sc.Frames {
		raw, err := e.Encode()
		if err != nil {
			return nil, errors.Wrapf(err, "scenario frame %d", i)
		}
		v := core.VectorSteerLink
		if e.Link == config.LinkInterUnit {
			v = core.VectorInterUnitLink
		}
		script = append(script, sim.Timed{AtMs: e.AtMs, Vector: v, Frame: raw})
	}
	return script, nil
}

func printBoard(name string, b *sim.Board) {
	snap := b.State.Snapshot()
	fmt.Printf("[%s] speed=%d timed_out=%v aux_on=%v commutations=%d overruns=%d watchdog_reloads=%d\n",
		name, snap.Speed, snap.TimedOut, snap.AuxOn,
		b.Motor.Commutations, b.H.Overruns(), b.Watchdog.Reloads)
}
