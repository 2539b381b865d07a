// Command ndca runs a cellular automaton from the rule registry on the
// unbounded HashLife grid and prints its state to the terminal.
package main

import (
	"flag"
	"fmt"
	"log"
	"runtime"
	"strings"
	"time"

	"ndca/pkg/automaton"
	"ndca/pkg/geom"
	"ndca/pkg/rule"
	_ "ndca/pkg/rules/briansbrain"
	_ "ndca/pkg/rules/life"
	_ "ndca/pkg/rules/wolfram"
)

// config represents the command-line parameters for the runner.
type config struct {
	Rule    string
	Opts    string
	Dims    int
	Steps   uint64
	Seed    int64
	Size    int
	Density float64
	Animate bool
	TPS     int
	Quiet   bool
}

// newConfig returns a config populated with sensible defaults.
func newConfig() *config {
	return &config{
		Rule:    "life",
		Steps:   64,
		Seed:    42,
		Size:    48,
		Density: 0.35,
		TPS:     10,
	}
}

// bind attaches the configuration to the provided FlagSet.
func (c *config) bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Rule, "rule", c.Rule, "rule to run")
	fs.StringVar(&c.Opts, "opts", c.Opts, "rule options as k=v,k=v")
	fs.IntVar(&c.Dims, "dims", c.Dims, "grid dimensionality (0: use the rule's)")
	fs.Uint64Var(&c.Steps, "steps", c.Steps, "generations to advance")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for the random soup")
	fs.IntVar(&c.Size, "size", c.Size, "soup extent per axis")
	fs.Float64Var(&c.Density, "density", c.Density, "soup fill density")
	fs.BoolVar(&c.Animate, "animate", c.Animate, "step one generation per tick and redraw")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second in animate mode")
	fs.BoolVar(&c.Quiet, "quiet", c.Quiet, "print summary only, no grid")
}

func parseOpts(s string) map[string]string {
	if s == "" {
		return nil
	}
	opts := map[string]string{}
	for _, pair := range strings.Split(s, ",") {
		k, v, ok := strings.Cut(pair, "=")
		if ok {
			opts[k] = v
		}
	}
	return opts
}

func main() {
	cfg := newConfig()
	cfg.bind(flag.CommandLine)
	flag.Parse()

	factory, ok := rule.Rules()[cfg.Rule]
	if !ok {
		log.Fatalf("unknown rule %q", cfg.Rule)
	}
	r := factory(parseOpts(cfg.Opts))

	a, err := automaton.New(r, automaton.Config{
		Dims:        cfg.Dims,
		Parallelism: runtime.NumCPU(),
	})
	if err != nil {
		log.Fatal(err)
	}
	if err := seedSoup(a, cfg); err != nil {
		log.Fatal(err)
	}

	if cfg.Animate {
		animate(a, cfg)
		return
	}

	start := time.Now()
	if err := a.StepN(cfg.Steps); err != nil {
		log.Fatal(err)
	}
	elapsed := time.Since(start)
	if !cfg.Quiet {
		render(a)
	}
	log.Printf("rule=%s gens=%v pop=%v nodes=%d elapsed=%v",
		r.Name(), a.Generation(), a.Population(), a.Pool().Size(), elapsed)
}

func seedSoup(a *automaton.Automaton, cfg *config) error {
	rng := rule.NewRNG(cfg.Seed)
	soup := geom.NewRect(
		geom.UniformVec(a.Dims(), 0),
		geom.UniformVec(a.Dims(), cfg.Size-1),
	)
	for pos := range soup.Span() {
		if rng.Source().Float64() >= cfg.Density {
			continue
		}
		state := rng.StateN(a.Rule().States()-1) + 1
		if err := a.SetCell(pos.ToBig(), state); err != nil {
			return err
		}
	}
	return nil
}

func animate(a *automaton.Automaton, cfg *config) {
	pacer := newFixedStep(cfg.TPS)
	for g := uint64(0); g < cfg.Steps; {
		if !pacer.shouldStep() {
			time.Sleep(time.Millisecond)
			continue
		}
		if err := a.StepN(1); err != nil {
			log.Fatal(err)
		}
		g++
		if !cfg.Quiet {
			fmt.Print("\033[H\033[2J")
			render(a)
		}
		log.Printf("gen=%v pop=%v", a.Generation(), a.Population())
		a.Collect()
	}
}

// render prints a 2D slice of the grid. One-dimensional grids print a
// single row; higher dimensions fall back to the summary line.
func render(a *automaton.Automaton) {
	bounds, ok := a.BoundingRect()
	if !ok {
		fmt.Println("(empty)")
		return
	}
	if a.Dims() > 2 {
		fmt.Printf("bounds=%v\n", bounds)
		return
	}
	view, err := bounds.ToRect()
	if err != nil {
		fmt.Printf("bounds=%v (too large to draw)\n", bounds)
		return
	}

	glyphs := []byte(".#23456789")
	var row strings.Builder
	last := view.Min[0]
	for pos := range view.Span() {
		if a.Dims() > 1 && pos[0] != last {
			fmt.Println(row.String())
			row.Reset()
			last = pos[0]
		}
		state, err := a.GetCell(pos.ToBig())
		if err != nil {
			log.Fatal(err)
		}
		g := byte('?')
		if int(state) < len(glyphs) {
			g = glyphs[state]
		}
		row.WriteByte(g)
	}
	fmt.Println(row.String())
}
