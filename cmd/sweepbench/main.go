// Headless run of the demo world, printing overlap and trace counts
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"tracesweep/internal/tracing"
	"tracesweep/internal/world"
)

func main() {
	defaults := world.DefaultDemoOptions()
	frames := flag.Int("frames", 600, "frames to simulate")
	dt := flag.Float64("dt", 1.0/60, "seconds per frame")
	targets := flag.Int("targets", defaults.Targets, "number of targets on the ring")
	rate := flag.Float64("rate", float64(defaults.TracesPerSecond), "trace passes per second (0 = every frame)")
	sync := flag.Bool("sync", false, "run traces synchronously")
	noEnd := flag.Bool("no-end", false, "disable end overlap events")
	seed := flag.Int64("seed", defaults.Seed, "random seed for target motion")
	workers := flag.Int("workers", 0, "async trace workers (0 = GOMAXPROCS)")
	timeout := flag.Duration("timeout", 0, "stop after this long (0 = no limit)")
	flag.Parse()

	opts := defaults
	opts.Targets = *targets
	opts.TracesPerSecond = float32(*rate)
	opts.GenerateEndOverlap = !*noEnd
	opts.Seed = *seed
	if *sync {
		opts.Execution = tracing.ExecutionSync
	}

	demo, err := world.BuildDemo(opts)
	if err != nil {
		log.Fatalf("sweepbench: %v", err)
	}
	if *workers > 0 {
		demo.World.Physics.Workers = *workers
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	start := time.Now()
	ran := 0
	for ; ran < *frames; ran++ {
		if err := demo.Step(ctx, float32(*dt)); err != nil {
			log.Printf("sweepbench: stopped: %v", err)
			break
		}
	}
	elapsed := time.Since(start)

	stats := demo.World.Physics.Stats()
	fmt.Printf("%d frames in %v (%v/frame)\n", ran, elapsed.Round(time.Microsecond), perFrame(elapsed, ran))
	fmt.Printf("traces: %d sync, %d async in %d batches, %d rejected\n",
		stats.SyncTraces, stats.AsyncTraces, stats.Batches, stats.Rejected)
	fmt.Printf("overlaps: %d begins, %d ends, %d target hits\n", demo.Begins, demo.Ends, demo.Hits())
	for _, t := range demo.World.Tracers() {
		fmt.Printf("  %-8s %-40s %4d passes, %d overlapping\n",
			t.GetGameObject().Name, t.Config(), t.Passes(), len(t.Overlapping()))
	}
}

func perFrame(elapsed time.Duration, frames int) time.Duration {
	if frames == 0 {
		return 0
	}
	return (elapsed / time.Duration(frames)).Round(time.Microsecond)
}
