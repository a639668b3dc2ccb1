package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/signalsfoundry/coverage-planner/core"
	"github.com/signalsfoundry/coverage-planner/internal/logging"
	"github.com/signalsfoundry/coverage-planner/render"
)

func main() {
	dataPath := flag.String("data", "data.json", "Path to a JSON dataset (transceivers plus the A and B points)")
	renderPath := flag.String("render", "", "Write a picture of the field and route to this file")
	format := flag.String("format", "svg", "Render format: svg or dot")
	timeout := flag.Duration("timeout", 30*time.Second, "Give up on the route search after this long")
	flag.Parse()

	log := logging.NewFromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	f, err := os.Open(*dataPath)
	if err != nil {
		log.Error(ctx, "failed to open dataset", logging.String("path", *dataPath), logging.String("error", err.Error()))
		os.Exit(1)
	}
	ds, err := core.LoadDataset(f)
	f.Close()
	if err != nil {
		log.Error(ctx, "failed to load dataset", logging.String("path", *dataPath), logging.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info(ctx, "dataset loaded",
		logging.String("path", *dataPath),
		logging.Int("transceivers", ds.Field.Len()),
	)

	route, err := core.NewPlanner(ds.Field, log).FindRoute(ctx, ds.A, ds.B)
	if err != nil {
		log.Error(ctx, "route search failed", logging.String("error", err.Error()))
		os.Exit(1)
	}

	if route == nil {
		fmt.Printf("Path from %v to %v under transceivers coverage does not exist!\n", ds.A, ds.B)
	} else {
		fmt.Printf("Path from %v to %v under transceivers coverage exists:\n", ds.A, ds.B)
		for _, t := range route {
			fmt.Printf("  %s\n", t)
		}
	}

	if *renderPath != "" {
		if err := writeRendering(*renderPath, *format, ds, route); err != nil {
			log.Error(ctx, "failed to render field", logging.String("path", *renderPath), logging.String("error", err.Error()))
			os.Exit(1)
		}
		fmt.Printf("Wrote %s rendering to %s\n", *format, *renderPath)
	}

	if route == nil {
		os.Exit(2)
	}
}

func writeRendering(path, format string, ds *core.Dataset, route core.Route) error {
	renderer, err := render.GetRenderer(format)
	if err != nil {
		return err
	}

	scene := &render.Scene{Field: ds.Field, Route: route, A: ds.A, B: ds.B}
	out, err := renderer.Render(scene, nil)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o644)
}
