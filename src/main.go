package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"liftsim/src/config"
	"liftsim/src/sim"
	"liftsim/src/utils"
)

func main() {
	configPath := flag.String("config", "", "YAML scenario file")
	envFile := flag.String("env", "", "Optional .env file with LIFTSIM_* overrides")
	capacity := flag.Int("capacity", 0, "Elevator capacity (overrides config)")
	elevators := flag.Int("elevators", 0, "Number of elevators (overrides config)")
	floors := flag.Int("floors", 0, "Number of floors (overrides config)")
	passengers := flag.Int("passengers", -1, "Number of random passengers (overrides config)")
	seed := flag.Uint64("seed", 0, "Random seed, 0 picks one")
	check := flag.Bool("check", false, "Verify invariants after every step")
	replay := flag.Duration("replay", 0, "Replay events with this interval between steps")
	eventsOut := flag.String("events", "", "Write the event log as YAML to this file")
	verbose := flag.Bool("v", false, "Debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	utils.InitLogger(os.Stderr, level)

	cfg, err := loadConfig(*configPath, *envFile)
	if err != nil {
		slog.Error("Could not load configuration", "error", err)
		os.Exit(2)
	}
	if *capacity > 0 {
		cfg.Capacity = *capacity
	}
	if *elevators > 0 {
		cfg.Elevators = *elevators
	}
	if *floors > 0 {
		cfg.Floors = *floors
	}
	if *passengers >= 0 {
		cfg.Passengers = *passengers
		cfg.Trips = nil
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	cfg.CheckInvariants = cfg.CheckInvariants || *check

	s, err := sim.New(cfg)
	if err != nil {
		slog.Error("Invalid scenario", "error", err)
		os.Exit(2)
	}
	slog.Info("Starting simulation", "seed", s.Config().Seed, "passengers", len(s.Passengers()))

	result, err := s.Run()
	if err != nil {
		slog.Error("Simulation aborted", "error", fmt.Sprintf("%+v", err))
		os.Exit(1)
	}

	if *replay > 0 {
		utils.Replay(os.Stdout, result.Events, *replay)
	}
	if *eventsOut != "" {
		if err := writeEvents(s, *eventsOut); err != nil {
			slog.Error("Could not write events", "file", *eventsOut, "error", err)
			os.Exit(1)
		}
	}
	utils.PrintSummary(os.Stdout, result, sim.Summarize(result.Events, cfg.StartFloor))
}

func loadConfig(path, envFile string) (config.Config, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, err
		}
	}
	var files []string
	if envFile != "" {
		files = append(files, envFile)
	}
	err := cfg.ApplyEnv(files...)
	return cfg, err
}

func writeEvents(s *sim.Simulation, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return s.EventLog().WriteYAML(file)
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags]\n\nRuns an elevator dispatch simulation and prints a summary.\n\n", os.Args[0])
		flag.PrintDefaults()
	}
}
