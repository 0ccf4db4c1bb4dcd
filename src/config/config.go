package config

import (
	"fmt"
	"io"
	"maps"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultCapacity   = 5
	DefaultElevators  = 1
	DefaultFloors     = 3
	DefaultPassengers = 5
	DefaultStartFloor = 0
	DefaultMaxSteps   = 100_000
	EnvPrefix         = "LIFTSIM_"
)

var ErrInvalidConfig = errors.New("invalid config")

// Trip is a manually placed passenger.
type Trip struct {
	Start       int `yaml:"start"`
	Destination int `yaml:"destination"`
}

// Config describes one simulation scenario. When Trips is empty the
// passengers are generated at random.
type Config struct {
	Capacity        int    `yaml:"capacity"`
	Elevators       int    `yaml:"elevators"`
	Floors          int    `yaml:"floors"`
	Passengers      int    `yaml:"passengers"`
	Trips           []Trip `yaml:"trips"`
	StartFloor      int    `yaml:"start_floor"`
	MaxSteps        int    `yaml:"max_steps"`
	Seed            uint64 `yaml:"seed"`
	CheckInvariants bool   `yaml:"check_invariants"`
}

func Default() Config {
	return Config{
		Capacity:   DefaultCapacity,
		Elevators:  DefaultElevators,
		Floors:     DefaultFloors,
		Passengers: DefaultPassengers,
		StartFloor: DefaultStartFloor,
		MaxSteps:   DefaultMaxSteps,
	}
}

// Manual reports whether the scenario lists its passengers explicitly.
func (c Config) Manual() bool {
	return len(c.Trips) > 0
}

// Parse reads a YAML scenario on top of the defaults. Unknown keys are rejected.
func Parse(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return cfg, errors.Wrap(err, "decode scenario")
	}
	return cfg, nil
}

func Load(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Default(), errors.Wrap(err, "open scenario")
	}
	defer file.Close()
	return Parse(file)
}

// ApplyEnv overrides fields from LIFTSIM_* variables. Values from the given
// .env files are read first; the process environment wins over them.
func (c *Config) ApplyEnv(files ...string) error {
	vars := map[string]string{}
	if len(files) > 0 {
		fromFiles, err := godotenv.Read(files...)
		if err != nil {
			return errors.Wrap(err, "read env files")
		}
		maps.Copy(vars, fromFiles)
	}
	for _, kv := range os.Environ() {
		if key, value, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(key, EnvPrefix) {
			vars[key] = value
		}
	}
	return c.applyVars(vars)
}

func (c *Config) applyVars(vars map[string]string) error {
	ints := map[string]*int{
		"CAPACITY":    &c.Capacity,
		"ELEVATORS":   &c.Elevators,
		"FLOORS":      &c.Floors,
		"PASSENGERS":  &c.Passengers,
		"START_FLOOR": &c.StartFloor,
		"MAX_STEPS":   &c.MaxSteps,
	}
	for name, field := range ints {
		raw, ok := vars[EnvPrefix+name]
		if !ok {
			continue
		}
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return errors.Wrapf(ErrInvalidConfig, "%s%s=%q is not an integer", EnvPrefix, name, raw)
		}
		*field = v
	}
	if raw, ok := vars[EnvPrefix+"SEED"]; ok {
		v, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return errors.Wrapf(ErrInvalidConfig, "%sSEED=%q is not an unsigned integer", EnvPrefix, raw)
		}
		c.Seed = v
	}
	if raw, ok := vars[EnvPrefix+"CHECK_INVARIANTS"]; ok {
		v, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return errors.Wrapf(ErrInvalidConfig, "%sCHECK_INVARIANTS=%q is not a boolean", EnvPrefix, raw)
		}
		c.CheckInvariants = v
	}
	return nil
}

func (c Config) Validate() error {
	var problems []string
	if c.Capacity <= 0 {
		problems = append(problems, fmt.Sprintf("capacity must be positive, got %d", c.Capacity))
	}
	if c.Elevators <= 0 {
		problems = append(problems, fmt.Sprintf("need at least one elevator, got %d", c.Elevators))
	}
	if c.Floors < 2 {
		problems = append(problems, fmt.Sprintf("need at least two floors, got %d", c.Floors))
	}
	if c.StartFloor < 0 || c.StartFloor >= c.Floors {
		problems = append(problems, fmt.Sprintf("start floor %d outside 0..%d", c.StartFloor, c.Floors-1))
	}
	if c.MaxSteps < 0 {
		problems = append(problems, fmt.Sprintf("max steps must not be negative, got %d", c.MaxSteps))
	}
	if !c.Manual() && c.Passengers < 0 {
		problems = append(problems, fmt.Sprintf("passenger count must not be negative, got %d", c.Passengers))
	}
	for i, t := range c.Trips {
		if t.Start < 0 || t.Start >= c.Floors || t.Destination < 0 || t.Destination >= c.Floors {
			problems = append(problems, fmt.Sprintf("trip %d (%d -> %d) leaves the building", i, t.Start, t.Destination))
		} else if t.Start == t.Destination {
			problems = append(problems, fmt.Sprintf("trip %d starts on its destination floor %d", i, t.Start))
		}
	}
	if len(problems) > 0 {
		return errors.Wrap(ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
