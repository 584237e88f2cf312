package config

import (
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/numbleroot/lwwset/simulation"
	"github.com/pkg/errors"
)

// Structs

// Config holds all information parsed from
// supplied config file.
type Config struct {
	LogLevel       string
	PrometheusAddr string
	Scenario       Scenario
}

// Scenario describes the replicas to run, the
// sink reconciling them and the membership the
// sink is expected to end up with.
type Scenario struct {
	Sink     Sink
	Replicas []Replica
	Expect   Expect
}

// Sink is the replica that merges all others
// once their scripts have finished.
type Sink struct {
	Name   string
	Before []string
	After  []string
}

// Replica names one concurrently running replica
// and the operations it performs.
type Replica struct {
	Name string
	Ops  []string
}

// Expect lists values the sink must and must
// not contain after the scenario.
type Expect struct {
	Present []string
	Absent  []string
}

// Functions

// LoadConfig takes in the path to the main config
// file in TOML syntax and places the values from
// the file in the corresponding struct.
func LoadConfig(configFile string) (*Config, error) {

	conf := new(Config)

	// Parse values from TOML file into struct.
	md, err := toml.DecodeFile(configFile, conf)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read in TOML config file at '%s'", configFile)
	}

	// Reject keys we do not know about, they
	// most likely are typos.
	if undecoded := md.Undecoded(); len(undecoded) > 0 {

		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}

		return nil, errors.Errorf("unknown keys in config file at '%s': %s", configFile, strings.Join(keys, ", "))
	}

	if conf.LogLevel == "" {
		conf.LogLevel = "debug"
	}

	if conf.Scenario.Sink.Name == "" {
		conf.Scenario.Sink.Name = "sink"
	}

	// Make sure the scenario can actually be run.
	_, err = conf.Scenario.Plan()
	if err != nil {
		return nil, errors.Wrapf(err, "invalid scenario in config file at '%s'", configFile)
	}

	return conf, nil
}

// Plan validates s and turns it into a runnable
// simulation plan. Replica names, including the
// sink's, have to be present and unique.
func (s Scenario) Plan() (*simulation.Plan, error) {

	if len(s.Replicas) == 0 {
		return nil, errors.New("scenario needs at least one replica")
	}

	names := map[string]bool{s.Sink.Name: true}

	before, err := simulation.ParseScript(s.Sink.Name, s.Sink.Before)
	if err != nil {
		return nil, err
	}

	after, err := simulation.ParseScript(s.Sink.Name, s.Sink.After)
	if err != nil {
		return nil, err
	}

	plan := &simulation.Plan{
		Sink:    s.Sink.Name,
		Before:  before.Ops,
		After:   after.Ops,
		Scripts: make([]*simulation.Script, 0, len(s.Replicas)),
	}

	for _, r := range s.Replicas {

		if r.Name == "" {
			return nil, errors.New("replica without name")
		}

		if names[r.Name] {
			return nil, errors.Errorf("replica name '%s' used more than once", r.Name)
		}
		names[r.Name] = true

		script, err := simulation.ParseScript(r.Name, r.Ops)
		if err != nil {
			return nil, err
		}

		plan.Scripts = append(plan.Scripts, script)
	}

	return plan, nil
}

// Expectation returns the expected outcome
// of running s.
func (s Scenario) Expectation() simulation.Expectation {

	return simulation.Expectation{
		Present: s.Expect.Present,
		Absent:  s.Expect.Absent,
	}
}
