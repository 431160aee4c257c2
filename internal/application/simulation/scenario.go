package simulation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/andrescamacho/colony-go/internal/domain/job"
	"github.com/andrescamacho/colony-go/internal/domain/resource"
)

// Scenario describes the starting state of a colony and the operator
// commands to replay at given ticks
type Scenario struct {
	Name         string          `mapstructure:"name"`
	Seed         *int64          `mapstructure:"seed"`
	DepositReach float64         `mapstructure:"deposit_reach" validate:"min=0"`
	Graphs       []GraphSpec     `mapstructure:"graphs" validate:"required,min=1,dive"`
	Deposits     []DepositSpec   `mapstructure:"deposits" validate:"dive"`
	Stockpiles   []StockSpec     `mapstructure:"stockpiles" validate:"dive"`
	Blueprints   []BlueprintSpec `mapstructure:"blueprints" validate:"dive"`
	Platforms    []PlatformSpec  `mapstructure:"platforms" validate:"dive"`
	Workers      []WorkerSpec    `mapstructure:"workers" validate:"dive"`
	Events       []EventSpec     `mapstructure:"events" validate:"dive"`
}

type GraphSpec struct {
	Index int        `mapstructure:"index" validate:"min=0"`
	Nodes []NodeSpec `mapstructure:"nodes" validate:"required,min=1,dive"`
	Roads []RoadSpec `mapstructure:"roads" validate:"dive"`
}

type NodeSpec struct {
	ID        int     `mapstructure:"id"`
	X         float64 `mapstructure:"x"`
	Y         float64 `mapstructure:"y"`
	Blueprint bool    `mapstructure:"blueprint"`
}

// RoadSpec is two-way unless OneWay is set. A zero cost means the distance
// between the node centers.
type RoadSpec struct {
	From      int     `mapstructure:"from"`
	To        int     `mapstructure:"to"`
	Cost      float64 `mapstructure:"cost" validate:"min=0"`
	OneWay    bool    `mapstructure:"one_way"`
	Blueprint bool    `mapstructure:"blueprint"`
}

type DepositSpec struct {
	Resource string  `mapstructure:"resource" validate:"required"`
	X        float64 `mapstructure:"x"`
	Y        float64 `mapstructure:"y"`
	Amount   int     `mapstructure:"amount" validate:"min=1"`
}

type StockSpec struct {
	Graph    int    `mapstructure:"graph"`
	Resource string `mapstructure:"resource" validate:"required"`
	Amount   int    `mapstructure:"amount" validate:"min=0"`
}

type BlueprintSpec struct {
	Graph   int      `mapstructure:"graph"`
	Node    int      `mapstructure:"node"`
	X       float64  `mapstructure:"x"`
	Y       float64  `mapstructure:"y"`
	Connect []int    `mapstructure:"connect" validate:"required,min=1"`
	Cost    []string `mapstructure:"cost"`
}

// PlatformSpec places one action. Which fields apply depends on Kind.
type PlatformSpec struct {
	Graph    int    `mapstructure:"graph"`
	Node     int    `mapstructure:"node"`
	Kind     string `mapstructure:"kind" validate:"required,oneof=producer refinery factory turret"`
	Produces string `mapstructure:"produces" validate:"required_if=Kind producer"`
	Input    string `mapstructure:"input" validate:"required_if=Kind refinery"`
	Output   string `mapstructure:"output" validate:"required_if=Kind refinery"`
	Cost     string `mapstructure:"cost"`
	Workers  int    `mapstructure:"workers" validate:"min=0"`
	Interval int    `mapstructure:"interval" validate:"min=0"`
	Capacity int    `mapstructure:"capacity" validate:"min=0"`
}

type WorkerSpec struct {
	Graph int    `mapstructure:"graph"`
	Node  int    `mapstructure:"node"`
	Count int    `mapstructure:"count" validate:"min=1"`
	Job   string `mapstructure:"job"`
}

// Scheduled operator commands
const (
	EventDistributeJobs   = "distribute_jobs"
	EventRegisterPlatform = "register_platform"
	EventManualAssign     = "manual_assign"
	EventManualUnassign   = "manual_unassign"
	EventKillPlatform     = "kill_platform"
	EventKillWorker       = "kill_worker"
	EventSetActionState   = "set_action_state"
)

// EventSpec is an operator command replayed at the start of Tick
type EventSpec struct {
	Tick       int    `mapstructure:"tick" validate:"min=0"`
	Command    string `mapstructure:"command" validate:"required,oneof=distribute_jobs register_platform manual_assign manual_unassign kill_platform kill_worker set_action_state"`
	Graph      int    `mapstructure:"graph"`
	Node       int    `mapstructure:"node"`
	Worker     int    `mapstructure:"worker"`
	From       string `mapstructure:"from"`
	To         string `mapstructure:"to"`
	Amount     int    `mapstructure:"amount" validate:"min=0"`
	Defense    bool   `mapstructure:"defense"`
	Transition string `mapstructure:"transition"`
}

// LoadScenario reads a scenario file in any format viper understands
func LoadScenario(path string) (*Scenario, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}

	var sc Scenario
	if err := v.Unmarshal(&sc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scenario: %w", err)
	}
	if sc.Name == "" {
		sc.Name = path
	}

	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}
	return &sc, nil
}

// SeedOr returns the scenario seed when one is set
func (s *Scenario) SeedOr(fallback int64) int64 {
	if s.Seed != nil {
		return *s.Seed
	}
	return fallback
}

// Validate checks struct tags and the names of jobs and resources
func (s *Scenario) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		if validationErrs, ok := err.(validator.ValidationErrors); ok {
			var messages []string
			for _, e := range validationErrs {
				messages = append(messages, fmt.Sprintf("field '%s' failed validation: %s", e.Namespace(), e.Tag()))
			}
			return fmt.Errorf("validation failed:\n  %s", strings.Join(messages, "\n  "))
		}
		return err
	}

	seen := make(map[int]bool)
	for _, g := range s.Graphs {
		if seen[g.Index] {
			return fmt.Errorf("graph %d declared twice", g.Index)
		}
		seen[g.Index] = true
	}

	var names []string
	for _, d := range s.Deposits {
		names = append(names, d.Resource)
	}
	for _, st := range s.Stockpiles {
		names = append(names, st.Resource)
	}
	for _, b := range s.Blueprints {
		names = append(names, b.Cost...)
	}
	for _, p := range s.Platforms {
		names = append(names, p.Produces, p.Input, p.Output, p.Cost)
	}
	for _, name := range names {
		if _, err := resource.Parse(name); err != nil {
			return err
		}
	}

	for _, w := range s.Workers {
		if w.Job == "" {
			continue
		}
		j, err := job.Parse(w.Job)
		if err != nil {
			return err
		}
		if j == job.Manual {
			return fmt.Errorf("workers cannot start as %s", j)
		}
	}
	return nil
}
