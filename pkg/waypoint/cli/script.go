package cli

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/BrandonKowalski/waypoint/pkg/waypoint/router"
)

// Script is a navigation scenario.
//
//	key: main
//	start: home
//	mode: savable
//	destinations: [home, detail]
//	steps:
//	  - op: navigate
//	    destination: detail
//	    args: 42
//	  - op: model
//	    key: editor
//	  - op: back
//	    result: saved
type Script struct {
	Key          string   `yaml:"key"`
	Start        string   `yaml:"start"`
	StartArgs    any      `yaml:"start_args"`
	Mode         string   `yaml:"mode"`
	Destinations []string `yaml:"destinations"`
	Steps        []Step   `yaml:"steps"`
}

// Step is one operation of a Script.
type Step struct {
	Op          string `yaml:"op"`
	Destination string `yaml:"destination,omitempty"`
	Args        any    `yaml:"args,omitempty"`
	Result      any    `yaml:"result,omitempty"`
	Transition  string `yaml:"transition,omitempty"`
	DurationMS  int    `yaml:"duration_ms,omitempty"`
	Key         string `yaml:"key,omitempty"`
	Fresh       bool   `yaml:"fresh,omitempty"` // restore into a new process storage
	ExpectError bool   `yaml:"expect_error,omitempty"`
}

// Ops accepted in a Step.
const (
	OpNavigate = "navigate"
	OpReplace  = "replace"
	OpBack     = "back"
	OpReset    = "reset"
	OpSave     = "save"
	OpRestore  = "restore"
	OpModel    = "model"
)

// LoadScript reads and validates a YAML script.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScript(data)
}

// ParseScript decodes and validates a YAML script.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if s.Start == "" {
		return nil, fmt.Errorf("script: start destination required")
	}
	if _, err := router.ParseStorageMode(s.Mode); err != nil {
		return nil, fmt.Errorf("script: %w", err)
	}
	for i, step := range s.Steps {
		if err := step.validate(); err != nil {
			return nil, fmt.Errorf("script: step %d: %w", i+1, err)
		}
	}
	return &s, nil
}

func (s Step) validate() error {
	switch s.Op {
	case OpNavigate, OpReplace:
		if s.Destination == "" {
			return fmt.Errorf("%s needs a destination", s.Op)
		}
	case OpBack, OpReset, OpSave, OpRestore, OpModel:
	default:
		return fmt.Errorf("unknown op %q", s.Op)
	}
	if s.Transition != "" {
		if _, err := router.ParseTransitionKind(s.Transition); err != nil {
			return err
		}
	}
	return nil
}

func (s Step) navOptions() []router.NavOption {
	var opts []router.NavOption
	if s.Args != nil {
		opts = append(opts, router.WithArgs(s.Args))
	}
	if s.Transition != "" {
		kind, _ := router.ParseTransitionKind(s.Transition)
		opts = append(opts, router.WithTransition(router.Transition{
			Kind:     kind,
			Duration: time.Duration(s.DurationMS) * time.Millisecond,
		}))
	}
	return opts
}

func (s *Script) destinations() []router.Destination {
	out := make([]router.Destination, 0, len(s.Destinations))
	for _, d := range s.Destinations {
		out = append(out, router.Destination(d))
	}
	return out
}
