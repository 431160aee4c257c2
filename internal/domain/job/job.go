// Package job defines the closed set of worker job types.
package job

import (
	"fmt"
	"strings"
)

// Type is the job a worker currently holds
type Type int

const (
	Idle Type = iota
	Logistics
	Construction
	Production
	Defense
	// Manual marks workers pinned to an action by an operator override
	Manual
)

// Distributable lists the job types that own a worker pool and a place in the
// dispatch protocol, in the order pools are reported.
var Distributable = []Type{Idle, Logistics, Construction, Production, Defense}

func (t Type) String() string {
	switch t {
	case Idle:
		return "IDLE"
	case Logistics:
		return "LOGISTICS"
	case Construction:
		return "CONSTRUCTION"
	case Production:
		return "PRODUCTION"
	case Defense:
		return "DEFENSE"
	case Manual:
		return "MANUAL"
	default:
		return fmt.Sprintf("JOB(%d)", int(t))
	}
}

// IsValid reports whether t is one of the declared job types
func (t Type) IsValid() bool {
	return t >= Idle && t <= Manual
}

// IsFairnessGoverned reports whether workers of this job are balanced per platform
func (t Type) IsFairnessGoverned() bool {
	return t == Production || t == Defense
}

// IsQueued reports whether workers of this job receive work from a FIFO task queue
func (t Type) IsQueued() bool {
	switch t {
	case Logistics, Construction, Production, Defense:
		return true
	default:
		return false
	}
}

// Parse converts a case-insensitive job name into a Type
func Parse(s string) (Type, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "IDLE":
		return Idle, nil
	case "LOGISTICS":
		return Logistics, nil
	case "CONSTRUCTION":
		return Construction, nil
	case "PRODUCTION":
		return Production, nil
	case "DEFENSE", "DEFENCE":
		return Defense, nil
	case "MANUAL":
		return Manual, nil
	default:
		return Idle, fmt.Errorf("unknown job type %q", s)
	}
}
