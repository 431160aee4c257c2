package resource

import (
	"fmt"
	"strings"
)

// Type identifies a kind of resource carried by logistics and consumed by platforms
type Type int

const (
	// None marks a task that carries no resource
	None Type = iota
	Water
	Metal
	Stone
	Ammo
)

func (t Type) String() string {
	switch t {
	case None:
		return "NONE"
	case Water:
		return "WATER"
	case Metal:
		return "METAL"
	case Stone:
		return "STONE"
	case Ammo:
		return "AMMO"
	default:
		return fmt.Sprintf("RESOURCE(%d)", int(t))
	}
}

// Parse converts a case-insensitive resource name into a Type
func Parse(s string) (Type, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "NONE":
		return None, nil
	case "WATER":
		return Water, nil
	case "METAL":
		return Metal, nil
	case "STONE":
		return Stone, nil
	case "AMMO":
		return Ammo, nil
	default:
		return None, fmt.Errorf("unknown resource type %q", s)
	}
}
