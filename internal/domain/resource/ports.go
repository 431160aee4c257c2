package resource

import "github.com/andrescamacho/colony-go/internal/domain/shared"

// Deposit is a harvestable resource instance in the world
type Deposit struct {
	ID       int
	Type     Type
	Position shared.Vector
}

// Map yields resource instances near a position, one production category per method.
// Each lookup returns false when nothing is available at this tick.
type Map interface {
	GetWell(near shared.Vector) (Deposit, bool)
	GetMine(near shared.Vector) (Deposit, bool)
	GetQuarry(near shared.Vector) (Deposit, bool)
	GetAmmo(near shared.Vector) (Deposit, bool)
}
