package resource

import (
	"math"

	"github.com/andrescamacho/colony-go/internal/domain/shared"
)

type fieldDeposit struct {
	deposit   Deposit
	remaining int
}

// Field is an in-memory Map. Every harvest through a lookup consumes one unit
// of the returned deposit; exhausted deposits are no longer returned.
type Field struct {
	deposits []*fieldDeposit
	reach    float64
	nextID   int
}

// NewField creates an empty field. Deposits further than reach from the
// lookup position are ignored; a reach of 0 means unlimited.
func NewField(reach float64) *Field {
	return &Field{reach: reach, nextID: 1}
}

// AddDeposit places a deposit holding amount units and returns it
func (f *Field) AddDeposit(t Type, position shared.Vector, amount int) Deposit {
	d := Deposit{ID: f.nextID, Type: t, Position: position}
	f.nextID++
	f.deposits = append(f.deposits, &fieldDeposit{deposit: d, remaining: amount})
	return d
}

// Remaining returns how many units are left in a deposit
func (f *Field) Remaining(depositID int) int {
	for _, fd := range f.deposits {
		if fd.deposit.ID == depositID {
			return fd.remaining
		}
	}
	return 0
}

func (f *Field) GetWell(near shared.Vector) (Deposit, bool) {
	return f.take(Water, near)
}

func (f *Field) GetMine(near shared.Vector) (Deposit, bool) {
	return f.take(Metal, near)
}

func (f *Field) GetQuarry(near shared.Vector) (Deposit, bool) {
	return f.take(Stone, near)
}

func (f *Field) GetAmmo(near shared.Vector) (Deposit, bool) {
	return f.take(Ammo, near)
}

// Lookup dispatches to the category method matching t
func Lookup(m Map, t Type, near shared.Vector) (Deposit, bool) {
	switch t {
	case Water:
		return m.GetWell(near)
	case Metal:
		return m.GetMine(near)
	case Stone:
		return m.GetQuarry(near)
	case Ammo:
		return m.GetAmmo(near)
	default:
		return Deposit{}, false
	}
}

func (f *Field) take(t Type, near shared.Vector) (Deposit, bool) {
	var best *fieldDeposit
	bestDistance := math.MaxFloat64

	for _, fd := range f.deposits {
		if fd.deposit.Type != t || fd.remaining <= 0 {
			continue
		}
		distance := near.DistanceTo(fd.deposit.Position)
		if f.reach > 0 && distance > f.reach {
			continue
		}
		if distance < bestDistance {
			bestDistance = distance
			best = fd
		}
	}

	if best == nil {
		return Deposit{}, false
	}

	best.remaining--
	return best.deposit, true
}
