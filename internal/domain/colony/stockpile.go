package colony

import "github.com/andrescamacho/colony-go/internal/domain/resource"

// Stockpile holds the resources a settlement has gathered
type Stockpile struct {
	amounts map[resource.Type]int
}

func NewStockpile() *Stockpile {
	return &Stockpile{amounts: make(map[resource.Type]int)}
}

// Add stores amount units of t. Non-positive amounts and resource.None are ignored.
func (s *Stockpile) Add(t resource.Type, amount int) {
	if t == resource.None || amount <= 0 {
		return
	}
	s.amounts[t] += amount
}

// Take removes one unit of t, reporting whether one was available
func (s *Stockpile) Take(t resource.Type) bool {
	if s.amounts[t] == 0 {
		return false
	}
	s.amounts[t]--
	return true
}

func (s *Stockpile) Amount(t resource.Type) int {
	return s.amounts[t]
}

// Snapshot returns the non-empty amounts
func (s *Stockpile) Snapshot() map[resource.Type]int {
	out := make(map[resource.Type]int, len(s.amounts))
	for t, n := range s.amounts {
		if n > 0 {
			out[t] = n
		}
	}
	return out
}
