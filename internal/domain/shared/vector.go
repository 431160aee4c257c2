package shared

import (
	"fmt"
	"math"
)

// Vector is an immutable world position
type Vector struct {
	X float64 `json:"x" mapstructure:"x"`
	Y float64 `json:"y" mapstructure:"y"`
}

// NewVector creates a new vector
func NewVector(x, y float64) Vector {
	return Vector{X: x, Y: y}
}

// DistanceTo calculates Euclidean distance to another position
func (v Vector) DistanceTo(other Vector) float64 {
	dx := other.X - v.X
	dy := other.Y - v.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Add returns the component-wise sum
func (v Vector) Add(other Vector) Vector {
	return Vector{X: v.X + other.X, Y: v.Y + other.Y}
}

func (v Vector) String() string {
	return fmt.Sprintf("(%.1f, %.1f)", v.X, v.Y)
}

// FindNearest returns the index of the position closest to from and its distance.
// Returns -1 and 0 if positions is empty.
func FindNearest(from Vector, positions []Vector) (int, float64) {
	if len(positions) == 0 {
		return -1, 0
	}

	nearest := 0
	minDistance := from.DistanceTo(positions[0])

	for i, p := range positions[1:] {
		distance := from.DistanceTo(p)
		if distance < minDistance {
			minDistance = distance
			nearest = i + 1
		}
	}

	return nearest, minDistance
}
