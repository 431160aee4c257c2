package queries

import (
	"fmt"

	"github.com/andrescamacho/colony-go/internal/application/mediator"
	"github.com/andrescamacho/colony-go/internal/domain/director"
)

// RegisterHandlers wires every read-only query into med
func RegisterHandlers(med mediator.Mediator, d *director.Director) error {
	if err := mediator.RegisterHandler[*FindPathQuery](med, NewFindPathHandler(d)); err != nil {
		return fmt.Errorf("failed to register FindPath handler: %w", err)
	}

	if err := mediator.RegisterHandler[*GetStatsQuery](med, NewGetStatsHandler(d)); err != nil {
		return fmt.Errorf("failed to register GetStats handler: %w", err)
	}

	return nil
}
