package colony

import (
	"github.com/andrescamacho/colony-go/internal/domain/distribution"
	"github.com/andrescamacho/colony-go/internal/domain/graph"
	"github.com/andrescamacho/colony-go/internal/domain/job"
	"github.com/andrescamacho/colony-go/internal/domain/resource"
)

// RefineAction converts one input resource into one output resource per
// logistics delivery. It keeps a single delivery request queued at a time.
type RefineAction struct {
	platformAction
	stock   *Stockpile
	input   resource.Type
	output  resource.Type
	waiting bool
	refined int
}

func NewRefineAction(id int, node *graph.Node, manager *distribution.Manager, lifecycle *ActionLifecycle, stock *Stockpile, input, output resource.Type) *RefineAction {
	a := &RefineAction{
		platformAction: newPlatformAction(id, "refine", node, manager, lifecycle, job.Logistics),
		stock:          stock,
		input:          input,
		output:         output,
	}
	a.self = a
	return a
}

func (a *RefineAction) Tick() error {
	if !a.lifecycle.IsActive() || a.waiting || a.stock.Amount(a.input) == 0 {
		return nil
	}
	queued, err := a.manager.RequestResource(a.node, a.input, a, false)
	if err != nil {
		return err
	}
	a.waiting = queued
	return nil
}

func (a *RefineAction) Deactivate() error {
	if err := a.platformAction.Deactivate(); err != nil {
		return err
	}
	a.waiting = false
	return nil
}

func (a *RefineAction) Execute(unit distribution.Unit) error {
	a.waiting = false
	if !a.lifecycle.IsActive() {
		return nil
	}
	if a.stock.Take(a.input) {
		a.stock.Add(a.output, 1)
		a.refined++
	}
	return nil
}

func (a *RefineAction) Refined() int { return a.refined }
