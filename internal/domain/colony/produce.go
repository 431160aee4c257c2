package colony

import (
	"github.com/andrescamacho/colony-go/internal/domain/distribution"
	"github.com/andrescamacho/colony-go/internal/domain/graph"
	"github.com/andrescamacho/colony-go/internal/domain/job"
	"github.com/andrescamacho/colony-go/internal/domain/resource"
)

// ProduceAction extracts a resource from the nearest deposit. Every
// interval executions by a homed worker yields one unit into the stockpile.
type ProduceAction struct {
	platformAction
	stock    *Stockpile
	deposits resource.Map
	resource resource.Type
	interval int
	progress int
	produced int
}

func NewProduceAction(id int, node *graph.Node, manager *distribution.Manager, lifecycle *ActionLifecycle, stock *Stockpile, deposits resource.Map, produces resource.Type, workers, interval int) *ProduceAction {
	if interval < 1 {
		interval = 1
	}
	a := &ProduceAction{
		platformAction: newPlatformAction(id, "produce", node, manager, lifecycle, job.Production),
		stock:          stock,
		deposits:       deposits,
		resource:       produces,
		interval:       interval,
	}
	a.category = job.Production
	a.desired = workers
	a.self = a
	return a
}

func (a *ProduceAction) Tick() error { return a.staff() }

func (a *ProduceAction) Execute(unit distribution.Unit) error {
	if !a.lifecycle.IsActive() {
		return nil
	}
	a.progress++
	if a.progress < a.interval {
		return nil
	}
	a.progress = 0
	if _, ok := resource.Lookup(a.deposits, a.resource, a.node.Center()); ok {
		a.stock.Add(a.resource, 1)
		a.produced++
	}
	return nil
}

func (a *ProduceAction) Produced() int           { return a.produced }
func (a *ProduceAction) Resource() resource.Type { return a.resource }
