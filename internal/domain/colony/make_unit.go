package colony

import (
	"github.com/andrescamacho/colony-go/internal/domain/distribution"
	"github.com/andrescamacho/colony-go/internal/domain/graph"
	"github.com/andrescamacho/colony-go/internal/domain/job"
	"github.com/andrescamacho/colony-go/internal/domain/resource"
)

// SpawnFunc creates and registers a new worker on a node
type SpawnFunc func(at *graph.Node) (*Worker, error)

// MakeUnitAction trains new workers. After interval executions it spends one
// unit of cost (resource.None is free) and spawns a worker on its platform.
type MakeUnitAction struct {
	platformAction
	stock    *Stockpile
	cost     resource.Type
	interval int
	progress int
	spawn    SpawnFunc
	made     int
}

func NewMakeUnitAction(id int, node *graph.Node, manager *distribution.Manager, lifecycle *ActionLifecycle, stock *Stockpile, cost resource.Type, workers, interval int, spawn SpawnFunc) *MakeUnitAction {
	if interval < 1 {
		interval = 1
	}
	a := &MakeUnitAction{
		platformAction: newPlatformAction(id, "make_unit", node, manager, lifecycle, job.Production),
		stock:          stock,
		cost:           cost,
		interval:       interval,
		spawn:          spawn,
	}
	a.category = job.Production
	a.desired = workers
	a.self = a
	return a
}

func (a *MakeUnitAction) Tick() error { return a.staff() }

func (a *MakeUnitAction) Execute(unit distribution.Unit) error {
	if !a.lifecycle.IsActive() {
		return nil
	}
	if a.progress < a.interval {
		a.progress++
	}
	if a.progress < a.interval {
		return nil
	}
	if a.cost != resource.None && !a.stock.Take(a.cost) {
		return nil
	}
	a.progress = 0
	if _, err := a.spawn(a.node); err != nil {
		return err
	}
	a.made++
	return nil
}

func (a *MakeUnitAction) Made() int { return a.made }
