package colony

import (
	"github.com/andrescamacho/colony-go/internal/domain/distribution"
	"github.com/andrescamacho/colony-go/internal/domain/graph"
	"github.com/andrescamacho/colony-go/internal/domain/job"
	"github.com/andrescamacho/colony-go/internal/domain/resource"
)

// BuildAction turns a blueprint platform into a built one once every
// resource of its cost has been delivered by construction workers.
type BuildAction struct {
	platformAction
	stock      *Stockpile
	cost       []resource.Type
	delivered  int
	requested  int
	onComplete func(site *graph.Node) error
}

// NewBuildAction creates an available build action for a blueprint site
func NewBuildAction(id int, site *graph.Node, manager *distribution.Manager, lifecycle *ActionLifecycle, stock *Stockpile, cost []resource.Type) *BuildAction {
	a := &BuildAction{
		platformAction: newPlatformAction(id, "build", site, manager, lifecycle, job.Construction),
		stock:          stock,
		cost:           append([]resource.Type(nil), cost...),
	}
	a.self = a
	return a
}

// OnComplete registers a callback run after the site is built
func (a *BuildAction) OnComplete(fn func(site *graph.Node) error) {
	a.onComplete = fn
}

// Activate switches the action on and requests every undelivered resource
func (a *BuildAction) Activate() error {
	if err := a.platformAction.Activate(); err != nil {
		return err
	}
	for a.requested < len(a.cost)-a.delivered {
		need := a.cost[a.delivered+a.requested]
		queued, err := a.manager.RequestResource(a.node, need, a, true)
		if err != nil {
			return err
		}
		if !queued {
			break
		}
		a.requested++
	}
	return a.completeIfPaid()
}

func (a *BuildAction) Deactivate() error {
	if err := a.platformAction.Deactivate(); err != nil {
		return err
	}
	a.requested = 0
	return nil
}

func (a *BuildAction) Tick() error { return nil }

// Execute delivers the next resource of the cost from the stockpile. A
// missing resource is requested again so another trip is made later.
func (a *BuildAction) Execute(unit distribution.Unit) error {
	if !a.lifecycle.IsActive() || a.delivered == len(a.cost) {
		return nil
	}
	if a.requested > 0 {
		a.requested--
	}

	need := a.cost[a.delivered]
	if !a.stock.Take(need) {
		queued, err := a.manager.RequestResource(a.node, need, a, true)
		if err != nil {
			return err
		}
		if queued {
			a.requested++
		}
		return nil
	}
	a.delivered++
	return a.completeIfPaid()
}

// Delivered returns how many resources of the cost arrived
func (a *BuildAction) Delivered() int { return a.delivered }

// Cost returns the resources the site needs
func (a *BuildAction) Cost() []resource.Type {
	return append([]resource.Type(nil), a.cost...)
}

func (a *BuildAction) IsComplete() bool {
	return a.delivered == len(a.cost)
}

func (a *BuildAction) completeIfPaid() error {
	if !a.IsComplete() || a.IsDead() {
		return nil
	}
	if err := a.manager.Graph().CompleteBlueprint(a.node.ID()); err != nil {
		return err
	}
	a.Die()
	if a.onComplete != nil {
		return a.onComplete(a.node)
	}
	return nil
}
