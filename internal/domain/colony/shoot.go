package colony

import (
	"github.com/andrescamacho/colony-go/internal/domain/distribution"
	"github.com/andrescamacho/colony-go/internal/domain/graph"
	"github.com/andrescamacho/colony-go/internal/domain/job"
	"github.com/andrescamacho/colony-go/internal/domain/resource"
)

// ShootAction is a turret. Defense workers fire from its magazine and
// logistics workers refill the magazine with ammo from the stockpile.
type ShootAction struct {
	platformAction
	stock    *Stockpile
	capacity int
	magazine int
	refills  int
	shots    int
}

func NewShootAction(id int, node *graph.Node, manager *distribution.Manager, lifecycle *ActionLifecycle, stock *Stockpile, workers, capacity int) *ShootAction {
	a := &ShootAction{
		platformAction: newPlatformAction(id, "shoot", node, manager, lifecycle, job.Defense, job.Logistics),
		stock:          stock,
		capacity:       capacity,
	}
	a.category = job.Defense
	a.desired = workers
	a.self = a
	return a
}

func (a *ShootAction) Tick() error {
	if err := a.staff(); err != nil {
		return err
	}
	if !a.lifecycle.IsActive() || a.magazine+a.refills >= a.capacity || a.stock.Amount(resource.Ammo) <= a.refills {
		return nil
	}
	queued, err := a.manager.RequestResource(a.node, resource.Ammo, a, false)
	if err != nil {
		return err
	}
	if queued {
		a.refills++
	}
	return nil
}

func (a *ShootAction) Deactivate() error {
	if err := a.platformAction.Deactivate(); err != nil {
		return err
	}
	a.refills = 0
	return nil
}

func (a *ShootAction) Execute(unit distribution.Unit) error {
	if !a.lifecycle.IsActive() {
		return nil
	}
	switch unit.Job() {
	case job.Logistics:
		if a.refills > 0 {
			a.refills--
		}
		if a.magazine < a.capacity && a.stock.Take(resource.Ammo) {
			a.magazine++
		}
	default:
		if a.magazine > 0 {
			a.magazine--
			a.shots++
		}
	}
	return nil
}

func (a *ShootAction) Magazine() int { return a.magazine }
func (a *ShootAction) Shots() int    { return a.shots }
