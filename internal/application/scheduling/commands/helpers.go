// Package commands holds the operator commands that change worker
// assignment from outside the tick loop.
package commands

import (
	"fmt"

	"github.com/andrescamacho/colony-go/internal/domain/colony"
	"github.com/andrescamacho/colony-go/internal/domain/distribution"
	"github.com/andrescamacho/colony-go/internal/domain/graph"
	"github.com/andrescamacho/colony-go/internal/domain/job"
)

func lookupNode(c *colony.Colony, graphIndex, nodeID int) (*graph.Node, *distribution.Manager, error) {
	m, err := c.Director().Manager(graphIndex)
	if err != nil {
		return nil, nil, err
	}
	n, err := m.Graph().Node(nodeID)
	if err != nil {
		return nil, nil, err
	}
	return n, m, nil
}

func lookupAction(c *colony.Colony, actionID int) (colony.Action, *distribution.Manager, error) {
	a, ok := c.Action(actionID)
	if !ok {
		return nil, nil, fmt.Errorf("action %d not found", actionID)
	}
	m, err := c.Director().ManagerFor(a.Node())
	if err != nil {
		return nil, nil, err
	}
	return a, m, nil
}

func parseJob(name string) (job.Type, error) {
	j, err := job.Parse(name)
	if err != nil {
		return job.Idle, fmt.Errorf("invalid job: %w", err)
	}
	return j, nil
}
