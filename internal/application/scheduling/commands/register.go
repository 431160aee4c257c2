package commands

import (
	"fmt"

	"github.com/andrescamacho/colony-go/internal/application/mediator"
	"github.com/andrescamacho/colony-go/internal/domain/colony"
)

// RegisterHandlers wires every operator command of a colony into med
func RegisterHandlers(med mediator.Mediator, c *colony.Colony) error {
	if err := mediator.RegisterHandler[*RegisterPlatformCommand](med, NewRegisterPlatformHandler(c)); err != nil {
		return fmt.Errorf("failed to register RegisterPlatform handler: %w", err)
	}

	if err := mediator.RegisterHandler[*DistributeJobsCommand](med, NewDistributeJobsHandler(c)); err != nil {
		return fmt.Errorf("failed to register DistributeJobs handler: %w", err)
	}

	if err := mediator.RegisterHandler[*ManualAssignCommand](med, NewManualAssignHandler(c)); err != nil {
		return fmt.Errorf("failed to register ManualAssign handler: %w", err)
	}

	if err := mediator.RegisterHandler[*ManualUnassignCommand](med, NewManualUnassignHandler(c)); err != nil {
		return fmt.Errorf("failed to register ManualUnassign handler: %w", err)
	}

	if err := mediator.RegisterHandler[*KillPlatformCommand](med, NewKillPlatformHandler(c)); err != nil {
		return fmt.Errorf("failed to register KillPlatform handler: %w", err)
	}

	if err := mediator.RegisterHandler[*KillWorkerCommand](med, NewKillWorkerHandler(c)); err != nil {
		return fmt.Errorf("failed to register KillWorker handler: %w", err)
	}

	if err := mediator.RegisterHandler[*SetActionStateCommand](med, NewSetActionStateHandler(c)); err != nil {
		return fmt.Errorf("failed to register SetActionState handler: %w", err)
	}

	return nil
}
