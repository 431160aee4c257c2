package persistence

import (
	"time"
)

// SimulationRunModel represents the simulation_runs table
type SimulationRunModel struct {
	ID         string     `gorm:"column:id;primaryKey;not null"`
	Scenario   string     `gorm:"column:scenario;not null"`
	Seed       int64      `gorm:"column:seed;not null"`
	Pathfinder string     `gorm:"column:pathfinder;not null"`
	Status     string     `gorm:"column:status;not null;index"`
	Ticks      uint64     `gorm:"column:ticks;not null;default:0"`
	StartedAt  time.Time  `gorm:"column:started_at;not null"`
	StoppedAt  *time.Time `gorm:"column:stopped_at"`
	ExitReason string     `gorm:"column:exit_reason"`
}

func (SimulationRunModel) TableName() string {
	return "simulation_runs"
}

// AssignmentEventModel represents the assignment_events table
// Absent unit, platform and action ids are stored as -1
type AssignmentEventModel struct {
	ID         int                 `gorm:"column:id;primaryKey;autoIncrement"`
	RunID      string              `gorm:"column:run_id;not null;index:idx_assignment_run_tick"`
	Run        *SimulationRunModel `gorm:"foreignKey:RunID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	GraphIndex int                 `gorm:"column:graph_index;not null"`
	Tick       uint64              `gorm:"column:tick;not null;index:idx_assignment_run_tick"`
	Kind       string              `gorm:"column:kind;not null"`
	UnitID     int                 `gorm:"column:unit_id;not null"`
	PlatformID int                 `gorm:"column:platform_id;not null"`
	ActionID   int                 `gorm:"column:action_id;not null"`
	FromJob    string              `gorm:"column:from_job"`
	ToJob      string              `gorm:"column:to_job"`
	TaskID     string              `gorm:"column:task_id"`
	OccurredAt time.Time           `gorm:"column:occurred_at;not null"`
}

func (AssignmentEventModel) TableName() string {
	return "assignment_events"
}

// SimulationLogModel represents the simulation_logs table
type SimulationLogModel struct {
	ID        int       `gorm:"column:id;primaryKey;autoIncrement"`
	RunID     string    `gorm:"column:run_id;not null;index"`
	Timestamp time.Time `gorm:"column:timestamp;not null"`
	Level     string    `gorm:"column:level;not null"`
	Message   string    `gorm:"column:message;type:text;not null"`
	Metadata  string    `gorm:"column:metadata;type:text"` // JSON as text
}

func (SimulationLogModel) TableName() string {
	return "simulation_logs"
}
