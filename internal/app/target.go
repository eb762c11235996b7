package app

import (
	"github.com/bnema/eglpi/internal/input"
	"github.com/bnema/eglpi/internal/logger"
)

// LoggingTarget stands in for a renderer: it logs and counts each command
type LoggingTarget struct {
	counts map[input.Command]int
	last   input.Command
}

// NewLoggingTarget creates an empty target
func NewLoggingTarget() *LoggingTarget {
	return &LoggingTarget{counts: make(map[input.Command]int)}
}

// Count returns how many times cmd was received
func (t *LoggingTarget) Count(cmd input.Command) int {
	return t.counts[cmd]
}

// Last returns the most recent command, or CommandNone
func (t *LoggingTarget) Last() input.Command {
	return t.last
}

func (t *LoggingTarget) record(cmd input.Command) {
	t.counts[cmd]++
	t.last = cmd
	logger.Info("Render command", "command", cmd, "count", t.counts[cmd])
}

func (t *LoggingTarget) IncreaseParameter() { t.record(input.CommandIncreaseParameter) }
func (t *LoggingTarget) DecreaseParameter() { t.record(input.CommandDecreaseParameter) }
func (t *LoggingTarget) MoveParameterUp()   { t.record(input.CommandMoveParameterUp) }
func (t *LoggingTarget) MoveParameterDown() { t.record(input.CommandMoveParameterDown) }
func (t *LoggingTarget) RemovePartition()   { t.record(input.CommandRemovePartition) }
func (t *LoggingTarget) AddPartition()      { t.record(input.CommandAddPartition) }
func (t *LoggingTarget) SetFluidX()         { t.record(input.CommandSetFluidX) }
func (t *LoggingTarget) SetFluidY()         { t.record(input.CommandSetFluidY) }
func (t *LoggingTarget) SetFluidA()         { t.record(input.CommandSetFluidA) }
func (t *LoggingTarget) SetFluidB()         { t.record(input.CommandSetFluidB) }
