package engine

import (
	"github.com/talgya/outbreak/internal/scenario"
	"github.com/talgya/outbreak/internal/world"
)

// TurnResult is either NextTurn or Victory. Switch on the concrete type.
type TurnResult interface {
	turnResult()
}

// NextTurn means the game continues.
type NextTurn struct {
	State           world.WorldState
	NewRandomEvents []string
}

// Victory means a victory condition was met and the game is over.
type Victory struct {
	Final      world.Snapshot
	Score      float64 // TotalCost summed over every turn
	TotalCases int     // NumInfected summed over every turn
	Condition  scenario.VictoryCondition
}

func (NextTurn) turnResult() {}
func (Victory) turnResult()  {}
