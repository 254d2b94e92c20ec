package statemachine

import (
	"care-circle-api/apperrors"
	"care-circle-api/models"
)

// Transition defines a valid state change and who can perform it
type Transition struct {
	From  models.RequestStatus
	To    models.RequestStatus
	Actor string // "elder", "helper"
}

const (
	ActorElder  = "elder"
	ActorHelper = "helper"
)

// validTransitions is the authoritative state machine definition.
// searching → assigned goes through the assignment coordinator only; the
// rest of the helper chain advances strictly one step at a time. The single
// side exit is the elder cancelling an unassigned request. completed and
// cancelled are terminal.
var validTransitions = []Transition{
	{From: models.StatusSearching, To: models.StatusAssigned, Actor: ActorHelper},
	{From: models.StatusSearching, To: models.StatusCancelled, Actor: ActorElder},
	{From: models.StatusAssigned, To: models.StatusOnTheWay, Actor: ActorHelper},
	{From: models.StatusOnTheWay, To: models.StatusInProgress, Actor: ActorHelper},
	{From: models.StatusInProgress, To: models.StatusCompleted, Actor: ActorHelper},
}

type transitionKey struct {
	From  models.RequestStatus
	To    models.RequestStatus
	Actor string
}

// Build a lookup map for O(1) validation
var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.RequestStatus) []models.RequestStatus {
	var nexts []models.RequestStatus
	seen := map[models.RequestStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// CanTransition checks if a given actor can move from one state to another
func CanTransition(from, to models.RequestStatus, actor string) error {
	if transitionMap[transitionKey{From: from, To: to, Actor: actor}] {
		return nil
	}
	allowed := []string{}
	for _, s := range ValidTransitionsFrom(from) {
		allowed = append(allowed, string(s))
	}
	return &apperrors.IllegalTransitionError{
		From:    string(from),
		To:      string(to),
		Actor:   actor,
		Allowed: allowed,
	}
}

// NextForHelper returns the strict successor the assigned helper may advance
// to, or false when the helper has no legal move from this state. Skipping
// steps is never legal.
func NextForHelper(from models.RequestStatus) (models.RequestStatus, bool) {
	switch from {
	case models.StatusAssigned:
		return models.StatusOnTheWay, true
	case models.StatusOnTheWay:
		return models.StatusInProgress, true
	case models.StatusInProgress:
		return models.StatusCompleted, true
	}
	return "", false
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}
