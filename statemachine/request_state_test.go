package statemachine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"care-circle-api/apperrors"
	"care-circle-api/models"
)

func TestLegalTransitions(t *testing.T) {
	legal := []struct {
		from, to models.RequestStatus
		actor    string
	}{
		{models.StatusSearching, models.StatusAssigned, ActorHelper},
		{models.StatusSearching, models.StatusCancelled, ActorElder},
		{models.StatusAssigned, models.StatusOnTheWay, ActorHelper},
		{models.StatusOnTheWay, models.StatusInProgress, ActorHelper},
		{models.StatusInProgress, models.StatusCompleted, ActorHelper},
	}
	for _, tt := range legal {
		assert.NoError(t, CanTransition(tt.from, tt.to, tt.actor),
			"%s → %s by %s should be legal", tt.from, tt.to, tt.actor)
	}
}

func TestIllegalTransitions(t *testing.T) {
	illegal := []struct {
		from, to models.RequestStatus
		actor    string
	}{
		// skipping steps
		{models.StatusSearching, models.StatusOnTheWay, ActorHelper},
		{models.StatusAssigned, models.StatusInProgress, ActorHelper},
		{models.StatusAssigned, models.StatusCompleted, ActorHelper},
		// going backwards
		{models.StatusInProgress, models.StatusAssigned, ActorHelper},
		{models.StatusCompleted, models.StatusInProgress, ActorHelper},
		// wrong actor
		{models.StatusSearching, models.StatusCancelled, ActorHelper},
		{models.StatusAssigned, models.StatusOnTheWay, ActorElder},
		// cancellation after assignment has no edge
		{models.StatusAssigned, models.StatusCancelled, ActorElder},
		{models.StatusInProgress, models.StatusCancelled, ActorElder},
		// terminal states never leave
		{models.StatusCompleted, models.StatusAssigned, ActorHelper},
		{models.StatusCancelled, models.StatusSearching, ActorElder},
	}
	for _, tt := range illegal {
		err := CanTransition(tt.from, tt.to, tt.actor)
		require.Error(t, err, "%s → %s by %s should be rejected", tt.from, tt.to, tt.actor)

		var itErr *apperrors.IllegalTransitionError
		assert.True(t, errors.As(err, &itErr))
		assert.Equal(t, string(tt.from), itErr.From)
		assert.Equal(t, string(tt.to), itErr.To)
	}
}

func TestNextForHelper(t *testing.T) {
	next, ok := NextForHelper(models.StatusAssigned)
	require.True(t, ok)
	assert.Equal(t, models.StatusOnTheWay, next)

	next, ok = NextForHelper(models.StatusOnTheWay)
	require.True(t, ok)
	assert.Equal(t, models.StatusInProgress, next)

	next, ok = NextForHelper(models.StatusInProgress)
	require.True(t, ok)
	assert.Equal(t, models.StatusCompleted, next)

	for _, s := range []models.RequestStatus{
		models.StatusSearching, models.StatusCompleted, models.StatusCancelled,
	} {
		_, ok := NextForHelper(s)
		assert.False(t, ok, "no helper move from %s", s)
	}
}

func TestValidTransitionsFrom(t *testing.T) {
	assert.ElementsMatch(t,
		[]models.RequestStatus{models.StatusAssigned, models.StatusCancelled},
		ValidTransitionsFrom(models.StatusSearching))
	assert.Empty(t, ValidTransitionsFrom(models.StatusCompleted))
	assert.Empty(t, ValidTransitionsFrom(models.StatusCancelled))
}

func TestTerminalStates(t *testing.T) {
	assert.True(t, models.StatusCompleted.Terminal())
	assert.True(t, models.StatusCancelled.Terminal())
	assert.False(t, models.StatusSearching.Terminal())
	assert.False(t, models.StatusInProgress.Terminal())
}
