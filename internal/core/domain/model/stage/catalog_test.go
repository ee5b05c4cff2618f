package stage_test

import (
	"testing"

	"warehouse/internal/core/domain/model/stage"
	"warehouse/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var legalMoves = map[stage.Stage][]stage.Stage{
	stage.Intake:         {stage.Processing, stage.Cancelled},
	stage.Processing:     {stage.FabricWork, stage.Cancelled},
	stage.FabricWork:     {stage.QualityCheck, stage.Cancelled},
	stage.QualityCheck:   {stage.QualityPassed, stage.ReworkRequired, stage.Cancelled},
	stage.QualityPassed:  {stage.ReadyToShip, stage.Cancelled},
	stage.ReworkRequired: {stage.Processing, stage.Cancelled},
	stage.ReadyToShip:    {stage.Shipped, stage.Cancelled},
	stage.Shipped:        {},
	stage.Cancelled:      {},
}

func reachableFromIntake() []stage.Stage {
	seen := map[stage.Stage]bool{stage.Intake: true}
	queue := []stage.Stage{stage.Intake}
	order := []stage.Stage{}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		order = append(order, current)
		for _, next := range stage.Transitions(current) {
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return order
}

func TestIsValidTransition_MatchesTableForEveryPair(t *testing.T) {
	reachable := reachableFromIntake()
	assert.ElementsMatch(t, stage.All(), reachable, "every stage must be reachable from Intake")

	for _, from := range reachable {
		for _, to := range append(stage.All(), stage.Unknown) {
			expected := contains(legalMoves[from], to)

			assert.Equal(t, expected, stage.IsValidTransition(from, to), "%s -> %s", from, to)

			err := stage.CheckTransition(from, to)
			if expected {
				require.NoError(t, err, "%s -> %s", from, to)
				continue
			}
			require.ErrorIs(t, err, stage.ErrIllegalTransition, "%s -> %s", from, to)
			var illegal *stage.IllegalTransitionError
			require.ErrorAs(t, err, &illegal)
			assert.Equal(t, from, illegal.From)
			assert.Equal(t, to, illegal.To)
		}
	}
}

func TestIsValidTransition_NoSelfLoops(t *testing.T) {
	for _, s := range stage.All() {
		assert.False(t, stage.IsValidTransition(s, s), "%s must not loop onto itself", s)
	}
}

func TestTerminalStages(t *testing.T) {
	for _, s := range stage.All() {
		terminal := s == stage.Shipped || s == stage.Cancelled
		assert.Equal(t, terminal, stage.IsTerminal(s), s.String())
		if terminal {
			assert.Empty(t, stage.Transitions(s))
		}
	}

	err := stage.CheckTransition(stage.Shipped, stage.Processing)
	require.ErrorIs(t, err, stage.ErrIllegalTransition)
	assert.Contains(t, err.Error(), "Shipped is terminal")
}

func TestIsReworkTarget(t *testing.T) {
	for _, s := range stage.All() {
		assert.Equal(t, s == stage.ReworkRequired, stage.IsReworkTarget(s), s.String())
	}
}

func TestIsReworkCompletion(t *testing.T) {
	assert.True(t, stage.IsReworkCompletion(stage.ReworkRequired, stage.Processing))
	assert.False(t, stage.IsReworkCompletion(stage.Intake, stage.Processing))
	assert.False(t, stage.IsReworkCompletion(stage.ReworkRequired, stage.Cancelled))
}

func TestTransitions_ListsLegalTargets(t *testing.T) {
	for from, targets := range legalMoves {
		assert.ElementsMatch(t, targets, stage.Transitions(from), from.String())
	}
	assert.Nil(t, stage.Transitions(stage.Unknown))
}

func TestParseAndString(t *testing.T) {
	for _, s := range stage.All() {
		parsed, err := stage.Parse(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
		require.NoError(t, s.Validate())
	}

	_, err := stage.Parse("Wareneingang")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = stage.Parse("Unknown")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	assert.Equal(t, "Unknown", stage.Stage(42).String())
	require.ErrorIs(t, stage.Stage(42).Validate(), errs.ErrValueIsInvalid)
	require.ErrorIs(t, stage.Unknown.Validate(), errs.ErrValueIsInvalid)
}

func contains(list []stage.Stage, s stage.Stage) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
