package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestViewJSON(t *testing.T) {
	t.Run("fresh state", func(t *testing.T) {
		gs := newTestState(t, 16)

		data, err := json.Marshal(gs.View())
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(data, &decoded))
		require.Equal(t, "placement", decoded["phase"])
		require.Equal(t, "R", decoded["currentPlayer"])
		require.Equal(t, map[string]any{"R": 0.0, "B": 0.0}, decoded["placed"])
		require.Equal(t, 16.0, decoded["piecesPerPlayer"])
		require.Equal(t, 4.0, decoded["holeSquareIndex"])
		require.ElementsMatch(t, []any{1.0, 3.0, 5.0, 7.0}, decoded["legalSlides"])
		require.Nil(t, decoded["blockedSlideSquareIndex"])
		require.Nil(t, decoded["winner"])
		require.Nil(t, decoded["drawReason"])
		require.Contains(t, decoded, "winner", "Unset fields are sent as null, not omitted")

		board := decoded["board"].([]any)
		require.Len(t, board, 9)
		for _, square := range board {
			require.Equal(t, []any{nil, nil, nil, nil}, square)
		}
	})

	t.Run("pieces, lock and winner", func(t *testing.T) {
		gs := newTestState(t, 4)
		require.NoError(t, gs.Place(1, 0, Red))
		require.NoError(t, gs.Slide(1, Red))
		gs.Winner = Blue

		data, err := json.Marshal(gs.View())
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(data, &decoded))
		require.Equal(t, []any{"R", nil, nil, nil}, decoded["board"].([]any)[4])
		require.Equal(t, 4.0, decoded["blockedSlideSquareIndex"])
		require.Equal(t, "B", decoded["winner"])
	})

	t.Run("draw reason", func(t *testing.T) {
		gs := newTestState(t, 4)
		gs.DrawReason = NoLegalSlides

		view := gs.View()

		require.NotNil(t, view.DrawReason)
		require.Equal(t, "noLegalSlides", *view.DrawReason)
	})
}

func TestViewIsReadOnly(t *testing.T) {
	gs := reachMovement(t)
	before := gs.Clone()

	first, err := json.Marshal(gs.View())
	require.NoError(t, err)
	second, err := json.Marshal(gs.View())
	require.NoError(t, err)

	require.JSONEq(t, string(first), string(second))
	require.Equal(t, before, gs)
}

func TestViewRoundTrip(t *testing.T) {
	gs := reachMovement(t)
	data, err := json.Marshal(gs.View())
	require.NoError(t, err)

	var view View
	require.NoError(t, json.Unmarshal(data, &view))

	require.Equal(t, gs.View(), view)
}
