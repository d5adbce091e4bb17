package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTilePayload_Validate(t *testing.T) {
	assert.NoError(t, TilePayload{X: 0, Y: 0}.Validate())
	assert.NoError(t, TilePayload{X: 10, Y: 3}.Validate())
	assert.Error(t, TilePayload{X: -1, Y: 0}.Validate())
	assert.Error(t, TilePayload{X: 0, Y: -5}.Validate())
}

func TestUnitPayload_Validate(t *testing.T) {
	assert.NoError(t, UnitPayload{UnitID: "[ALLY:1]"}.Validate())
	assert.Error(t, UnitPayload{}.Validate())
}

func TestClientCommand_Decode(t *testing.T) {
	raw := `{"action":"MOVE","token":"[ALLY:1]","payload":{"x":5,"y":7}}`

	var cmd ClientCommand
	require.NoError(t, json.Unmarshal([]byte(raw), &cmd))
	assert.Equal(t, "MOVE", cmd.Action)
	assert.Equal(t, "[ALLY:1]", cmd.Token)

	var p TilePayload
	require.NoError(t, json.Unmarshal(cmd.Payload, &p))
	assert.Equal(t, TilePayload{X: 5, Y: 7}, p)
}
