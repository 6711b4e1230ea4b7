package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserExtraRoundTrip(t *testing.T) {
	u := SeedUsers()[0]
	u.Extra = map[string]any{"priority": ""}

	data, err := json.Marshal(u)
	require.NoError(t, err)

	var got User
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, u.Role, got.Role)
	assert.Equal(t, map[string]any{"priority": ""}, got.Extra)
}

func TestExtraNeverOverwritesDeclaredField(t *testing.T) {
	g := Gem{ID: "g1", Name: "real", Extra: map[string]any{"name": "shadow"}}

	data, err := json.Marshal(g)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, "real", m["name"])
}

func TestUnknownFieldsLandInExtra(t *testing.T) {
	raw := `{"id":"t9","name":"Figma","url":"https://figma.com","icon":"fa-pen","color":"text-pink-500","legacy":"yes"}`

	var tool Tool
	require.NoError(t, json.Unmarshal([]byte(raw), &tool))
	assert.Equal(t, "Figma", tool.Name)
	assert.Equal(t, map[string]any{"legacy": "yes"}, tool.Extra)
}

func TestAbsentDeclaredFieldStaysAbsent(t *testing.T) {
	raw := `{"id":"u9","name":"Sin Correo","role":"Developer","avatar":"","skills":[],"projects":[]}`

	var u User
	require.NoError(t, json.Unmarshal([]byte(raw), &u))
	assert.Equal(t, "", u.Email)

	data, err := json.Marshal(u)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	_, present := m["email"]
	assert.False(t, present, "absent declared key must not re-materialize as a zero value")
	assert.Contains(t, m, "name")
}

func TestIDAssignedAfterDecodeIsSerialized(t *testing.T) {
	var g Gem
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Nuevo","url":"https://example.com"}`), &g))
	g.ID = "g9"

	data, err := json.Marshal(g)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, "g9", m["id"])
}

func TestNoExtraStaysNil(t *testing.T) {
	p := SeedProjects()[0]
	data, err := json.Marshal(p)
	require.NoError(t, err)

	var got Project
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Nil(t, got.Extra)
}

func TestSeedsReturnFreshCopies(t *testing.T) {
	a := SeedUsers()
	a[0].Name = "mutated"
	b := SeedUsers()
	assert.Equal(t, "AIWIS Master", b[0].Name)
}
