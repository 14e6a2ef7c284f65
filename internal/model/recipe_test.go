package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPlaceholder(t *testing.T) {
	r := NewPlaceholder()
	assert.Equal(t, UnsavedID, r.ID)
	assert.Equal(t, PlaceholderTitle, r.Title)
	assert.Equal(t, PlaceholderBody, r.Body)
	assert.False(t, r.IsPersisted())
}

func TestPlaceholderWireFormat(t *testing.T) {
	b, err := json.Marshal(NewPlaceholder())
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":0,"title":"Uus retsept","body":"Uue retsepti kirjeldus"}`, string(b))
}

func TestIsPersisted(t *testing.T) {
	assert.True(t, Recipe{ID: 7}.IsPersisted())
}
