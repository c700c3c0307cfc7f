package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringListValue(t *testing.T) {
	value, err := StringList{"a.mp3", "b.mp3"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["a.mp3","b.mp3"]`, value)

	empty, err := StringList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", empty)
}

func TestStringListScan(t *testing.T) {
	var list StringList
	require.NoError(t, list.Scan([]byte(`["a.mp3","b.mp3"]`)))
	assert.Equal(t, StringList{"a.mp3", "b.mp3"}, list)

	require.NoError(t, list.Scan("[]"))
	assert.Empty(t, list)

	require.NoError(t, list.Scan(nil))
	assert.Nil(t, list)

	assert.Error(t, list.Scan(42))
}
