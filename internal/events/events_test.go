package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoom(t *testing.T) {
	kind, id, err := ParseRoom(ChannelRoom("c1"))
	require.NoError(t, err)
	assert.Equal(t, KindChannel, kind)
	assert.Equal(t, "c1", id)

	for _, bad := range []string{"", "channel", "channel:", "dm:abc"} {
		_, _, err := ParseRoom(bad)
		assert.Error(t, err, bad)
	}
}
