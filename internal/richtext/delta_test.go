package richtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Object(t *testing.T) {
	d, err := Parse([]byte(`{"ops":[{"insert":"hello "},{"insert":"world","attributes":{"bold":true}},{"insert":"\n"}]}`))
	require.NoError(t, err)
	assert.Equal(t, "hello world\n", d.PlainText())
	assert.False(t, d.IsBlank())
}

func TestParse_SerializedString(t *testing.T) {
	d, err := Parse([]byte(`"{\"ops\":[{\"insert\":\"hi\\n\"}]}"`))
	require.NoError(t, err)
	assert.Equal(t, "hi\n", d.PlainText())
}

func TestParse_EmbedsAreNotText(t *testing.T) {
	d, err := Parse([]byte(`{"ops":[{"insert":{"image":"x.png"}},{"insert":"\n"}]}`))
	require.NoError(t, err)
	assert.True(t, d.IsBlank())
}

func TestParse_Invalid(t *testing.T) {
	for _, raw := range []string{``, `null`, `[]`, `{"foo":1}`, `"not json"`} {
		_, err := Parse([]byte(raw))
		assert.ErrorIs(t, err, ErrInvalidDelta, raw)
	}
}

func TestFromText(t *testing.T) {
	d := FromText("ship it")
	assert.Equal(t, "ship it\n", d.PlainText())

	out, err := d.Normalize()
	require.NoError(t, err)
	assert.JSONEq(t, `{"ops":[{"insert":"ship it\n"}]}`, string(out))
}
