package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type channelForm struct {
	Name string `json:"name" validate:"required,channel-name"`
	Role string `json:"role" validate:"omitempty,member-role"`
}

func TestValidate_CustomRules(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&channelForm{Name: "plan budget", Role: "admin"}))

	err := v.Validate(&channelForm{Name: "ab", Role: "owner"})
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "Must be between 3 and 80 characters", vErr.Errors["name"])
	assert.Equal(t, "Must be one of: admin, member", vErr.Errors["role"])
	assert.Contains(t, vErr.Error(), "field 'name'")
}

func TestValidate_Required(t *testing.T) {
	err := New().Validate(&channelForm{})
	require.Error(t, err)
	assert.Equal(t, "This field is required", err.(*ValidationError).Errors["name"])
}
