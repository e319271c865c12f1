package value_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Valkyrja-Design/holo/lang/value"
)

func TestIsTruthy(t *testing.T) {
	require.False(t, value.IsTruthy(value.Nil))
	require.False(t, value.IsTruthy(value.Bool(false)))
	require.True(t, value.IsTruthy(value.Bool(true)))
	require.True(t, value.IsTruthy(value.Number(0)))
	require.True(t, value.IsTruthy(value.Number(1)))
}

func TestEqualScalars(t *testing.T) {
	require.True(t, value.Equal(value.Nil, value.Nil))
	require.True(t, value.Equal(value.Number(1), value.Number(1)))
	require.False(t, value.Equal(value.Number(1), value.Number(2)))
	require.True(t, value.Equal(value.Bool(true), value.Bool(true)))
	require.False(t, value.Equal(value.Bool(true), value.Bool(false)))
}

func TestEqualHeterogeneousNeverEqual(t *testing.T) {
	require.False(t, value.Equal(value.Nil, value.Bool(false)))
	require.False(t, value.Equal(value.Number(0), value.Bool(false)))
	require.False(t, value.Equal(value.Number(0), value.Nil))
}

func TestDisplayForms(t *testing.T) {
	require.Equal(t, "nil", value.Nil.String())
	require.Equal(t, "true", value.Bool(true).String())
	require.Equal(t, "false", value.Bool(false).String())
}
