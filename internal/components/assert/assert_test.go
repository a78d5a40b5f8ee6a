package assert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type thing struct{}

func TestNotNil(t *testing.T) {
	var nilPtr *thing
	require.PanicsWithValue(t, "expected thing to be not nil", func() { NotNil(nil, "thing") })
	require.PanicsWithValue(t, "expected thing to be not nil", func() { NotNil(nilPtr, "thing") })
	require.NotPanics(t, func() { NotNil(&thing{}, "thing") })
	require.NotPanics(t, func() { NotNil(thing{}, "thing") })
}

func TestNotEmptyStr(t *testing.T) {
	require.Panics(t, func() { NotEmptyStr("", "site") })
	require.NotPanics(t, func() { NotEmptyStr("https://example.com", "site") })
}

func TestPositiveDuration(t *testing.T) {
	require.Panics(t, func() { PositiveDuration(0, "tick") })
	require.NotPanics(t, func() { PositiveDuration(time.Minute, "tick") })
}
