package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMillisToDuration(t *testing.T) {
	require.Equal(t, 30*time.Second, MillisToDuration(30000))
	require.Zero(t, MillisToDuration(0))
	require.Zero(t, MillisToDuration(-5))
}

func TestNowUTC(t *testing.T) {
	require.Equal(t, time.UTC, NowUTC().Location())
}
