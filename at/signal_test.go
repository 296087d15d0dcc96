package at_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sequans/monarch2/at"
)

func TestSignalLastWriterWins(t *testing.T) {
	s := at.NewSignal[int]()
	s.Put(1)
	s.Put(2)
	v, err := s.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestSignalObservedWithoutWaiting(t *testing.T) {
	s := at.NewSignal[string]()
	s.Put("early")
	// a reader that was not waiting when the value arrived still sees it
	v, err := s.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "early", v)
}

func TestSignalWaitHonoursContext(t *testing.T) {
	s := at.NewSignal[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := s.Wait(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSignalReset(t *testing.T) {
	s := at.NewSignal[int]()
	s.Put(7)
	s.Reset()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := s.Wait(ctx)
	require.Error(t, err, "a reset signal must not replay the cleared value")
}
