package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateRegistered, "registered"},
		{StateStarting, "starting"},
		{StateRunning, "running"},
		{StateStopping, "stopping"},
		{StateStopped, "stopped"},
		{StateFailed, "failed"},
		{State(99), "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.state.String())
	}
}

func TestStateTerminal(t *testing.T) {
	assert.True(t, StateStopped.Terminal())
	assert.True(t, StateFailed.Terminal())
	assert.False(t, StateRegistered.Terminal())
	assert.False(t, StateStarting.Terminal())
	assert.False(t, StateRunning.Terminal())
	assert.False(t, StateStopping.Terminal())
}

func TestCanTransitionTo(t *testing.T) {
	all := []State{
		StateRegistered, StateStarting, StateRunning,
		StateStopping, StateStopped, StateFailed,
	}

	legal := map[State][]State{
		StateRegistered: {StateStarting},
		StateStarting:   {StateRunning, StateFailed},
		StateRunning:    {StateStopping},
		StateStopping:   {StateStopped, StateFailed},
		StateStopped:    {},
		StateFailed:     {},
	}

	for from, successors := range legal {
		allowed := make(map[State]bool, len(successors))
		for _, s := range successors {
			allowed[s] = true
		}
		for _, to := range all {
			assert.Equal(t, allowed[to], from.CanTransitionTo(to),
				"%s -> %s", from, to)
		}
	}
}
