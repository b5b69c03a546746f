package playback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func consume(c *Controller, n int) []Command {
	cmds := make([]Command, 0, n)
	for i := 0; i < n; i++ {
		cmds = append(cmds, c.OnCaptionConsumed())
	}
	return cmds
}

func TestNewController_Idle(t *testing.T) {
	c := NewController()
	state := c.State()

	assert.Equal(t, PhaseIdle, state.Phase)
	assert.False(t, state.TrackKnown)
	assert.False(t, state.TotalKnown)
	assert.Equal(t, 0, state.ViewCount)
}

func TestOnSearchCompleted(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		wantErr   error
		wantPhase Phase
	}{
		{name: "no result", total: 0, wantErr: ErrNoResult, wantPhase: PhaseIdle},
		{name: "single track", total: 1, wantPhase: PhasePlaying},
		{name: "many tracks", total: 25, wantPhase: PhasePlaying},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController()
			cmd, err := c.OnSearchCompleted(SearchResult{TotalTracks: tt.total})

			assert.Equal(t, CommandNoOp, cmd)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			state := c.State()
			assert.Equal(t, tt.wantPhase, state.Phase)
			assert.True(t, state.TotalKnown)
			assert.Equal(t, tt.total, state.TotalTracks)
		})
	}
}

func TestOnSearchCompleted_NegativeTotal(t *testing.T) {
	c := NewController()
	cmd, err := c.OnSearchCompleted(SearchResult{TotalTracks: -1})

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoResult)
	assert.Equal(t, CommandNoOp, cmd)
	assert.False(t, c.State().TotalKnown)
}

func TestNoResultMessage(t *testing.T) {
	assert.Equal(t, "No Youglish result found", NoResultMessage)
}

func TestOnTrackChanged_ResetsViewCount(t *testing.T) {
	for prior := 0; prior <= 5; prior++ {
		c := NewController()
		_, err := c.OnSearchCompleted(SearchResult{TotalTracks: 10})
		require.NoError(t, err)
		c.OnTrackChanged(0)
		consume(c, prior)

		cmd := c.OnTrackChanged(4)

		state := c.State()
		assert.Equal(t, CommandNoOp, cmd)
		assert.Equal(t, 0, state.ViewCount, "prior view count %d", prior)
		assert.Equal(t, 4, state.TrackIndex)
		assert.True(t, state.TrackKnown)
	}
}

func TestOnCaptionConsumed_ReplayThenAdvance(t *testing.T) {
	c := NewController()
	_, err := c.OnSearchCompleted(SearchResult{TotalTracks: 3})
	require.NoError(t, err)
	c.OnTrackChanged(0)

	assert.Equal(t, []Command{CommandReplay, CommandReplay, CommandAdvance}, consume(c, ReplayThreshold))
}

func TestOnCaptionConsumed_LastTrackStops(t *testing.T) {
	c := NewController()
	_, err := c.OnSearchCompleted(SearchResult{TotalTracks: 3})
	require.NoError(t, err)
	c.OnTrackChanged(2)

	assert.Equal(t, []Command{CommandReplay, CommandReplay, CommandNoOp}, consume(c, ReplayThreshold))
	assert.Equal(t, PhaseFinished, c.State().Phase)

	// Further captions never advance past the end.
	assert.Equal(t, CommandNoOp, c.OnCaptionConsumed())
}

func TestOnCaptionConsumed_NeverAdvancesOnLastTrack(t *testing.T) {
	for total := 1; total <= 6; total++ {
		c := NewController()
		_, err := c.OnSearchCompleted(SearchResult{TotalTracks: total})
		require.NoError(t, err)
		c.OnTrackChanged(total - 1)

		for i := 0; i < 10; i++ {
			assert.NotEqual(t, CommandAdvance, c.OnCaptionConsumed(), "total %d", total)
		}
	}
}

func TestOnCaptionConsumed_BeforeTrackChange(t *testing.T) {
	c := NewController()
	_, err := c.OnSearchCompleted(SearchResult{TotalTracks: 2})
	require.NoError(t, err)

	// The widget autostarts on its first track.
	assert.Equal(t, []Command{CommandReplay, CommandReplay, CommandAdvance}, consume(c, ReplayThreshold))
}

func TestOnCaptionConsumed_TotalUnknown(t *testing.T) {
	c := NewController()
	c.OnTrackChanged(0)

	assert.Equal(t, []Command{CommandReplay, CommandReplay, CommandNoOp}, consume(c, ReplayThreshold))
	assert.Equal(t, PhaseIdle, c.State().Phase)
}

func TestOnTrackChanged_OutOfRangeIsNotValidated(t *testing.T) {
	c := NewController()
	_, err := c.OnSearchCompleted(SearchResult{TotalTracks: 2})
	require.NoError(t, err)

	c.OnTrackChanged(7)

	assert.Equal(t, 7, c.State().TrackIndex)
	assert.Equal(t, []Command{CommandReplay, CommandReplay, CommandNoOp}, consume(c, ReplayThreshold))
}

func TestScenario_TwoTracks(t *testing.T) {
	c := NewController()
	_, err := c.OnSearchCompleted(SearchResult{TotalTracks: 2})
	require.NoError(t, err)

	c.OnTrackChanged(0)
	assert.Equal(t, []Command{CommandReplay, CommandReplay, CommandAdvance}, consume(c, 3))

	c.OnTrackChanged(1)
	assert.Equal(t, []Command{CommandReplay, CommandReplay, CommandNoOp}, consume(c, 3))
	assert.Equal(t, PhaseFinished, c.State().Phase)
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "noop", CommandNoOp.String())
	assert.Equal(t, "replay", CommandReplay.String())
	assert.Equal(t, "advance", CommandAdvance.String())
	assert.Equal(t, "command(9)", Command(9).String())
	assert.Equal(t, "finished", PhaseFinished.String())
}
