package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T {
	return &v
}

func TestNewVideoDefaults(t *testing.T) {
	now := time.Now()
	v := NewVideo(nil, nil, nil, nil, now)

	assert.Equal(t, DefaultPlatform, v.Platform)
	assert.Equal(t, DefaultTitle, v.Title)
	assert.False(t, v.IsPlaying)
	assert.Equal(t, 0.0, v.Time)
	assert.Equal(t, now, v.LastUpdate)
}

func TestEffectiveTimeWhilePlaying(t *testing.T) {
	t0 := time.Now()
	v := Video{IsPlaying: true, Time: 10, LastUpdate: t0}

	assert.InDelta(t, 15, v.EffectiveTime(t0.Add(5*time.Second)), 0.05)
}

func TestEffectiveTimeWhilePaused(t *testing.T) {
	t0 := time.Now()
	v := Video{IsPlaying: false, Time: 10, LastUpdate: t0}

	assert.Equal(t, 10.0, v.EffectiveTime(t0.Add(5*time.Second)))
}

func TestEffectiveTimeNeverRewinds(t *testing.T) {
	t0 := time.Now()
	v := Video{IsPlaying: true, Time: 10, LastUpdate: t0}

	// a query timestamp behind the last update must not subtract
	assert.Equal(t, 10.0, v.EffectiveTime(t0.Add(-3*time.Second)))
}

func TestLoadResetsPlayback(t *testing.T) {
	t0 := time.Now()
	v := Video{Platform: "YouTube", URL: "old", Title: "old title", Time: 42, IsPlaying: false, LastUpdate: t0}

	now := t0.Add(time.Minute)
	v.Load(ptr("new"), nil, nil, nil, now)

	assert.Equal(t, "new", v.URL)
	assert.Equal(t, "old title", v.Title, "absent override keeps previous value")
	assert.Equal(t, 0.0, v.Time)
	assert.True(t, v.IsPlaying)
	assert.Equal(t, now, v.LastUpdate)
}

func TestPauseWithoutTimeAdvancesByElapsed(t *testing.T) {
	t0 := time.Now()
	v := Video{IsPlaying: true, Time: 10, LastUpdate: t0}

	v.Pause(nil, t0.Add(3*time.Second))

	assert.InDelta(t, 13, v.Time, 0.05)
	assert.False(t, v.IsPlaying)
}

func TestPauseWithTimeFreezesAtSuppliedPosition(t *testing.T) {
	t0 := time.Now()
	v := Video{IsPlaying: true, Time: 10, LastUpdate: t0}

	v.Pause(ptr(20.0), t0.Add(3*time.Second))

	assert.Equal(t, 20.0, v.Time)
	assert.False(t, v.IsPlaying)
}

func TestPauseWhileAlreadyPaused(t *testing.T) {
	t0 := time.Now()
	v := Video{IsPlaying: false, Time: 10, LastUpdate: t0}

	v.Pause(nil, t0.Add(3*time.Second))

	assert.Equal(t, 10.0, v.Time, "paused position must not advance")
}

func TestPlayKeepsPositionWithoutTime(t *testing.T) {
	t0 := time.Now()
	v := Video{IsPlaying: false, Time: 10, LastUpdate: t0}

	now := t0.Add(time.Second)
	v.Play(nil, now)

	assert.Equal(t, 10.0, v.Time)
	assert.True(t, v.IsPlaying)
	assert.Equal(t, now, v.LastUpdate)
}

func TestSeekDefaultsToZero(t *testing.T) {
	t0 := time.Now()
	v := Video{IsPlaying: true, Time: 10, LastUpdate: t0}

	v.Seek(nil, t0.Add(time.Second))

	assert.Equal(t, 0.0, v.Time)
	assert.True(t, v.IsPlaying, "seek must not change play state")
}

func TestSetTimeKeepsPlayState(t *testing.T) {
	t0 := time.Now()
	v := Video{IsPlaying: true, Time: 10, LastUpdate: t0}

	now := t0.Add(10 * time.Second)
	v.SetTime(19.5, now)

	assert.Equal(t, 19.5, v.Time)
	assert.True(t, v.IsPlaying)
	assert.Equal(t, now, v.LastUpdate)
}
