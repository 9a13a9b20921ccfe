package domain

import "time"

const (
	DefaultPlatform = "YouTube"
	DefaultTitle    = "Room"
)

// Video is the authoritative playback state of a room. Time is the play
// position in seconds as of LastUpdate.
type Video struct {
	Platform   string
	URL        string
	Title      string
	Thumbnail  string
	IsPlaying  bool
	Time       float64
	LastUpdate time.Time
}

func NewVideo(platform, url, title, thumbnail *string, now time.Time) Video {
	v := Video{
		Platform:   DefaultPlatform,
		Title:      DefaultTitle,
		IsPlaying:  false,
		Time:       0,
		LastUpdate: now,
	}
	if platform != nil && *platform != "" {
		v.Platform = *platform
	}
	if url != nil {
		v.URL = *url
	}
	if title != nil && *title != "" {
		v.Title = *title
	}
	if thumbnail != nil {
		v.Thumbnail = *thumbnail
	}

	return v
}

// Load changes the media identity. Absent overrides keep the previous value.
func (v *Video) Load(url, title, thumbnail, platform *string, now time.Time) {
	if url != nil {
		v.URL = *url
	}
	if title != nil && *title != "" {
		v.Title = *title
	}
	if thumbnail != nil && *thumbnail != "" {
		v.Thumbnail = *thumbnail
	}
	if platform != nil && *platform != "" {
		v.Platform = *platform
	}
	v.Time = 0
	v.IsPlaying = true
	v.LastUpdate = now
}

func (v *Video) Play(t *float64, now time.Time) {
	if t != nil {
		v.Time = *t
	}
	v.IsPlaying = true
	v.LastUpdate = now
}

// Pause freezes the position. Without an explicit time the stored position is
// first advanced by the wall-clock seconds elapsed since the last update, so
// the frozen position reflects the moment pause was issued rather than the
// moment the last heartbeat fired.
func (v *Video) Pause(t *float64, now time.Time) {
	switch {
	case t != nil:
		v.Time = *t
	case v.IsPlaying:
		v.Time = v.EffectiveTime(now)
	}
	v.IsPlaying = false
	v.LastUpdate = now
}

func (v *Video) Seek(t *float64, now time.Time) {
	if t != nil {
		v.Time = *t
	} else {
		v.Time = 0
	}
	v.LastUpdate = now
}

// SetTime is the host heartbeat: it keeps the clock fresh for late joiners
// and resyncs but never reaches other clients.
func (v *Video) SetTime(t float64, now time.Time) {
	v.Time = t
	v.LastUpdate = now
}

// EffectiveTime projects the current play position at now. While playing the
// stored position is advanced by the elapsed wall-clock seconds; paused state
// is returned as stored. One-way network latency is not compensated.
func (v Video) EffectiveTime(now time.Time) float64 {
	if !v.IsPlaying {
		return v.Time
	}

	elapsed := now.Sub(v.LastUpdate).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}

	return v.Time + elapsed
}
