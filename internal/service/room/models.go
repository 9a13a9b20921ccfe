package room

import (
	"time"

	"github.com/watchroom/server/internal/domain"
)

const (
	ActionLoad  = "load"
	ActionPlay  = "play"
	ActionPause = "pause"
	ActionSeek  = "seek"
	ActionTime  = "time"
	ActionSync  = "sync"
)

type Member struct {
	Id       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

type Video struct {
	Platform  string  `json:"platform"`
	URL       string  `json:"url"`
	Title     string  `json:"title"`
	Thumbnail string  `json:"thumbnail"`
	IsPlaying bool    `json:"is_playing"`
	Time      float64 `json:"time"`
}

type Room struct {
	Id     string   `json:"id"`
	HostId string   `json:"host_id"`
	Users  []Member `json:"users"`
	Video  Video    `json:"video"`
}

// SyncVideo is the anchor delivered whenever a client must (re)position its
// local player. Time is always the projected position, never the raw stored
// one.
type SyncVideo struct {
	Platform  string  `json:"platform"`
	URL       string  `json:"url"`
	Title     string  `json:"title"`
	Thumbnail string  `json:"thumbnail"`
	IsPlaying bool    `json:"is_playing"`
	Time      float64 `json:"time"`
	Action    string  `json:"action"`
}

type ChatMessage struct {
	Id       int64  `json:"id"`
	SenderId string `json:"sender_id"`
	User     string `json:"user"`
	Text     string `json:"text"`
	Avatar   string `json:"avatar"`
}

func roomModel(r domain.Room) Room {
	users := make([]Member, 0, len(r.Members))
	for _, m := range r.Members {
		users = append(users, Member{
			Id:       m.Id,
			Username: m.Username,
			Avatar:   m.Avatar,
		})
	}

	return Room{
		Id:     r.Id,
		HostId: r.HostId,
		Users:  users,
		Video: Video{
			Platform:  r.Video.Platform,
			URL:       r.Video.URL,
			Title:     r.Video.Title,
			Thumbnail: r.Video.Thumbnail,
			IsPlaying: r.Video.IsPlaying,
			Time:      r.Video.Time,
		},
	}
}

func syncVideoModel(v domain.Video, action string, now time.Time) SyncVideo {
	return SyncVideo{
		Platform:  v.Platform,
		URL:       v.URL,
		Title:     v.Title,
		Thumbnail: v.Thumbnail,
		IsPlaying: v.IsPlaying,
		Time:      v.EffectiveTime(now),
		Action:    action,
	}
}
