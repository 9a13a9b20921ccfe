package controller

import (
	"github.com/watchroom/server/pkg/wsrouter"
)

func (c *controller) getWSRouter() *wsrouter.WSRouter {
	mux := wsrouter.New()

	mux.Use(c.wsRequestIdMw(), c.wsLoggerMw())

	// room
	wsrouter.Handle(mux, "join_room", c.handleJoinRoom)

	// playback
	wsrouter.Handle(mux, "video_change", c.handleVideoChange)
	wsrouter.Handle(mux, "resync_video", c.handleResyncVideo)

	// chat
	wsrouter.Handle(mux, "send_message", c.handleSendMessage)

	// search
	wsrouter.Handle(mux, "search_youtube", c.handleSearchYoutube)

	return mux
}
