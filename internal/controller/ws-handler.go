package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/watchroom/server/internal/service/room"
	"github.com/watchroom/server/pkg/wsrouter"
)

type InitialVideoInput struct {
	URL       *string `json:"url"`
	Title     *string `json:"title"`
	Thumbnail *string `json:"thumbnail"`
}

type JoinRoomInput struct {
	RoomId       string             `json:"room_id" validate:"required"`
	Username     string             `json:"username" validate:"required"`
	Avatar       string             `json:"avatar"`
	Platform     *string            `json:"platform"`
	InitialVideo *InitialVideoInput `json:"initial_video"`
}

func (c controller) handleJoinRoom(ctx context.Context, conn wsrouter.Conn, input JoinRoomInput) error {
	if errs, ok := c.validate.Validate(input); !ok {
		c.logger.DebugContext(ctx, "invalid join payload", "errors", errs)
		return nil
	}

	var initialVideo *room.InitialVideo
	if input.InitialVideo != nil {
		initialVideo = &room.InitialVideo{
			URL:       input.InitialVideo.URL,
			Title:     input.InitialVideo.Title,
			Thumbnail: input.InitialVideo.Thumbnail,
		}
	}

	joinRoomResp, err := c.roomService.JoinRoom(ctx, &room.JoinRoomParams{
		RoomId:       input.RoomId,
		SenderId:     c.getClientIdFromCtx(ctx),
		Username:     input.Username,
		Avatar:       input.Avatar,
		Platform:     input.Platform,
		InitialVideo: initialVideo,
	})
	if err != nil {
		return fmt.Errorf("failed to join room: %w", err)
	}

	c.broadcast(ctx, joinRoomResp.Conns, &Output{
		Type:    "room_data",
		Payload: joinRoomResp.Room,
	})

	c.writeToConn(ctx, conn, &Output{
		Type:    "sync_video",
		Payload: joinRoomResp.Sync,
	})

	c.broadcastRoomList(ctx)

	return nil
}

type VideoChangeInput struct {
	RoomId    string   `json:"room_id" validate:"required"`
	Action    string   `json:"action" validate:"required,oneof=load play pause seek time"`
	URL       *string  `json:"url"`
	Title     *string  `json:"title"`
	Thumbnail *string  `json:"thumbnail"`
	Platform  *string  `json:"platform"`
	Time      *float64 `json:"time"`
}

func (c controller) handleVideoChange(ctx context.Context, conn wsrouter.Conn, input VideoChangeInput) error {
	if errs, ok := c.validate.Validate(input); !ok {
		c.logger.DebugContext(ctx, "invalid video change payload", "errors", errs)
		return nil
	}

	changeVideoResp, err := c.roomService.ChangeVideo(ctx, &room.ChangeVideoParams{
		RoomId:    input.RoomId,
		SenderId:  c.getClientIdFromCtx(ctx),
		Action:    input.Action,
		URL:       input.URL,
		Title:     input.Title,
		Thumbnail: input.Thumbnail,
		Platform:  input.Platform,
		Time:      input.Time,
	})
	if err != nil {
		// rejected events stay silent on the wire
		if errors.Is(err, room.ErrRoomNotFound) || errors.Is(err, room.ErrNotHost) || errors.Is(err, room.ErrInvalidTime) {
			c.logger.DebugContext(ctx, "video change dropped", "error", err)
			return nil
		}
		return fmt.Errorf("failed to change video: %w", err)
	}

	if changeVideoResp.Sync != nil {
		c.broadcast(ctx, changeVideoResp.Conns, &Output{
			Type:    "sync_video",
			Payload: changeVideoResp.Sync,
		})
	}

	if changeVideoResp.Room != nil {
		c.broadcast(ctx, changeVideoResp.Conns, &Output{
			Type:    "room_data",
			Payload: changeVideoResp.Room,
		})
		c.broadcastRoomList(ctx)
	}

	return nil
}

type ResyncVideoInput struct {
	RoomId string `json:"room_id" validate:"required"`
}

func (c controller) handleResyncVideo(ctx context.Context, conn wsrouter.Conn, input ResyncVideoInput) error {
	if errs, ok := c.validate.Validate(input); !ok {
		c.logger.DebugContext(ctx, "invalid resync payload", "errors", errs)
		return nil
	}

	resyncResp, err := c.roomService.Resync(ctx, &room.ResyncParams{
		RoomId:   input.RoomId,
		SenderId: c.getClientIdFromCtx(ctx),
	})
	if err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			c.logger.DebugContext(ctx, "resync dropped", "error", err)
			return nil
		}
		return fmt.Errorf("failed to resync video: %w", err)
	}

	c.writeToConn(ctx, conn, &Output{
		Type:    "sync_video",
		Payload: resyncResp.Sync,
	})

	return nil
}

type SendMessageInput struct {
	RoomId   string `json:"room_id" validate:"required"`
	Message  string `json:"message" validate:"required"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

func (c controller) handleSendMessage(ctx context.Context, conn wsrouter.Conn, input SendMessageInput) error {
	if errs, ok := c.validate.Validate(input); !ok {
		c.logger.DebugContext(ctx, "invalid message payload", "errors", errs)
		return nil
	}

	sendMessageResp, err := c.roomService.SendMessage(ctx, &room.SendMessageParams{
		RoomId:   input.RoomId,
		SenderId: c.getClientIdFromCtx(ctx),
		Message:  input.Message,
		Username: input.Username,
		Avatar:   input.Avatar,
	})
	if err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			c.logger.DebugContext(ctx, "message dropped", "error", err)
			return nil
		}
		return fmt.Errorf("failed to send message: %w", err)
	}

	c.broadcast(ctx, sendMessageResp.Conns, &Output{
		Type:    "receive_message",
		Payload: sendMessageResp.Message,
	})

	return nil
}

type SearchYoutubeInput struct {
	Query string `json:"query"`
}

func (c controller) handleSearchYoutube(ctx context.Context, conn wsrouter.Conn, input SearchYoutubeInput) error {
	if input.Query == "" {
		return nil
	}

	videos := c.searchService.Search(ctx, input.Query)

	c.writeToConn(ctx, conn, &Output{
		Type:    "search_results",
		Payload: videos,
	})

	return nil
}
