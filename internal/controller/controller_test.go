package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	connInmemory "github.com/watchroom/server/internal/repository/connection/inmemory"
	roomInmemory "github.com/watchroom/server/internal/repository/room/inmemory"
	roomService "github.com/watchroom/server/internal/service/room"
	"github.com/watchroom/server/pkg/ytsearch"
)

type stubSearch struct {
	videos []ytsearch.Video
}

func (s stubSearch) Search(ctx context.Context, query string) []ytsearch.Video {
	return s.videos
}

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type roomDataPayload struct {
	Id     string `json:"id"`
	HostId string `json:"host_id"`
	Users  []struct {
		Id       string `json:"id"`
		Username string `json:"username"`
		Avatar   string `json:"avatar"`
	} `json:"users"`
	Video struct {
		Title     string  `json:"title"`
		IsPlaying bool    `json:"is_playing"`
		Time      float64 `json:"time"`
	} `json:"video"`
}

type syncVideoPayload struct {
	Action    string  `json:"action"`
	IsPlaying bool    `json:"is_playing"`
	Time      float64 `json:"time"`
	URL       string  `json:"url"`
}

type summaryPayload struct {
	Id        string   `json:"id"`
	Title     string   `json:"title"`
	UserCount int      `json:"users"`
	Avatars   []string `json:"avatars"`
}

type chatPayload struct {
	Id       int64  `json:"id"`
	SenderId string `json:"sender_id"`
	User     string `json:"user"`
	Text     string `json:"text"`
}

type wsClient struct {
	t    *testing.T
	conn *websocket.Conn
}

func dialWS(t *testing.T, server *httptest.Server) *wsClient {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return &wsClient{t: t, conn: conn}
}

func (c *wsClient) send(msgType string, payload any) {
	c.t.Helper()
	require.NoError(c.t, c.conn.WriteJSON(map[string]any{"type": msgType, "payload": payload}))
}

func (c *wsClient) readNext() envelope {
	c.t.Helper()
	c.conn.SetReadDeadline(time.Now().Add(3 * time.Second))

	var msg envelope
	require.NoError(c.t, c.conn.ReadJSON(&msg))

	return msg
}

// readUntil skips messages until one of the wanted type arrives.
func (c *wsClient) readUntil(msgType string) json.RawMessage {
	c.t.Helper()
	for i := 0; i < 10; i++ {
		msg := c.readNext()
		if msg.Type == msgType {
			return msg.Payload
		}
	}
	c.t.Fatalf("message of type %q never arrived", msgType)
	return nil
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.Default()
	rService := roomService.NewService(roomInmemory.NewRepo(logger), connInmemory.NewRepo(), logger)
	c := NewController(rService, stubSearch{videos: []ytsearch.Video{{VideoId: "v1", Title: "stub"}}}, logger)

	server := httptest.NewServer(c.GetMux())
	t.Cleanup(server.Close)

	return server
}

func TestRoomLifecycleOverWebsocket(t *testing.T) {
	server := newTestServer(t)

	// first subscriber sees an empty directory on connect
	alice := dialWS(t, server)
	list := decode[[]summaryPayload](t, alice.readUntil("room_list_update"))
	assert.Empty(t, list)

	// alice creates the room by joining it
	alice.send("join_room", map[string]any{"room_id": "r1", "username": "alice", "avatar": "cat"})

	roomData := decode[roomDataPayload](t, alice.readUntil("room_data"))
	require.Len(t, roomData.Users, 1)
	aliceId := roomData.Users[0].Id
	assert.Equal(t, aliceId, roomData.HostId, "creator holds host authority")
	assert.Equal(t, "Room", roomData.Video.Title)
	assert.False(t, roomData.Video.IsPlaying)

	sync := decode[syncVideoPayload](t, alice.readUntil("sync_video"))
	assert.Equal(t, "load", sync.Action)
	assert.Equal(t, 0.0, sync.Time)

	list = decode[[]summaryPayload](t, alice.readUntil("room_list_update"))
	require.Len(t, list, 1)
	assert.Equal(t, 1, list[0].UserCount)
	assert.Equal(t, []string{"cat"}, list[0].Avatars)

	// bob connects and joins; everyone's directory updates
	bob := dialWS(t, server)
	list = decode[[]summaryPayload](t, bob.readUntil("room_list_update"))
	require.Len(t, list, 1)

	bob.send("join_room", map[string]any{"room_id": "r1", "username": "bob"})

	roomData = decode[roomDataPayload](t, bob.readUntil("room_data"))
	require.Len(t, roomData.Users, 2)
	assert.Equal(t, aliceId, roomData.HostId)
	var bobId string
	for _, u := range roomData.Users {
		if u.Id != aliceId {
			bobId = u.Id
		}
	}
	require.NotEmpty(t, bobId)
	bob.readUntil("sync_video")
	list = decode[[]summaryPayload](t, bob.readUntil("room_list_update"))
	assert.Equal(t, 2, list[0].UserCount)

	roomData = decode[roomDataPayload](t, alice.readUntil("room_data"))
	assert.Len(t, roomData.Users, 2)
	alice.readUntil("room_list_update")

	// host playback actions reach bob but never echo to alice
	alice.send("video_change", map[string]any{"room_id": "r1", "action": "play", "time": 10})

	sync = decode[syncVideoPayload](t, bob.readNext().Payload)
	assert.Equal(t, "play", sync.Action)
	assert.True(t, sync.IsPlaying)
	assert.InDelta(t, 10, sync.Time, 0.5)

	alice.send("resync_video", map[string]any{"room_id": "r1"})
	msg := alice.readNext()
	require.Equal(t, "sync_video", msg.Type)
	sync = decode[syncVideoPayload](t, msg.Payload)
	assert.Equal(t, "sync", sync.Action, "exclusive actions must not echo to the actor")
	assert.GreaterOrEqual(t, sync.Time, 10.0)

	// the heartbeat refreshes the clock silently; alice's own resync confirms
	// it was applied before bob observes it, since the two connections' reader
	// goroutines give no cross-connection ordering guarantee
	alice.send("video_change", map[string]any{"room_id": "r1", "action": "time", "time": 42})

	alice.send("resync_video", map[string]any{"room_id": "r1"})
	msg = alice.readNext()
	require.Equal(t, "sync_video", msg.Type)
	sync = decode[syncVideoPayload](t, msg.Payload)
	assert.GreaterOrEqual(t, sync.Time, 42.0)

	bob.send("resync_video", map[string]any{"room_id": "r1"})
	msg = bob.readNext()
	require.Equal(t, "sync_video", msg.Type, "heartbeat must not reach any client")
	sync = decode[syncVideoPayload](t, msg.Payload)
	assert.Equal(t, "sync", sync.Action)
	assert.GreaterOrEqual(t, sync.Time, 42.0)
	assert.Less(t, sync.Time, 46.0)

	// a non-host mutation is dropped without a trace
	bob.send("video_change", map[string]any{"room_id": "r1", "action": "pause"})

	bob.send("resync_video", map[string]any{"room_id": "r1"})
	msg = bob.readNext()
	require.Equal(t, "sync_video", msg.Type)
	sync = decode[syncVideoPayload](t, msg.Payload)
	assert.True(t, sync.IsPlaying, "non-host pause must not change playback state")

	// chat echoes inclusively
	bob.send("send_message", map[string]any{"room_id": "r1", "message": "hi", "username": "bob"})

	chat := decode[chatPayload](t, bob.readUntil("receive_message"))
	assert.Equal(t, bobId, chat.SenderId)
	assert.Equal(t, "hi", chat.Text)
	chat = decode[chatPayload](t, alice.readUntil("receive_message"))
	assert.Equal(t, "hi", chat.Text)

	// search replies to the requester only
	bob.send("search_youtube", map[string]any{"query": "cats"})
	results := decode[[]ytsearch.Video](t, bob.readUntil("search_results"))
	require.Len(t, results, 1)
	assert.Equal(t, "v1", results[0].VideoId)

	// host departure fails over to the oldest remaining member
	alice.conn.Close()

	roomData = decode[roomDataPayload](t, bob.readUntil("room_data"))
	assert.Equal(t, bobId, roomData.HostId)
	require.Len(t, roomData.Users, 1)
	list = decode[[]summaryPayload](t, bob.readUntil("room_list_update"))
	require.Len(t, list, 1)
	assert.Equal(t, 1, list[0].UserCount)
}

func TestLoadIsBroadcastInclusively(t *testing.T) {
	server := newTestServer(t)

	host := dialWS(t, server)
	host.readUntil("room_list_update")
	host.send("join_room", map[string]any{"room_id": "r1", "username": "host"})
	host.readUntil("sync_video")
	host.readUntil("room_list_update")

	host.send("video_change", map[string]any{"room_id": "r1", "action": "load", "url": "https://example.com/v", "title": "movie night"})

	sync := decode[syncVideoPayload](t, host.readUntil("sync_video"))
	assert.Equal(t, "load", sync.Action)
	assert.Equal(t, "https://example.com/v", sync.URL)
	assert.True(t, sync.IsPlaying)
	assert.Equal(t, 0.0, sync.Time)

	roomData := decode[roomDataPayload](t, host.readUntil("room_data"))
	assert.Equal(t, "movie night", roomData.Video.Title)

	list := decode[[]summaryPayload](t, host.readUntil("room_list_update"))
	require.Len(t, list, 1)
	assert.Equal(t, "movie night", list[0].Title)
}

// Every connect and join fires a directory broadcast at every live conn from
// the acting client's goroutine, so a single conn receives writes from many
// goroutines at once. Each client must still get its own messages intact.
func TestConcurrentJoinsKeepFramesIntact(t *testing.T) {
	server := newTestServer(t)
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/ws"

	const clients = 16
	var wg sync.WaitGroup
	errs := make(chan error, clients)

	for i := 0; i < clients; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
			if err != nil {
				errs <- fmt.Errorf("dial: %w", err)
				return
			}
			defer conn.Close()

			roomId := fmt.Sprintf("r%d", i)
			err = conn.WriteJSON(map[string]any{"type": "join_room", "payload": map[string]any{
				"room_id":  roomId,
				"username": fmt.Sprintf("user%d", i),
			}})
			if err != nil {
				errs <- fmt.Errorf("join: %w", err)
				return
			}

			conn.SetReadDeadline(time.Now().Add(5 * time.Second))
			sawRoomData, sawSync := false, false
			for !sawRoomData || !sawSync {
				var msg envelope
				if err := conn.ReadJSON(&msg); err != nil {
					errs <- fmt.Errorf("client %d read: %w", i, err)
					return
				}
				switch msg.Type {
				case "room_data":
					var roomData roomDataPayload
					if err := json.Unmarshal(msg.Payload, &roomData); err != nil {
						errs <- fmt.Errorf("client %d room_data: %w", i, err)
						return
					}
					if roomData.Id == roomId {
						sawRoomData = true
					}
				case "sync_video":
					sawSync = true
				}
			}
		}(i)
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestUnknownRoomActionsAreSilent(t *testing.T) {
	server := newTestServer(t)

	client := dialWS(t, server)
	client.readUntil("room_list_update")

	// none of these reference a live room; the connection must stay healthy
	client.send("video_change", map[string]any{"room_id": "ghost", "action": "play"})
	client.send("resync_video", map[string]any{"room_id": "ghost"})
	client.send("send_message", map[string]any{"room_id": "ghost", "message": "hello?"})
	client.send("bogus_event", map[string]any{})

	client.send("join_room", map[string]any{"room_id": "r1", "username": "alice"})
	roomData := decode[roomDataPayload](t, client.readUntil("room_data"))
	assert.Len(t, roomData.Users, 1)
}
