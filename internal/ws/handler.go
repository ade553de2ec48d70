package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/DoyleJ11/quiz-contest-backend/internal/engine"
	"github.com/DoyleJ11/quiz-contest-backend/internal/hub"
	"github.com/DoyleJ11/quiz-contest-backend/internal/lobby"
	"github.com/DoyleJ11/quiz-contest-backend/internal/types"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const writeTimeout = 3 * time.Second

// Handler joins the contest named by ?code= and relays snapshots and cues
// to the client and intents back to the contest.
func Handler(h *hub.Hub, e *engine.Engine, log *zap.Logger, origins []string) http.HandlerFunc {
	patterns := originPatterns(origins)
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}

		lb := h.Lookup(code)
		if lb == nil {
			http.Error(w, "contest not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: patterns})
		if err != nil {
			log.Debug("websocket accept failed", zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		clientID := uuid.NewString()
		clog := log.With(zap.String("code", code), zap.String("client_id", clientID))

		out := make(chan lobby.Snapshot, 8)
		if !lb.Send(lobby.Join{ClientID: clientID, Outbox: out}) {
			conn.Close(websocket.StatusGoingAway, "contest closed")
			return
		}
		defer lb.Send(lobby.Leave{ClientID: clientID})
		clog.Info("client connected")

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		// Writer goroutine; the lobby closes the outbox when it shuts down.
		go func() {
			defer cancel()
			for {
				var snap lobby.Snapshot
				select {
				case <-ctx.Done():
					return
				case s, ok := <-out:
					if !ok {
						conn.Close(websocket.StatusGoingAway, "contest closed")
						return
					}
					snap = s
				}

				view := types.NewContestView(e, snap.State)
				msg := types.ServerMessage{Type: types.MsgStateSnapshot, Version: snap.Version, Contest: &view}
				if err := write(ctx, conn, msg); err != nil {
					return
				}
				for _, ev := range snap.Events {
					if ev.Type != engine.EvtCountdownCue {
						continue
					}
					if err := write(ctx, conn, types.ServerMessage{Type: types.MsgCue, SecondsLeft: ev.SecondsLeft}); err != nil {
						return
					}
				}
			}
		}()

		// Reader loop
		for {
			_, data, err := conn.Read(ctx)
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					clog.Info("client disconnected")
				default:
					clog.Debug("read failed", zap.Error(err))
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				_ = write(ctx, conn, types.ServerMessage{Type: types.MsgError, Error: "bad json"})
				continue
			}

			cmd, ok := types.ToCommand(cm)
			if !ok {
				_ = write(ctx, conn, types.ServerMessage{Type: types.MsgError, Error: "unknown type"})
				continue
			}

			if !lb.Send(lobby.FromClient{Cmd: cmd}) {
				return
			}
		}
	}
}

func write(ctx context.Context, conn *websocket.Conn, msg types.ServerMessage) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, msg)
}

// originPatterns turns CORS origins into the host patterns websocket.Accept
// matches against.
func originPatterns(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		if strings.Contains(o, "://") {
			if u, err := url.Parse(o); err == nil && u.Host != "" {
				o = u.Host
			}
		}
		out = append(out, o)
	}
	return out
}
