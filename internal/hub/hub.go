package hub

import (
	"context"
	"errors"

	"github.com/DoyleJ11/quiz-contest-backend/internal/engine"
	"github.com/DoyleJ11/quiz-contest-backend/internal/lobby"
	"go.uber.org/zap"
)

// ErrClosed is returned once the hub has shut down.
var ErrClosed = errors.New("hub closed")

type HubMsg interface{ isHubMsg() }

type GetLobby struct {
	Code  string
	Reply chan *lobby.Lobby
}

// EnsureLobby replies with the existing lobby when the code is taken.
type EnsureLobby struct {
	Code  string
	State engine.State // only used if creation happens
	Reply chan *lobby.Lobby
}

// RemoveLobby shuts the contest down and forgets its code. Reply, if set,
// reports whether the code was known.
type RemoveLobby struct {
	Code  string
	Reply chan bool
}

type ShutdownHub struct{}

func (GetLobby) isHubMsg()    {}
func (EnsureLobby) isHubMsg() {}
func (RemoveLobby) isHubMsg() {}
func (ShutdownHub) isHubMsg() {}

type Option func(*Hub)

func WithLogger(log *zap.Logger) Option {
	return func(h *Hub) {
		if log != nil {
			h.log = log
		}
	}
}

// WithLobbyOptions are applied to every lobby the hub starts.
func WithLobbyOptions(opts ...lobby.Option) Option {
	return func(h *Hub) {
		h.lobbyOpts = append(h.lobbyOpts, opts...)
	}
}

type Hub struct {
	inbox     chan HubMsg
	lobbies   map[string]*lobby.Lobby
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
	log       *zap.Logger
	lobbyOpts []lobby.Option
}

func NewHub(parent context.Context, opts ...Option) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:   make(chan HubMsg, 64),
		lobbies: make(map[string]*lobby.Lobby),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) Done() <-chan struct{} { return h.done }

// Lookup returns the lobby for code, or nil.
func (h *Hub) Lookup(code string) *lobby.Lobby {
	reply := make(chan *lobby.Lobby, 1)
	lb, _ := ask(h, GetLobby{Code: code, Reply: reply}, reply)
	return lb
}

// Ensure returns the lobby for code, starting one from state if the code is
// free.
func (h *Hub) Ensure(code string, state engine.State) (*lobby.Lobby, error) {
	reply := make(chan *lobby.Lobby, 1)
	lb, ok := ask(h, EnsureLobby{Code: code, State: state, Reply: reply}, reply)
	if !ok {
		return nil, ErrClosed
	}
	return lb, nil
}

// Remove shuts the contest down and reports whether the code was known.
func (h *Hub) Remove(code string) (bool, error) {
	reply := make(chan bool, 1)
	removed, ok := ask(h, RemoveLobby{Code: code, Reply: reply}, reply)
	if !ok {
		return false, ErrClosed
	}
	return removed, nil
}

// ask sends msg and waits for its reply, giving up once the hub is done.
func ask[T any](h *Hub, msg HubMsg, reply chan T) (T, bool) {
	var zero T
	select {
	case h.inbox <- msg:
	case <-h.done:
		return zero, false
	}
	select {
	case v := <-reply:
		return v, true
	case <-h.done:
		return zero, false
	}
}

func (h *Hub) loop() {
	defer close(h.done)
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case GetLobby:
				lb := h.lobbies[msg.Code]
				if lb != nil && isClosed(lb) {
					delete(h.lobbies, msg.Code)
					lb = nil
				}
				msg.Reply <- lb // May be nil

			case EnsureLobby:
				msg.Reply <- h.ensure(msg.Code, msg.State)

			case RemoveLobby:
				lb, ok := h.lobbies[msg.Code]
				if ok {
					lb.Send(lobby.Shutdown{})
					delete(h.lobbies, msg.Code)
					h.log.Info("contest removed", zap.String("code", msg.Code))
				}
				if msg.Reply != nil {
					msg.Reply <- ok
				}

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) ensure(code string, state engine.State) *lobby.Lobby {
	if lb := h.lobbies[code]; lb != nil && !isClosed(lb) {
		return lb
	}
	log := h.log.With(zap.String("code", code))
	opts := append([]lobby.Option{lobby.WithLogger(log)}, h.lobbyOpts...)
	lb := lobby.NewLobby(h.ctx, state, opts...)
	h.lobbies[code] = lb
	log.Info("contest created")
	return lb
}

func (h *Hub) shutdown() {
	for _, lb := range h.lobbies {
		lb.Send(lobby.Shutdown{})
	}
	clear(h.lobbies)
	h.cancel()
	h.log.Info("hub shut down")
}

func isClosed(lb *lobby.Lobby) bool {
	select {
	case <-lb.Done():
		return true
	default:
		return false
	}
}
