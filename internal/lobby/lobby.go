package lobby

import (
	"context"
	"errors"
	"time"

	"github.com/DoyleJ11/quiz-contest-backend/internal/engine"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

var ErrClosed = errors.New("lobby closed")

type Msg interface{ isLobbyMsg() }

// FromClient carries one host intent. Reply is optional and receives the
// outcome once the intent has been applied or rejected.
type FromClient struct {
	Cmd   engine.Command
	Reply chan Result
}

func (FromClient) isLobbyMsg() {}

type Join struct {
	ClientID string
	Outbox   chan Snapshot // where this client wants to receive snapshots
}

func (Join) isLobbyMsg() {}

type Leave struct{ ClientID string }

func (Leave) isLobbyMsg() {}

type Shutdown struct{}

func (Shutdown) isLobbyMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isLobbyMsg() {}

// Snapshot is what clients receive after every accepted change. Events are
// the ones that produced this version; the join snapshot carries none.
type Snapshot struct {
	Version int
	State   engine.State
	Events  []engine.Event
}

type View struct {
	Version    int
	NumClients int
	State      engine.State
}

// Result is the outcome of a FromClient. Err is the engine's rejection, in
// which case Version and State are the unchanged current ones.
type Result struct {
	Version int
	State   engine.State
	Err     error
}

type Option func(*Lobby)

func WithEngine(e *engine.Engine) Option {
	return func(l *Lobby) {
		if e != nil {
			l.engine = e
		}
	}
}

func WithClock(c clockwork.Clock) Option {
	return func(l *Lobby) {
		if c != nil {
			l.clock = c
		}
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(l *Lobby) {
		if log != nil {
			l.log = log
		}
	}
}

type Lobby struct {
	inbox   chan Msg
	state   engine.State
	version int
	clients map[string]chan Snapshot
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}

	engine *engine.Engine
	clock  clockwork.Clock
	log    *zap.Logger

	// ticker is non-nil exactly while the speed-round countdown runs.
	ticker clockwork.Ticker
	tickC  <-chan time.Time
}

func NewLobby(parent context.Context, initial engine.State, opts ...Option) *Lobby {
	ctx, cancel := context.WithCancel(parent)

	l := &Lobby{
		inbox:   make(chan Msg, 64),
		state:   initial,
		clients: make(map[string]chan Snapshot),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
		engine:  engine.New(),
		clock:   clockwork.NewRealClock(),
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}

	l.syncTicker()
	go l.loop()
	return l
}

// Inbox exposes the raw inbox for tests and the transport layers.
func (l *Lobby) Inbox() chan<- Msg { return l.inbox }

// Done is closed once the lobby has shut down.
func (l *Lobby) Done() <-chan struct{} { return l.done }

// Send delivers m unless the lobby has already shut down.
func (l *Lobby) Send(m Msg) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.inbox <- m:
		return true
	case <-l.done:
		return false
	}
}

// Dispatch applies cmd and waits for the outcome.
func (l *Lobby) Dispatch(ctx context.Context, cmd engine.Command) (Result, error) {
	reply := make(chan Result, 1)
	if !l.Send(FromClient{Cmd: cmd, Reply: reply}) {
		return Result{}, ErrClosed
	}
	select {
	case res := <-reply:
		return res, nil
	case <-l.done:
		return Result{}, ErrClosed
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// View returns the current version and state.
func (l *Lobby) View(ctx context.Context) (View, error) {
	reply := make(chan View, 1)
	if !l.Send(GetState{Reply: reply}) {
		return View{}, ErrClosed
	}
	select {
	case v := <-reply:
		return v, nil
	case <-l.done:
		return View{}, ErrClosed
	case <-ctx.Done():
		return View{}, ctx.Err()
	}
}

func (l *Lobby) loop() {
	defer close(l.done)
	for {
		select {
		case <-l.ctx.Done():
			l.shutdown()
			return

		case <-l.tickC:
			l.apply(engine.Command{Type: engine.CmdTick})

		case m := <-l.inbox:
			switch msg := m.(type) {
			case Join:
				l.clients[msg.ClientID] = msg.Outbox
				l.send(msg.ClientID, msg.Outbox, Snapshot{Version: l.version, State: l.state.Clone()})
				l.log.Debug("client joined", zap.String("client_id", msg.ClientID), zap.Int("clients", len(l.clients)))

			case Leave:
				// Already dropped clients have had their outbox closed.
				if _, ok := l.clients[msg.ClientID]; ok {
					delete(l.clients, msg.ClientID)
					l.log.Debug("client left", zap.String("client_id", msg.ClientID))
				}

			case FromClient:
				if msg.Cmd.Type == engine.CmdTick {
					// Only the countdown ticker may tick the clock.
					l.reply(msg.Reply, engine.ErrUnsupportedCommand)
					break
				}
				err := l.apply(msg.Cmd)
				l.reply(msg.Reply, err)

			case GetState:
				msg.Reply <- View{
					Version:    l.version,
					NumClients: len(l.clients),
					State:      l.state.Clone(),
				}

			case Shutdown:
				l.shutdown()
				return
			}
		}
	}
}

// apply runs cmd through the engine. A rejected command is a silent no-op:
// no version bump and no broadcast.
func (l *Lobby) apply(cmd engine.Command) error {
	events, next, err := l.engine.Apply(l.state, cmd)
	if err != nil {
		if cmd.Type != engine.CmdTick {
			l.log.Debug("intent rejected", zap.String("intent", string(cmd.Type)), zap.Error(err))
		}
		l.syncTicker()
		return err
	}

	prev := l.state.Phase
	l.state = next
	l.version++
	if cmd.Type != engine.CmdTick {
		l.log.Debug("intent applied", zap.String("intent", string(cmd.Type)), zap.Int("version", l.version))
	}
	if next.Phase != prev {
		l.log.Info("phase changed", zap.String("from", string(prev)), zap.String("to", string(next.Phase)))
	}

	l.syncTicker()
	l.broadcast(Snapshot{Version: l.version, State: l.state, Events: events})
	return nil
}

func (l *Lobby) reply(ch chan Result, err error) {
	if ch == nil {
		return
	}
	select {
	case ch <- Result{Version: l.version, State: l.state.Clone(), Err: err}:
	default:
	}
}

// syncTicker keeps exactly one one-second ticker alive while the countdown
// runs and none otherwise.
func (l *Lobby) syncTicker() {
	running := l.state.Running()
	switch {
	case running && l.ticker == nil:
		l.ticker = l.clock.NewTicker(time.Second)
		l.tickC = l.ticker.Chan()
		l.log.Info("countdown started")
	case !running && l.ticker != nil:
		stopAndDrainTicker(l.ticker)
		l.ticker, l.tickC = nil, nil
		l.log.Info("countdown stopped")
	}
}

func stopAndDrainTicker(t clockwork.Ticker) {
	t.Stop()
	select {
	case <-t.Chan():
	default:
	}
}

func (l *Lobby) shutdown() {
	if l.ticker != nil {
		stopAndDrainTicker(l.ticker)
		l.ticker, l.tickC = nil, nil
	}
	for id, ch := range l.clients {
		close(ch) // no more snapshots for this client
		delete(l.clients, id)
	}
	l.cancel()
	l.log.Debug("lobby shut down")
}

func (l *Lobby) broadcast(snap Snapshot) {
	for id, ch := range l.clients {
		// Each client gets its own copy; the sets are maps.
		l.send(id, ch, Snapshot{Version: snap.Version, State: snap.State.Clone(), Events: snap.Events})
	}
}

// send drops a client whose outbox is full.
func (l *Lobby) send(id string, ch chan Snapshot, snap Snapshot) {
	select {
	case ch <- snap:
	default:
		close(ch)
		delete(l.clients, id)
		l.log.Warn("dropped slow client", zap.String("client_id", id))
	}
}
