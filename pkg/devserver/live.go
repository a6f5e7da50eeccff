package devserver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	ierrors "github.com/ive-dev/ive/internal/errors"
	"github.com/ive-dev/ive/pkg/dom"
	"github.com/ive-dev/ive/pkg/ive"
	"github.com/ive-dev/ive/pkg/router"
)

const (
	writeWait  = 10 * time.Second
	sendBuffer = 64
)

// session is one live connection. It owns a runtime whose loop runs on a
// dedicated goroutine; client messages are posted to that loop.
type session struct {
	conn    *websocket.Conn
	rt      *ive.Runtime
	limiter *rate.Limiter
	logger  *slog.Logger

	out    chan Message
	done   chan struct{}
	cancel context.CancelFunc
	once   sync.Once
}

// liveObserver forwards replacements to the client.
type liveObserver struct {
	ive.NopObserver
	sess *session
}

func (o liveObserver) NodeReplaced(_, replacement *dom.Node) {
	path, ok := o.sess.rt.Document().NodePath(replacement)
	if !ok {
		return
	}
	o.sess.send(Message{Type: TypeReplace, Target: path, HTML: replacement.OuterHTML()})
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	href := r.URL.Query().Get("path")
	if href == "" {
		href = "/"
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	sess, err := s.openSession(conn, href)
	if err != nil {
		s.logger.Warn("live session failed", "path", href, "error", err)
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		_ = conn.WriteJSON(Message{Type: TypeError, Error: err.Error()})
		conn.Close()
		return
	}

	s.addSession(sess)
	defer s.removeSession(sess)
	defer sess.close()

	sess.readLoop()
}

// openSession creates the runtime, mounts the application at href and
// queues the init message.
func (s *Server) openSession(conn *websocket.Conn, href string) (*session, error) {
	ctx, cancel := context.WithCancel(context.Background())
	sess := &session{
		conn:   conn,
		logger: s.logger.With("path", href),
		out:    make(chan Message, sendBuffer),
		done:   make(chan struct{}),
		cancel: cancel,
	}
	if s.config.LiveRate > 0 {
		burst := s.config.LiveBurst
		if burst < 1 {
			burst = 1
		}
		sess.limiter = rate.NewLimiter(rate.Limit(s.config.LiveRate), burst)
	}

	opts := append(s.runtimeOptions(),
		ive.WithLocation(href),
		ive.WithObserver(liveObserver{sess: sess}),
	)
	rt, err := ive.New(opts...)
	if err != nil {
		cancel()
		return nil, err
	}
	sess.rt = rt

	go sess.writeLoop()
	go sess.run(ctx)

	var mountErr error
	err = rt.Loop().Do(ctx, func() {
		defer func() {
			if r := recover(); r != nil {
				mountErr = panicError(r)
			}
		}()
		if err := s.app(rt); err != nil {
			mountErr = err
			return
		}
		rt.Window().AddEventListener(dom.EventPopState, func(*dom.Event) {
			sess.send(Message{Type: TypeNavigate, Href: rt.Window().Href()})
		})
		sess.send(Message{Type: TypeInit, HTML: rt.Document().HTML()})
	})
	if err == nil {
		err = mountErr
	}
	if err != nil {
		sess.close()
		return nil, err
	}
	return sess, nil
}

// run serves the loop until the session closes. A panicking task is
// reported to the client and the loop keeps serving.
func (s *session) run(ctx context.Context) {
	defer s.rt.Close()
	for !s.serve(ctx) {
	}
}

func (s *session) serve(ctx context.Context) (stopped bool) {
	defer func() {
		if r := recover(); r != nil {
			err := panicError(r)
			s.logger.Error("live task failed", "error", err)
			s.send(Message{Type: TypeError, Error: err.Error()})
			stopped = false
		}
	}()
	_ = s.rt.Loop().Run(ctx)
	return true
}

func (s *session) readLoop() {
	for {
		var msg Message
		if err := s.conn.ReadJSON(&msg); err != nil {
			return
		}
		if s.limiter != nil && !s.limiter.Allow() {
			s.send(Message{Type: TypeError, Error: "rate limit exceeded"})
			continue
		}
		s.dispatch(msg)
	}
}

// dispatch posts a client message to the loop.
func (s *session) dispatch(msg Message) {
	win := s.rt.Window()
	switch msg.Type {
	case TypeClick:
		s.rt.Loop().Post(func() {
			n := s.rt.Document().NodeAt(msg.Target)
			if n == nil {
				s.send(Message{Type: TypeError, Error: fmt.Sprintf("no node at %q", msg.Target)})
				return
			}
			n.Click()
		})
	case TypeNavigate:
		s.rt.Loop().Post(func() {
			var opts []router.NavigateOption
			if msg.Replace {
				opts = append(opts, router.WithReplace())
			}
			if err := router.RouteTo(win, msg.Href, opts...); err != nil {
				s.send(Message{Type: TypeError, Error: err.Error()})
			}
		})
	case TypeBack:
		s.rt.Loop().Post(func() { router.Back(win) })
	case TypeForward:
		s.rt.Loop().Post(func() { router.Forward(win) })
	default:
		s.send(Message{Type: TypeError, Error: fmt.Sprintf("unknown message type %q", msg.Type)})
	}
}

func (s *session) writeLoop() {
	for {
		select {
		case msg := <-s.out:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteJSON(msg); err != nil {
				s.close()
				return
			}
		case <-s.done:
			return
		}
	}
}

// send queues msg for the writer. Messages queued after close are dropped.
func (s *session) send(msg Message) {
	select {
	case s.out <- msg:
	case <-s.done:
	}
}

func (s *session) close() {
	s.once.Do(func() {
		close(s.done)
		s.cancel()
		s.conn.Close()
	})
}

func panicError(r any) error {
	if err, ok := r.(error); ok {
		return ierrors.FromError(err, "E002")
	}
	return fmt.Errorf("render panic: %v", r)
}
