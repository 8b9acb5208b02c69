package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/oklog/ulid/v2"

	herrors "github.com/hardfox-dev/hardfox/internal/errors"
	"github.com/hardfox-dev/hardfox/pkg/middleware"
	"github.com/hardfox-dev/hardfox/pkg/protocol"
	"github.com/hardfox-dev/hardfox/pkg/session"
	"github.com/hardfox-dev/hardfox/pkg/vtree"
)

// client is one websocket connection. Frames are queued on send by the
// session listener and written by writeLoop.
type client struct {
	id     string
	conn   *websocket.Conn
	send   chan []byte
	done   chan struct{}
	once   sync.Once
	logger *slog.Logger
}

func (c *client) close() {
	c.once.Do(func() { close(c.done) })
}

// queue hands a frame to the writer without blocking. It reports false
// when the client is gone or too far behind.
func (c *client) queue(frame []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

type hub struct {
	mu      sync.Mutex
	clients map[string]*client
	logger  *slog.Logger
}

func newHub(logger *slog.Logger) *hub {
	return &hub{
		clients: make(map[string]*client),
		logger:  logger,
	}
}

func (h *hub) add(c *client) {
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
	middleware.RecordClientConnect()
}

func (h *hub) remove(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c.id]
	delete(h.clients, c.id)
	h.mu.Unlock()
	if ok {
		middleware.RecordClientDisconnect()
	}
}

func (h *hub) len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.clients {
		c.close()
	}
}

// HandleWebSocket upgrades the request and streams patch frames. The
// client first receives a ServerHello and the current panel as a FlagFull
// frame, then one frame per render.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		middleware.RecordWebSocketError("upgrade")
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	c := &client{
		id:   ulid.Make().String(),
		conn: conn,
		send: make(chan []byte, s.config.SendQueue),
		done: make(chan struct{}),
	}
	c.logger = s.logger.With("client_id", c.id)
	s.hub.add(c)
	c.logger.Info("client connected", "remote", r.RemoteAddr)

	cancel := s.sess.Watch(func(seq uint64, snapshot []vtree.Patch) {
		hello := protocol.EncodeServerHello(&protocol.ServerHello{
			Version:  protocol.CurrentVersion,
			ClientID: c.id,
			Seq:      seq,
		})
		frame, err := protocol.NewFrame(protocol.FrameHello, 0, hello).Encode()
		if err == nil && c.queue(frame) {
			s.queuePatches(c, seq, snapshot, true)
		}
	}, func(rep *session.Report) {
		if rep.Full {
			s.queuePatches(c, rep.Seq, creates(rep.Patches), true)
		} else {
			s.queuePatches(c, rep.Seq, rep.Patches, false)
		}
	})

	go s.writeLoop(c)
	s.readLoop(c)

	cancel()
	c.close()
	s.hub.remove(c)
	c.logger.Info("client disconnected")
}

// creates keeps the Create patches of a full rebuild. A remote client
// clears its panel on a FlagFull frame, so the destroys are implied.
func creates(patches []vtree.Patch) []vtree.Patch {
	out := make([]vtree.Patch, 0, len(patches))
	for _, p := range patches {
		if p.Op == vtree.OpCreate {
			out = append(out, p)
		}
	}
	return out
}

// queuePatches encodes patches into as many frames as needed. Only the
// first frame of a full rebuild carries FlagFull. A client that cannot
// keep up is disconnected.
func (s *Server) queuePatches(c *client, seq uint64, patches []vtree.Patch, full bool) {
	frames, err := encodePatchFrames(seq, patches, full)
	if err != nil {
		middleware.RecordWebSocketError("encode")
		c.logger.Error("patch encode failed", "seq", seq, "error", err)
		c.close()
		return
	}
	for _, f := range frames {
		if !c.queue(f) {
			middleware.RecordWebSocketError("overflow")
			c.logger.Warn("client too slow, disconnecting", "seq", seq)
			c.close()
			return
		}
	}
	middleware.RecordPatches(len(patches))
}

func encodePatchFrames(seq uint64, patches []vtree.Patch, full bool) ([][]byte, error) {
	var flags protocol.FrameFlags
	if full {
		flags = protocol.FlagFull
	}

	payload, err := protocol.EncodePatches(&protocol.PatchesFrame{Seq: seq, Patches: patches})
	if err != nil {
		return nil, err
	}
	frame, err := protocol.NewFrame(protocol.FramePatches, flags, payload).Encode()
	if err == nil {
		return [][]byte{frame}, nil
	}
	if !errors.Is(err, protocol.ErrFrameTooLarge) || len(patches) < 2 {
		return nil, err
	}

	mid := len(patches) / 2
	head, err := encodePatchFrames(seq, patches[:mid], full)
	if err != nil {
		return nil, err
	}
	tail, err := encodePatchFrames(seq, patches[mid:], false)
	if err != nil {
		return nil, err
	}
	return append(head, tail...), nil
}

func (s *Server) writeLoop(c *client) {
	ticker := time.NewTicker(s.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
				middleware.RecordWebSocketError("write")
				c.logger.Debug("write error", "error", err)
				c.close()
				return
			}

		case <-ticker.C:
			deadline := time.Now().Add(s.config.WriteTimeout)
			if err := c.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				c.close()
				return
			}

		case <-c.done:
			deadline := time.Now().Add(s.config.WriteTimeout)
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
			return
		}
	}
}

func (s *Server) readLoop(c *client) {
	readTimeout := 2 * s.config.PingInterval
	c.conn.SetReadLimit(s.config.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(readTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				middleware.RecordWebSocketError("read")
				c.logger.Error("read error", "error", err)
			}
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(readTimeout))

		frame, err := protocol.DecodeFrame(msg)
		if err != nil {
			middleware.RecordWebSocketError("decode")
			s.sendError(c, herrors.New("E060").Wrap(err))
			continue
		}

		switch frame.Type {
		case protocol.FrameEvent:
			s.handleEventFrame(c, frame.Payload)
		default:
			middleware.RecordWebSocketError("decode")
			s.sendError(c, herrors.New("E060").WithDetail("unexpected frame type " + frame.Type.String()))
		}
	}
}

// handleEventFrame dispatches a client event. The resulting patches reach
// every client, the sender included, through the session listeners.
func (s *Server) handleEventFrame(c *client, payload []byte) {
	em, err := protocol.DecodeEvent(payload)
	if err != nil {
		middleware.RecordWebSocketError("decode")
		s.sendError(c, herrors.New("E060").Wrap(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.config.WriteTimeout)
	defer cancel()
	if _, err := s.sess.Dispatch(ctx, em.Event); err != nil {
		c.logger.Debug("event failed", "seq", em.Seq, "kind", em.Event.Kind, "error", err)
		s.sendError(c, err)
	}
}

func (s *Server) sendError(c *client, err error) {
	he := herrors.FromError(err, "E020")
	msg := he.Message
	if he.Detail != "" {
		msg += ": " + he.Detail
	}
	payload := protocol.EncodeErrorMessage(&protocol.ErrorMessage{Code: he.Code, Message: msg})
	frame, encErr := protocol.NewFrame(protocol.FrameError, 0, payload).Encode()
	if encErr != nil || !c.queue(frame) {
		c.close()
	}
}
