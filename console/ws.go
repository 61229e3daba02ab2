package console

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"

	"zayro/auth"
	"zayro/models"
	"zayro/store"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 << 10
)

func deadline() time.Time { return time.Now().Add(writeWait) }

// inboundPayload represents what clients send us:
type inboundPayload struct {
	Action   string           `json:"action"`
	Email    string           `json:"email,omitempty"`    // signIn
	Password string           `json:"password,omitempty"` // signIn
	Tab      string           `json:"tab,omitempty"`      // tab
	Query    string           `json:"query,omitempty"`    // search
	ID       string           `json:"id,omitempty"`       // openEdit, requestDelete
	Kind     string           `json:"kind,omitempty"`     // requestDelete
	Fields   *models.JobInput `json:"fields,omitempty"`   // edit, submit
}

// outboundPayload is what we push to the browser:
type outboundPayload struct {
	Type     string    `json:"type"` // "snapshot" or "error"
	Snapshot *Snapshot `json:"snapshot,omitempty"`
	Action   string    `json:"action,omitempty"`
	Error    string    `json:"error,omitempty"`
}

type client struct {
	id      string
	conn    *websocket.Conn
	console *Console
	// snapshots holds only the newest undelivered snapshot.
	snapshots chan []byte
	notices   chan []byte
	done      chan struct{}
}

func (c *client) pushSnapshot(s Snapshot) {
	data, err := json.Marshal(outboundPayload{Type: "snapshot", Snapshot: &s})
	if err != nil {
		log.Printf("console %s: marshal snapshot: %v", c.id, err)
		return
	}
	select {
	case <-c.snapshots:
	default:
	}
	c.snapshots <- data
}

func (c *client) pushError(action string, err error) {
	data, _ := json.Marshal(outboundPayload{Type: "error", Action: action, Error: err.Error()})
	select {
	case c.notices <- data:
	default:
	}
}

// Handler upgrades GET /api/admin/console to a websocket running one Console.
type Handler struct {
	hub      *Hub
	store    store.Store
	provider auth.Provider
	tokens   *auth.Tokens
	revoker  auth.Revoker
	upgrader websocket.Upgrader
}

func NewHandler(hub *Hub, s store.Store, provider auth.Provider, tokens *auth.Tokens, revoker auth.Revoker, allowedOrigins []string) *Handler {
	h := &Handler{hub: hub, store: s, provider: provider, tokens: tokens, revoker: revoker}
	h.upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(allowedOrigins, "*") || slices.Contains(allowedOrigins, origin)
	}}
	return h
}

func (h *Handler) Serve(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("console upgrade:", err)
		return
	}

	session := auth.NewSession(h.provider, h.tokens, h.revoker)
	c := &client{
		id:        uuid.NewString(),
		conn:      conn,
		snapshots: make(chan []byte, 1),
		notices:   make(chan []byte, 8),
		done:      make(chan struct{}),
	}
	c.console = New(session, h.store, c.pushSnapshot)

	if !h.hub.add(c) {
		conn.Close()
		session.Close()
		return
	}
	log.Printf("console %s connected from %s", c.id, r.RemoteAddr)

	ctx, cancel := context.WithCancel(context.Background())
	go c.console.Run(ctx)
	if token := r.URL.Query().Get("token"); token != "" {
		session.Resume(ctx, token)
	} else {
		session.Resolve()
	}

	go writePump(c)
	go func() {
		readPump(ctx, c)
		cancel()
		c.console.Close()
		session.Close()
		h.hub.remove(c)
		close(c.done)
		log.Printf("console %s disconnected", c.id)
	}()
}

func writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	write := func(kind int, data []byte) bool {
		c.conn.SetWriteDeadline(deadline())
		return c.conn.WriteMessage(kind, data) == nil
	}
	for {
		select {
		case msg := <-c.snapshots:
			if !write(websocket.TextMessage, msg) {
				return
			}
		case msg := <-c.notices:
			if !write(websocket.TextMessage, msg) {
				return
			}
		case <-ticker.C:
			if !write(websocket.PingMessage, nil) {
				return
			}
		case <-c.done:
			c.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline())
			return
		}
	}
}

func readPump(ctx context.Context, c *client) {
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("console %s read: %v", c.id, err)
			}
			return
		}

		var in inboundPayload
		if err := json.Unmarshal(raw, &in); err != nil {
			c.pushError("", errors.New("invalid payload"))
			continue
		}
		run, err := command(ctx, c.console, in)
		if err != nil {
			c.pushError(in.Action, err)
			continue
		}
		if run != nil {
			go func(action string) {
				if err := run(); err != nil {
					c.pushError(action, err)
				}
			}(in.Action)
		}
	}
}

// dispatch applies one inbound command to the console and waits for it.
func dispatch(ctx context.Context, con *Console, in inboundPayload) error {
	run, err := command(ctx, con, in)
	if err != nil || run == nil {
		return err
	}
	return run()
}

// command applies the in-memory part of one inbound command and returns the
// store or auth call that remains, if any. The read loop runs that call on
// its own goroutine.
func command(ctx context.Context, con *Console, in inboundPayload) (func() error, error) {
	switch in.Action {
	case "signIn":
		return func() error { return con.SignIn(ctx, in.Email, in.Password) }, nil
	case "signOut":
		return func() error { return con.SignOut(ctx) }, nil
	case "tab":
		return nil, con.SelectTab(Tab(in.Tab))
	case "search":
		return nil, con.Search(in.Query)
	case "refresh":
		return func() error { return con.Refresh(ctx) }, nil
	case "openCreate":
		return nil, con.OpenCreate()
	case "openEdit":
		return nil, con.OpenEdit(in.ID)
	case "edit", "submit":
		if in.Fields != nil {
			fields, err := in.Fields.Draft()
			if err != nil {
				return nil, con.RejectEdit(err)
			}
			if err := con.Edit(fields); err != nil {
				return nil, err
			}
		}
		if in.Action == "submit" {
			return func() error { return con.Submit(ctx) }, nil
		}
		return nil, nil
	case "cancel":
		return nil, con.Cancel()
	case "requestDelete":
		return nil, con.RequestDelete(TargetKind(in.Kind), in.ID)
	case "confirmDelete":
		return func() error { return con.ConfirmDelete(ctx) }, nil
	case "cancelDelete":
		return nil, con.CancelDelete()
	}
	return nil, fmt.Errorf("unknown action %q", in.Action)
}
