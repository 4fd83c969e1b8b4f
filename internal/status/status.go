// Package status keeps a websocket open to the user activity service,
// publishes the local user's activity and reports the activity of the users
// it is subscribed to.
package status

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

// ManualClose is the close code sent when the client shuts down on purpose.
// The service never sees a reconnect after it.
const ManualClose = 4000

// MaxReconnectDelay caps the backoff between connection attempts.
const MaxReconnectDelay = 15 * time.Second

type Activity int

const (
	Online Activity = iota
	InGame
	Recording
	Offline
)

var activityNames = [...]string{"online", "in-game", "recording", "offline"}

func (a Activity) String() string {
	if a < 0 || int(a) >= len(activityNames) {
		return "activity(" + strconv.Itoa(int(a)) + ")"
	}
	return activityNames[a]
}

// ParseActivity accepts the names printed by String.
func ParseActivity(s string) (Activity, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range activityNames {
		if n == s || strings.ReplaceAll(n, "-", "") == s {
			return Activity(i), nil
		}
	}
	return 0, fmt.Errorf("unknown activity %q", s)
}

// Game identifies a game. Wow is set for World of Warcraft releases.
type Game struct {
	Game int  `json:"game"`
	Wow  *int `json:"wow"`
}

// Status is what a user is currently doing.
type Status struct {
	Activity Activity `json:"activity"`
	Game     []Game   `json:"game"`
}

type subscriptionMessage struct {
	Type  string  `json:"type"`
	Users []int64 `json:"users"`
}

type statusChangeMessage struct {
	Type     string   `json:"type"`
	Activity Activity `json:"activity"`
	Game     []Game   `json:"game"`
}

type statusUpdate struct {
	Status map[string]Status `json:"status"`
}

// Client is a reconnecting status websocket client. All methods are safe for
// concurrent use.
type Client struct {
	url    string
	dialer websocket.Dialer
	header http.Header
	jitter func() float64

	mu        sync.Mutex
	conn      *websocket.Conn
	queue     [][]byte
	subs      map[int64]struct{}
	current   Status
	statusSet bool
	attempt   int

	callbackMu  sync.RWMutex
	onStatus    func(map[int64]Status)
	onConnected func()

	cancel context.CancelFunc
	done   chan struct{}
}

type Option func(*Client)

// WithDialer replaces the default dialer.
func WithDialer(d websocket.Dialer) Option { return func(c *Client) { c.dialer = d } }

// WithHeader adds request headers to the handshake, for example a session token.
func WithHeader(h http.Header) Option { return func(c *Client) { c.header = h } }

// WithJitter replaces the random source for the reconnect jitter. fn must
// return a value in [0, 1).
func WithJitter(fn func() float64) Option { return func(c *Client) { c.jitter = fn } }

// OnStatus registers the callback for incoming status updates.
func OnStatus(fn func(map[int64]Status)) Option { return func(c *Client) { c.onStatus = fn } }

// OnConnected registers a callback run after every successful connect.
func OnConnected(fn func()) Option { return func(c *Client) { c.onConnected = fn } }

// Endpoint builds the websocket URL for userID from an http(s) or ws(s) base.
func Endpoint(base string, userID int64) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws/status/" + strconv.FormatInt(userID, 10)
	return u.String(), nil
}

// NewClient prepares a client for the status endpoint of userID under base.
// Nothing is dialled until Start.
func NewClient(base string, userID int64, opts ...Option) (*Client, error) {
	endpoint, err := Endpoint(base, userID)
	if err != nil {
		return nil, err
	}
	c := &Client{
		url:    endpoint,
		dialer: websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		jitter: rand.Float64,
		subs:   make(map[int64]struct{}),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// URL is the endpoint the client connects to.
func (c *Client) URL() string { return c.url }

// Start connects in the background and keeps reconnecting until ctx is done,
// Close is called, or the server closes with 1001 or ManualClose.
func (c *Client) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	c.cancel = cancel
	c.done = make(chan struct{})
	done := c.done
	c.mu.Unlock()
	go func() {
		defer close(done)
		c.run(ctx)
	}()
}

// Done is closed when the connection loop has stopped.
func (c *Client) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

// Close stops reconnecting and closes the connection with ManualClose.
func (c *Client) Close() error {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()
	c.closeConn(ManualClose)
	<-done
	return nil
}

func (c *Client) run(ctx context.Context) {
	reconnect := false
	for {
		conn, err := c.dial(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("status: connect: %v", err)
			if !c.wait(ctx) {
				return
			}
			continue
		}
		c.connected(conn, reconnect)
		reconnect = true

		code := c.read(ctx, conn)
		c.dropConn(conn)
		if ctx.Err() != nil {
			return
		}
		if code == websocket.CloseGoingAway || code == ManualClose {
			log.Printf("status: closed by server (%d)", code)
			return
		}
		if !c.wait(ctx) {
			return
		}
	}
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	conn, resp, err := c.dialer.DialContext(ctx, c.url, c.header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s (status %d): %w", c.url, resp.StatusCode, err)
		}
		return nil, fmt.Errorf("dial %s: %w", c.url, err)
	}
	return conn, nil
}

// connected installs conn, drops anything queued while offline and brings
// the server up to date with our subscriptions and status.
func (c *Client) connected(conn *websocket.Conn, reconnect bool) {
	c.mu.Lock()
	c.conn = conn
	if len(c.queue) > 0 {
		log.Printf("status: dropping %d queued message(s)", len(c.queue))
	}
	c.queue = nil
	c.attempt = 0
	subs := c.subscribedLocked()
	sendStatus := reconnect || c.statusSet
	current := c.current
	c.mu.Unlock()

	if len(subs) > 0 {
		c.send(subscriptionMessage{Type: "Subscribe", Users: subs})
	}
	if sendStatus {
		c.send(statusChange(current))
	}

	c.callbackMu.RLock()
	fn := c.onConnected
	c.callbackMu.RUnlock()
	if fn != nil {
		fn()
	}
}

// read dispatches messages until the connection fails and returns the close
// code, or -1 when the connection ended without one.
func (c *Client) read(ctx context.Context, conn *websocket.Conn) int {
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			var ce *websocket.CloseError
			if errors.As(err, &ce) {
				return ce.Code
			}
			if ctx.Err() == nil {
				log.Printf("status: read: %v", err)
			}
			return -1
		}
		c.handle(data)
	}
}

func (c *Client) handle(data []byte) {
	var msg statusUpdate
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Printf("status: decode: %v", err)
		return
	}
	out := make(map[int64]Status, len(msg.Status))
	for k, v := range msg.Status {
		id, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			log.Printf("status: bad user id %q", k)
			continue
		}
		out[id] = v
	}
	c.callbackMu.RLock()
	fn := c.onStatus
	c.callbackMu.RUnlock()
	if fn != nil && len(out) > 0 {
		fn(out)
	}
}

func (c *Client) dropConn(conn *websocket.Conn) {
	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
	}
	c.mu.Unlock()
	conn.Close()
}

func (c *Client) closeConn(code int) {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()
	if conn == nil {
		return
	}
	msg := websocket.FormatCloseMessage(code, "")
	if err := conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second)); err != nil {
		log.Printf("status: close: %v", err)
	}
	conn.Close()
}

// ReconnectDelay is the wait before attempt n (starting at 1).
func ReconnectDelay(n int, jitter float64) time.Duration {
	n = min(max(n, 0), 14)
	ms := math.Pow(2, float64(n)) + jitter*1000
	return min(time.Duration(ms*float64(time.Millisecond)), MaxReconnectDelay)
}

func (c *Client) wait(ctx context.Context) bool {
	c.mu.Lock()
	c.attempt++
	d := ReconnectDelay(c.attempt, c.jitter())
	c.mu.Unlock()
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// send writes msg or queues it while disconnected.
func (c *Client) send(msg any) {
	b, err := json.Marshal(msg)
	if err != nil {
		log.Printf("status: encode: %v", err)
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		c.queue = append(c.queue, b)
		return
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
		log.Printf("status: write: %v", err)
	}
}

// Queued reports how many messages wait for a connection.
func (c *Client) Queued() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

// Connected reports whether a connection is currently open.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Subscribe starts tracking users. Only ids not yet tracked are sent.
func (c *Client) Subscribe(ids ...int64) {
	c.mu.Lock()
	var add []int64
	for _, id := range ids {
		if _, ok := c.subs[id]; ok || slices.Contains(add, id) {
			continue
		}
		add = append(add, id)
		c.subs[id] = struct{}{}
	}
	c.mu.Unlock()
	if len(add) > 0 {
		c.send(subscriptionMessage{Type: "Subscribe", Users: add})
	}
}

// Unsubscribe stops tracking users. Only tracked ids are sent.
func (c *Client) Unsubscribe(ids ...int64) {
	c.mu.Lock()
	var drop []int64
	for _, id := range ids {
		if _, ok := c.subs[id]; !ok {
			continue
		}
		drop = append(drop, id)
		delete(c.subs, id)
	}
	c.mu.Unlock()
	if len(drop) > 0 {
		c.send(subscriptionMessage{Type: "Unsubscribe", Users: drop})
	}
}

// Subscribed lists the tracked users in ascending order.
func (c *Client) Subscribed() []int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subscribedLocked()
}

func (c *Client) subscribedLocked() []int64 {
	out := make([]int64, 0, len(c.subs))
	for id := range c.subs {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// SetStatus publishes the local user's activity. It is resent after every
// reconnect.
func (c *Client) SetStatus(a Activity, games ...Game) {
	st := Status{Activity: a, Game: append([]Game{}, games...)}
	c.mu.Lock()
	c.current = st
	c.statusSet = true
	c.mu.Unlock()
	c.send(statusChange(st))
}

func statusChange(st Status) statusChangeMessage {
	g := st.Game
	if g == nil {
		g = []Game{}
	}
	return statusChangeMessage{Type: "StatusChange", Activity: st.Activity, Game: g}
}
