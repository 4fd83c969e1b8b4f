package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/example/vodmark/internal/status"
)

// statusCmd publishes the local activity and prints updates for the given
// users as JSON lines until interrupted.
type statusCmd struct {
	*root
	server   string
	user     int64
	token    string
	activity string
	game     int
	duration time.Duration
	watch    []int64
}

type statusLine struct {
	User     int64         `json:"user"`
	Activity string        `json:"activity"`
	Game     []status.Game `json:"game,omitempty"`
}

func parseStatusCmd(args []string, r *root) (*statusCmd, error) {
	c := &statusCmd{root: r.subFlags("status")}
	fs := c.fs
	fs.StringVar(&c.server, "server", os.Getenv("VODMARK_STATUS_SERVER"), "status service base URL")
	fs.Int64Var(&c.user, "user", 0, "local user id")
	fs.StringVar(&c.token, "token", os.Getenv("VODMARK_STATUS_TOKEN"), "session token sent with the handshake")
	fs.StringVar(&c.activity, "activity", "", "activity to publish: online, in-game, recording or offline")
	fs.IntVar(&c.game, "game", 0, "game id published with in-game")
	fs.DurationVar(&c.duration, "for", 0, "stop after this long (default until interrupted)")
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if c.server == "" || c.user == 0 {
		return nil, &UsageError{of: c, msg: "status needs -server and -user"}
	}
	if c.activity != "" {
		if _, err := status.ParseActivity(c.activity); err != nil {
			return nil, &UsageError{of: c, msg: err.Error()}
		}
	}
	ids := fs.Args()
	if len(ids) > 0 && ids[0] == "watch" {
		ids = ids[1:]
	}
	for _, a := range ids {
		id, err := strconv.ParseInt(a, 10, 64)
		if err != nil {
			return nil, &UsageError{of: c, msg: fmt.Sprintf("invalid user id %q", a)}
		}
		c.watch = append(c.watch, id)
	}
	return c, nil
}

func (c *statusCmd) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if c.duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.duration)
		defer cancel()
	}

	var mu sync.Mutex
	opts := []status.Option{status.OnStatus(func(m map[int64]status.Status) {
		mu.Lock()
		defer mu.Unlock()
		if err := writeStatusLines(c.stdout, m); err != nil {
			fmt.Fprintf(c.stderr, "status: %v\n", err)
		}
	})}
	if c.token != "" {
		h := http.Header{}
		h.Set("Authorization", "Bearer "+c.token)
		opts = append(opts, status.WithHeader(h))
	}
	client, err := status.NewClient(c.server, c.user, opts...)
	if err != nil {
		return err
	}
	client.Start(ctx)
	defer client.Close()

	if len(c.watch) > 0 {
		client.Subscribe(c.watch...)
	}
	if c.activity != "" {
		a, _ := status.ParseActivity(c.activity)
		var games []status.Game
		if c.game != 0 {
			games = append(games, status.Game{Game: c.game})
		}
		client.SetStatus(a, games...)
	}

	select {
	case <-ctx.Done():
	case <-client.Done():
	}
	return nil
}

// writeStatusLines prints one JSON object per user, ordered by id.
func writeStatusLines(w io.Writer, m map[int64]status.Status) error {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	enc := json.NewEncoder(w)
	for _, id := range ids {
		st := m[id]
		if err := enc.Encode(statusLine{User: id, Activity: st.Activity.String(), Game: st.Game}); err != nil {
			return err
		}
	}
	return nil
}
