package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-striplight/internal/render"
)

// DefaultThrottle caps the preview at ~20 frames per second.
const DefaultThrottle = 50 * time.Millisecond

// Hub mirrors the strip and the status display to websocket clients. It is
// both a render.Sink and a display.
type Hub struct {
	mu        sync.RWMutex
	clients   map[*websocket.Conn]bool
	effect    string
	frameID   uint64
	lastEmit  time.Time
	startTime time.Time
	pixels    int

	Throttle time.Duration
	// Frames, when set, reports the render loop's frame count for /health.
	Frames func() uint64
	// FrameTime, when set, reports the last frame's render and total time.
	FrameTime func() (draw, total time.Duration)
}

func NewHub(pixels int) *Hub {
	return &Hub{
		clients:   map[*websocket.Conn]bool{},
		startTime: time.Now(),
		pixels:    pixels,
		Throttle:  DefaultThrottle,
	}
}

type frameMsg struct {
	T       int64  `json:"t"`
	FrameID uint64 `json:"frame_id"`
	Effect  string `json:"effect"`
	RGB     []byte `json:"rgb"`
}

type effectMsg struct {
	Effect string `json:"effect"`
}

// Write broadcasts f to every client, at most once per Throttle.
func (h *Hub) Write(f render.Frame) error {
	h.mu.Lock()
	h.frameID++
	now := time.Now()
	if h.lastEmit.Add(h.Throttle).After(now) || len(h.clients) == 0 {
		h.mu.Unlock()
		return nil
	}
	h.lastEmit = now
	msg := frameMsg{T: now.UnixNano(), FrameID: h.frameID, Effect: h.effect, RGB: make([]byte, len(f)*3)}
	h.mu.Unlock()

	for i, c := range f {
		msg.RGB[i*3+0], msg.RGB[i*3+1], msg.RGB[i*3+2] = c.R, c.G, c.B
	}
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	h.broadcast(b)
	return nil
}

// ShowEffectName records the effect and pushes it to every client.
func (h *Hub) ShowEffectName(name string) error {
	h.mu.Lock()
	h.effect = name
	h.mu.Unlock()

	b, err := json.Marshal(effectMsg{Effect: name})
	if err != nil {
		return err
	}
	h.broadcast(b)
	return nil
}

// broadcast holds the write lock: a websocket allows one writer at a time.
func (h *Hub) broadcast(b []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.SetWriteDeadline(time.Now().Add(200 * time.Millisecond))
		if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
			log.Debug().Err(err).Msg("preview write")
		}
	}
}

// HandleFramesWS upgrades the request and streams frames until the client
// goes away.
func (h *Hub) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	h.mu.Lock()
	b, _ := json.Marshal(effectMsg{Effect: h.effect})
	_ = conn.WriteMessage(websocket.TextMessage, b)
	h.clients[conn] = true
	h.mu.Unlock()

	go func() {
		defer func() {
			h.mu.Lock()
			delete(h.clients, conn)
			h.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	resp := map[string]any{
		"effect":   h.effect,
		"uptime_s": time.Since(h.startTime).Seconds(),
		"pixels":   h.pixels,
		"clients":  len(h.clients),
	}
	h.mu.RUnlock()
	if h.Frames != nil {
		resp["frames"] = h.Frames()
	}
	if h.FrameTime != nil {
		r, total := h.FrameTime()
		resp["render_ms"] = float64(r.Microseconds()) / 1000.0
		resp["frame_ms"] = float64(total.Microseconds()) / 1000.0
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// Handler routes /ws and /health.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.HandleFramesWS)
	mux.HandleFunc("/health", h.HandleHealth)
	return mux
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
