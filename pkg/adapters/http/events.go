package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/aretw0/tendril"
	"github.com/aretw0/tendril/pkg/domain"
)

// StreamManager fans state diffs out to SSE clients.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan<- domain.StateDiff]struct{}
	logger      *slog.Logger
}

// NewStreamManager creates an empty StreamManager.
func NewStreamManager(logger *slog.Logger) *StreamManager {
	return &StreamManager{
		subscribers: make(map[chan<- domain.StateDiff]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a client. The returned func unregisters it and closes
// the channel.
func (sm *StreamManager) Subscribe() (<-chan domain.StateDiff, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan domain.StateDiff, 10)
	sm.subscribers[ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			delete(sm.subscribers, ch)
			close(ch)
		})
	}
}

// Len returns the number of connected clients.
func (sm *StreamManager) Len() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers)
}

// Broadcast sends a diff to every client. Slow clients lose messages.
func (sm *StreamManager) Broadcast(diff domain.StateDiff) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers {
		select {
		case ch <- diff:
		default:
			sm.logger.Warn("SSE: Client buffer full, dropping message", "keys", diff.Keys())
		}
	}
}

// diffBroadcaster returns a store listener that broadcasts the difference
// between consecutive snapshots.
func (s *Server) diffBroadcaster(initial tendril.State) func() {
	var mu sync.Mutex
	last := initial
	return func() {
		mu.Lock()
		next := s.App.GetState()
		diff := domain.Diff(last, next)
		last = next
		mu.Unlock()

		if diff != nil {
			s.Streams.Broadcast(*diff)
		}
	}
}

// SubscribeEvents handles the GET /events request (SSE).
// The optional watch parameter is a comma separated list of top-level keys
// (counter, todos, posts, users); diffs touching none of them are skipped.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	var watchList []string
	if watch := r.URL.Query().Get("watch"); watch != "" {
		for _, field := range strings.Split(watch, ",") {
			if field = strings.TrimSpace(field); field != "" {
				watchList = append(watchList, field)
			}
		}
	}

	ch, cancel := s.Streams.Subscribe()
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE client disconnected")
			return
		case diff, ok := <-ch:
			if !ok {
				return
			}
			if len(watchList) > 0 && !touches(diff, watchList) {
				continue
			}
			data, err := json.Marshal(diff)
			if err != nil {
				s.logger.Error("SSE: failed to encode diff", "err", err)
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}

func touches(diff domain.StateDiff, keys []string) bool {
	for _, k := range keys {
		if _, ok := diff.Changed[k]; ok {
			return true
		}
	}
	return false
}
