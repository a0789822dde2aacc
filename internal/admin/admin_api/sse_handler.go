package admin_api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"spirit-hunts/internal/admin"
	"spirit-hunts/internal/realtime"
	"spirit-hunts/internal/store"
	"spirit-hunts/internal/utils"
)

const keepAliveInterval = 25 * time.Second

// StreamDashboard sends a snapshot event on connect and after every
// re-fetch. The dashboard's subscriptions live exactly as long as the
// stream.
func (h *Handler) StreamDashboard(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Streaming unsupported", "response writer cannot flush"))
		return
	}
	ctx := r.Context()

	// Only the newest snapshot matters, so a slow client skips stale ones.
	updates := make(chan admin.Snapshot, 1)
	d := h.dashboard()
	d.OnUpdate(func(s admin.Snapshot) {
		select {
		case <-updates:
		default:
		}
		select {
		case updates <- s:
		default:
		}
	})

	setupSSEHeaders(w)
	w.WriteHeader(http.StatusOK)

	openErr := d.Open(ctx)
	defer d.Close()

	// Events are not watched by the dashboard itself; the stream follows
	// them so deletions made elsewhere show up here.
	unsubscribeEvents := h.Feed.Subscribe(store.TableEvents, func(realtime.Change) {
		if err := d.Refresh(context.Background(), store.TableEvents); err != nil {
			h.Logger.Warn("SSE", fmt.Sprintf("Events re-fetch failed: %v", err))
		}
	})
	defer unsubscribeEvents()

	if openErr != nil {
		h.Logger.Error("SSE", fmt.Sprintf("Dashboard load failed: %v", openErr))
		writeEvent(w, "error", utils.ErrorResponse("Failed to load dashboard data", openErr.Error()))
		flusher.Flush()
	}

	h.Logger.Info("SSE", "Admin dashboard stream connected")
	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case snap := <-updates:
			if err := writeEvent(w, "snapshot", snap); err != nil {
				h.Logger.Error("SSE", fmt.Sprintf("Failed to write snapshot: %v", err))
				return
			}
			flusher.Flush()
		case <-ticker.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		case <-ctx.Done():
			h.Logger.Info("SSE", "Admin dashboard stream disconnected")
			return
		}
	}
}

func writeEvent(w http.ResponseWriter, event string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	return err
}

func setupSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream;charset=UTF-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Accel-Buffering", "no")
}
