package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/onnwee/quotecaster/quotes"
)

// HandleHealthz responds to liveness probes.
func (h *Handlers) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// HandleReadyz responds to readiness probes. The service is ready once the
// gateway session has connected.
func (h *Handlers) HandleReadyz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if !h.ready() {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":       "not_ready",
			"failed_check": "gateway",
		})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": "ready",
		"quotes": h.store.Len(),
	})
}

// HandleQuotes lists the collection on GET and appends+persists on POST.
func (h *Handlers) HandleQuotes(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"quotes": h.store.All()})
	case http.MethodPost:
		h.handleAddQuote(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handlers) handleAddQuote(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text   string  `json:"text"`
		Avatar *string `json:"avatar"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if body.Avatar != nil && *body.Avatar != "" {
		if !quotes.ValidName(*body.Avatar) {
			http.Error(w, "invalid avatar name", http.StatusBadRequest)
			return
		}
		if !h.avatars.Exists(*body.Avatar) {
			http.Error(w, fmt.Sprintf("no avatar named %q exists", *body.Avatar), http.StatusBadRequest)
			return
		}
	} else {
		body.Avatar = nil
	}
	if err := h.store.Add(body.Text, body.Avatar); err != nil {
		if quotes.IsValidation(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if err := h.store.Persist(); err != nil {
		var se *quotes.StorageError
		if errors.As(err, &se) {
			slog.Error("quote persist failed", slog.Any("err", err))
		}
		http.Error(w, "failed to persist quote", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{"count": h.store.Len()})
}

// HandleAvatarsList returns the avatar names visible in the asset directory.
func (h *Handlers) HandleAvatarsList(w http.ResponseWriter, r *http.Request) {
	names := h.avatars.List()
	if names == nil {
		names = []string{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"avatars": names})
}
