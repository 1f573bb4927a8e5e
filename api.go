package main

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"
	"github.com/skip2/go-qrcode"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// serveRoomInfo is the stateless room lookup used by join screens.
func serveRoomInfo(cfg *Config, registry *Registry) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		securityHeaders(cfg, w)

		room, ok := registry.Lookup(p.ByName("roomCode"))
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Room not found"})
			return
		}

		writeJSON(w, http.StatusOK, room.Info())
	}
}

// serveValidateWord checks a single word against the dictionary.
func serveValidateWord(cfg *Config, dict *Dictionary) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		securityHeaders(cfg, w)

		writeJSON(w, http.StatusOK, map[string]bool{
			"valid": dict.IsValid(p.ByName("word")),
		})
	}
}

// serveRoomQR generates a PNG QR code pointing at the room's join URL,
// so the host can share a session from a phone screen.
func serveRoomQR(cfg *Config, registry *Registry) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		startTime := time.Now()

		code := p.ByName("roomCode")
		if _, ok := registry.Lookup(code); !ok {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}

		// Derive scheme (respecting TLS and X-Forwarded-Proto if present).
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}

		// We are at /room/:roomCode/qr; strip the trailing "/qr" to get
		// the join URL.
		path := strings.TrimSuffix(r.URL.Path, "/qr")

		url := scheme + "://" + r.Host + path

		const qrSize = 320 // mobile-friendly size
		png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		securityHeaders(cfg, w)
		_, _ = w.Write(png)

		log.Debug().
			Str("room", code).
			Str("size", humanReadableSize(int64(len(png)))).
			Dur("elapsed", time.Since(startTime)).
			Msg("served room QR")
	}
}

// registerGameRoutes wires the realtime gateway and its HTTP surface:
//   - /ws                       → websocket session gateway
//   - /api/room/:roomCode       → room lookup
//   - /api/validate-word/:word  → dictionary check
//   - /room/:roomCode/qr        → PNG QR code for the room join URL
func registerGameRoutes(cfg *Config, mux *httprouter.Router, gw *Gateway, registry *Registry, dict *Dictionary) {
	mux.GET(cfg.prefix+"/ws", gw.handleWS)
	mux.GET(cfg.prefix+"/api/room/:roomCode", serveRoomInfo(cfg, registry))
	mux.GET(cfg.prefix+"/api/validate-word/:word", serveValidateWord(cfg, dict))
	mux.GET(cfg.prefix+"/room/:roomCode/qr", serveRoomQR(cfg, registry))
}
