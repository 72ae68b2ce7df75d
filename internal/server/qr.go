package server

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/skip2/go-qrcode"
)

// handleJoinQR renders a QR code for a join link embedding the room name
// and password as query parameters, so a second client can pre-fill the
// join form by scanning. The server does not special-case joins arriving
// through such a link; they are indistinguishable from manual entry.
func (s *Server) handleJoinQR(w http.ResponseWriter, r *http.Request) {
	room := r.URL.Query().Get("room")
	password := r.URL.Query().Get("password")
	if room == "" {
		http.Error(w, "room parameter required", http.StatusBadRequest)
		return
	}

	link := s.cfg.PublicURL + "/?" + url.Values{
		"room":     {room},
		"password": {password},
	}.Encode()

	png, err := qrcode.Encode(link, qrcode.Medium, 256)
	if err != nil {
		slog.Error("qr encode failed", "room", room, "error", err)
		http.Error(w, "failed to generate QR code", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}
