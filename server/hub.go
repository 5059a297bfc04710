package server

import (
	"context"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"geowell/model"
)

// Hub serves one websocket connection: requests are handled in order and the
// replies are written by a single writer.
type Hub struct {
	s    *Server
	conn *websocket.Conn
	log  *log.Entry
	// request
	msg chan model.Msg
	// response
	reply chan model.Msg
}

func NewHub(s *Server, conn *websocket.Conn) *Hub {
	return &Hub{
		s:     s,
		conn:  conn,
		log:   log.WithField("remote", conn.RemoteAddr().String()),
		msg:   make(chan model.Msg, 10),
		reply: make(chan model.Msg, 10),
	}
}

func (h *Hub) handleRequest(ctx context.Context) {
	for {
		select {
		case msg := <-h.msg:
			reply := h.s.Handle(ctx, msg)
			select {
			case h.reply <- reply:
			case <-ctx.Done():
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (h *Hub) handleResponse(ctx context.Context) {
	for {
		select {
		case reply := <-h.reply:
			if err := h.conn.WriteJSON(&reply); err != nil {
				h.log.WithError(err).Warn("write reply failed")
			}
		case <-ctx.Done():
			return
		}
	}
}
