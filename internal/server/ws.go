package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/ButyrinIA/publy/internal/graphql"
	"github.com/gorilla/websocket"
)

// Протокол graphql-transport-ws поверх gorilla/websocket

const (
	wsConnectionInit = "connection_init"
	wsConnectionAck  = "connection_ack"
	wsPing           = "ping"
	wsPong           = "pong"
	wsSubscribe      = "subscribe"
	wsNext           = "next"
	wsError          = "error"
	wsComplete       = "complete"
)

type wsMessage struct {
	ID      string          `json:"id,omitempty"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin:  func(r *http.Request) bool { return true },
	Subprotocols: []string{"graphql-transport-ws"},
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	// обрыв соединения отменяет все операции и снимает подписки с хаба
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	var writeMu sync.Mutex
	write := func(msg wsMessage) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return conn.WriteJSON(msg)
	}

	var opsMu sync.Mutex
	ops := make(map[string]context.CancelFunc)
	cancelOp := func(id string) {
		opsMu.Lock()
		if stop, ok := ops[id]; ok {
			stop()
			delete(ops, id)
		}
		opsMu.Unlock()
	}

	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Type {
		case wsConnectionInit:
			if err := write(wsMessage{Type: wsConnectionAck}); err != nil {
				return
			}

		case wsPing:
			if err := write(wsMessage{Type: wsPong}); err != nil {
				return
			}

		case wsSubscribe:
			var payload struct {
				Query         string                 `json:"query"`
				OperationName string                 `json:"operationName"`
				Variables     map[string]interface{} `json:"variables"`
			}
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				write(wsMessage{ID: msg.ID, Type: wsError, Payload: errorPayload(err.Error())})
				continue
			}

			opCtx, stop := context.WithCancel(ctx)
			opCtx = graphql.WithUserLoader(opCtx, graphql.NewUserLoader(s.users))

			responses, err := s.schema.Subscribe(opCtx, payload.Query, payload.OperationName, payload.Variables)
			if err != nil {
				stop()
				write(wsMessage{ID: msg.ID, Type: wsError, Payload: errorPayload(err.Error())})
				continue
			}

			opsMu.Lock()
			ops[msg.ID] = stop
			opsMu.Unlock()

			go func(id string) {
				defer cancelOp(id)
				for resp := range responses {
					data, err := json.Marshal(resp)
					if err != nil {
						continue
					}
					if err := write(wsMessage{ID: id, Type: wsNext, Payload: data}); err != nil {
						return
					}
				}
				write(wsMessage{ID: id, Type: wsComplete})
			}(msg.ID)

		case wsComplete:
			cancelOp(msg.ID)
		}
	}
}

func errorPayload(message string) json.RawMessage {
	data, _ := json.Marshal([]map[string]string{{"message": message}})
	return data
}
