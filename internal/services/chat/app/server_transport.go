package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/daeunpk/AX-MALL-AI-SERVICE/internal/seed/store"
	"github.com/daeunpk/AX-MALL-AI-SERVICE/internal/services/ai/summarizer"
	"golang.org/x/net/websocket"
)

const maxDecodeErrorsPerConn = 3

// Summarizer produces a marketing report from a consultation transcript.
type Summarizer interface {
	Summarize(ctx context.Context, conversation []summarizer.Utterance) (summarizer.Report, error)
}

// relayHub owns the live state shared by every websocket session: the
// peer set, the conversation log, and the report gateway.
type relayHub struct {
	registry *peerRegistry
	history  *chatHistory
	gateway  Summarizer
}

func newRelayHub(gateway Summarizer) *relayHub {
	return &relayHub{
		registry: newPeerRegistry(),
		history:  newChatHistory(),
		gateway:  gateway,
	}
}

// NewHandler creates relay routes around the given report gateway.
func NewHandler(gateway Summarizer) http.Handler {
	return newHandler(newRelayHub(gateway))
}

func newHandler(hub *relayHub) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/up", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	wsHandler := websocket.Handler(func(conn *websocket.Conn) {
		handleWSConn(conn, hub)
	})

	mux.HandleFunc("/ws/chat", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		wsHandler.ServeHTTP(w, r)
	})

	return mux
}

func handleWSConn(conn *websocket.Conn, hub *relayHub) {
	defer func() {
		_ = conn.Close()
	}()

	decoder := json.NewDecoder(conn)
	peer := newWSPeer(json.NewEncoder(conn))

	ctx := context.Background()
	if request := conn.Request(); request != nil {
		ctx = request.Context()
	}

	hub.registry.register(peer)
	log.Printf("chat: peer %s connected, %d active", peer.id, hub.registry.len())
	defer func() {
		hub.registry.unregister(peer)
		log.Printf("chat: peer %s disconnected, %d active", peer.id, hub.registry.len())
	}()

	decodeErrors := 0

	for {
		var frame inboundFrame
		if err := decoder.Decode(&frame); err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			decodeErrors++
			if decodeErrors >= maxDecodeErrorsPerConn {
				log.Printf("chat: peer %s exceeded decode error budget, closing: %v", peer.id, err)
				return
			}
			continue
		}
		decodeErrors = 0

		switch inbound := classifyInbound(frame).(type) {
		case inboundChat:
			handleChatFrame(hub, peer, inbound)
		case inboundStrategyRequest:
			handleStrategyFrame(ctx, hub, peer, inbound)
		case inboundUnknown:
			log.Printf("chat: peer %s sent unsupported frame type %q, ignoring", peer.id, inbound.Type)
		}
	}
}

// handleChatFrame records the message and relays it to every other peer.
// The sender already rendered its own message locally, so it is excluded
// from the fan-out.
func handleChatFrame(hub *relayHub, sender *wsPeer, frame inboundChat) {
	hub.history.append(frame.Sender, frame.Text)
	hub.registry.broadcast(chatFrame{
		Type:   frameTypeMsg,
		Sender: frame.Sender,
		Text:   frame.Text,
	}, sender)
}

// handleStrategyFrame runs the report gateway over the customer side of
// the conversation and replies to the requester only. No hub lock is held
// across the gateway call; other sessions keep relaying while it runs.
func handleStrategyFrame(ctx context.Context, hub *relayHub, requester *wsPeer, frame inboundStrategyRequest) {
	transcript := hub.history.customerMessagesSnapshot()
	conversation := make([]summarizer.Utterance, 0, len(transcript))
	for _, msg := range transcript {
		role := "agent"
		if msg.Sender == senderCustomer {
			role = "user"
		}
		conversation = append(conversation, summarizer.Utterance{Role: role, Text: msg.Text})
	}

	report, err := hub.gateway.Summarize(ctx, conversation)
	if err != nil {
		log.Printf("chat: strategy report for customer %q failed: %v", frame.CustomerID, err)
		if sendErr := hub.registry.sendTo(requester, strategyErrorFrame{
			Type:       frameTypeStrategyError,
			CustomerID: frame.CustomerID,
			Code:       "UNAVAILABLE",
			Message:    "strategy report is temporarily unavailable",
		}); sendErr != nil {
			log.Printf("chat: strategy error delivery to peer %s failed, dropping connection: %v", requester.id, sendErr)
			hub.registry.unregister(requester)
		}
		return
	}

	strategy := report.MarketingStrategy
	if strategy == nil {
		strategy = []string{}
	}

	result := strategyResultFrame{
		Type:                frameTypeStrategyResult,
		CustomerID:          frame.CustomerID,
		Summary:             report.Summary,
		Keyword:             report.KeywordList(),
		Strategy:            strategy,
		RecommendedProducts: store.RecommendedProducts(),
		RecommendedCoupons:  store.RecommendedCoupons(),
		Debug:               report.DebugLine(),
	}
	if err := hub.registry.sendTo(requester, result); err != nil {
		log.Printf("chat: strategy result delivery to peer %s failed, dropping connection: %v", requester.id, err)
		hub.registry.unregister(requester)
	}
}
