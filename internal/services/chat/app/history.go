package server

import (
	"sync"
	"time"
)

const (
	senderCustomer = "customer"
	senderAgent    = "agent"
)

// chatMessage is one recorded conversation entry. Immutable once appended.
type chatMessage struct {
	Timestamp string `json:"timestamp"`
	Sender    string `json:"sender"`
	Text      string `json:"text"`
}

// chatHistory is the in-memory conversation log for the active session.
//
// Customer messages are mirrored into a parallel slice at append time:
// every strategy request reads the customer-only view, so the filter is
// amortized at write time instead of re-applied per request.
type chatHistory struct {
	mu               sync.Mutex
	messages         []chatMessage
	customerMessages []chatMessage
}

func newChatHistory() *chatHistory {
	return &chatHistory{}
}

func (h *chatHistory) append(sender, text string) {
	msg := chatMessage{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Sender:    sender,
		Text:      text,
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.messages = append(h.messages, msg)
	if sender == senderCustomer {
		h.customerMessages = append(h.customerMessages, msg)
	}
}

// customerMessagesSnapshot returns a copy of the customer-only view so
// callers can iterate without holding the history lock.
func (h *chatHistory) customerMessagesSnapshot() []chatMessage {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]chatMessage, len(h.customerMessages))
	copy(out, h.customerMessages)
	return out
}

// messagesSnapshot returns a copy of the full conversation log.
func (h *chatHistory) messagesSnapshot() []chatMessage {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]chatMessage, len(h.messages))
	copy(out, h.messages)
	return out
}

// reset clears both views between consultation sessions.
func (h *chatHistory) reset() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.messages = nil
	h.customerMessages = nil
}
