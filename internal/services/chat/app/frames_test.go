package server

import "testing"

func TestClassifyInboundChatDefaultsSender(t *testing.T) {
	got := classifyInbound(inboundFrame{Type: "msg", Text: "hi"})
	chat, ok := got.(inboundChat)
	if !ok {
		t.Fatalf("expected inboundChat, got %T", got)
	}
	if chat.Sender != senderCustomer {
		t.Fatalf("expected sender default %q, got %q", senderCustomer, chat.Sender)
	}
}

func TestClassifyInboundChatKeepsSender(t *testing.T) {
	got := classifyInbound(inboundFrame{Type: "msg", Sender: " agent ", Text: "hi"})
	chat, ok := got.(inboundChat)
	if !ok {
		t.Fatalf("expected inboundChat, got %T", got)
	}
	if chat.Sender != senderAgent {
		t.Fatalf("expected trimmed sender, got %q", chat.Sender)
	}
}

func TestClassifyInboundStrategyDefaultsCustomerID(t *testing.T) {
	for _, frameType := range []string{"strategy_request", "request_report"} {
		got := classifyInbound(inboundFrame{Type: frameType})
		request, ok := got.(inboundStrategyRequest)
		if !ok {
			t.Fatalf("%s: expected inboundStrategyRequest, got %T", frameType, got)
		}
		if request.CustomerID != unknownCustomerID {
			t.Fatalf("%s: expected default customer id, got %q", frameType, request.CustomerID)
		}
	}
}

func TestClassifyInboundStrategyKeepsCustomerID(t *testing.T) {
	got := classifyInbound(inboundFrame{Type: "strategy_request", CustomerID: "cust-42"})
	request, ok := got.(inboundStrategyRequest)
	if !ok {
		t.Fatalf("expected inboundStrategyRequest, got %T", got)
	}
	if request.CustomerID != "cust-42" {
		t.Fatalf("expected customer id preserved, got %q", request.CustomerID)
	}
}

func TestClassifyInboundUnknown(t *testing.T) {
	got := classifyInbound(inboundFrame{Type: "presence.ping"})
	unknown, ok := got.(inboundUnknown)
	if !ok {
		t.Fatalf("expected inboundUnknown, got %T", got)
	}
	if unknown.Type != "presence.ping" {
		t.Fatalf("expected original type preserved, got %q", unknown.Type)
	}
}
