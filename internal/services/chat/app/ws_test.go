package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/daeunpk/AX-MALL-AI-SERVICE/internal/seed/store"
	"github.com/daeunpk/AX-MALL-AI-SERVICE/internal/services/ai/summarizer"
	"golang.org/x/net/websocket"
)

type relayTestFrame struct {
	Type                string          `json:"type"`
	Sender              string          `json:"sender"`
	Text                string          `json:"text"`
	CustomerID          string          `json:"customerId"`
	Summary             string          `json:"summary"`
	Keyword             []string        `json:"keyword"`
	Strategy            []string        `json:"strategy"`
	RecommendedProducts []store.Product `json:"recommendedProducts"`
	RecommendedCoupons  []store.Coupon  `json:"recommendedCoupons"`
	Debug               string          `json:"debug"`
	Code                string          `json:"code"`
	Message             string          `json:"message"`
}

type fakeGateway struct {
	mu            sync.Mutex
	conversations [][]summarizer.Utterance
	report        summarizer.Report
	err           error
}

func (f *fakeGateway) Summarize(_ context.Context, conversation []summarizer.Utterance) (summarizer.Report, error) {
	f.mu.Lock()
	f.conversations = append(f.conversations, conversation)
	f.mu.Unlock()
	if f.err != nil {
		return summarizer.Report{}, f.err
	}
	return f.report, nil
}

func (f *fakeGateway) lastConversation() []summarizer.Utterance {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.conversations) == 0 {
		return nil
	}
	return f.conversations[len(f.conversations)-1]
}

func testReport() summarizer.Report {
	return summarizer.Report{
		Keywords: summarizer.Keywords{
			EstimatedAge:        "30대",
			InterestedProducts:  []string{"립스틱"},
			PurchasePurpose:     "선물용",
			PreferredCategories: []string{"뷰티"},
			Budget:              "10만원 이하",
		},
		Summary:           "고객은 선물용 화장품을 찾고 있다.",
		MarketingStrategy: []string{"뷰티 카테고리 쿠폰 발송", "선물 포장 서비스 안내"},
	}
}

func newRelayTestServer(t *testing.T, gateway Summarizer) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewHandler(gateway))
	t.Cleanup(srv.Close)
	return srv
}

func dialRelayWS(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/chat"
	conn, err := websocket.Dial(wsURL, "", srv.URL)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}
	t.Cleanup(func() {
		_ = conn.Close()
	})
	return conn
}

func writeRelayFrame(t *testing.T, conn *websocket.Conn, frame map[string]any) {
	t.Helper()
	if err := json.NewEncoder(conn).Encode(frame); err != nil {
		t.Fatalf("encode frame: %v", err)
	}
}

func readRelayFrame(t *testing.T, conn *websocket.Conn) relayTestFrame {
	t.Helper()
	_ = conn.SetDeadline(time.Now().Add(2 * time.Second))
	var got relayTestFrame
	if err := json.NewDecoder(conn).Decode(&got); err != nil {
		t.Fatalf("decode server frame: %v", err)
	}
	return got
}

func TestRelayDeliversToOtherPeersOnly(t *testing.T) {
	srv := newRelayTestServer(t, &fakeGateway{report: testReport()})
	customer := dialRelayWS(t, srv)
	agent := dialRelayWS(t, srv)

	writeRelayFrame(t, customer, map[string]any{
		"type": "msg", "sender": "customer", "text": "30대 여성 선물용 화장품 추천 부탁드려요",
	})

	got := readRelayFrame(t, agent)
	if got.Type != "msg" || got.Sender != "customer" {
		t.Fatalf("expected relayed customer message, got %+v", got)
	}
	if got.Text != "30대 여성 선물용 화장품 추천 부탁드려요" {
		t.Fatalf("unexpected relayed text %q", got.Text)
	}

	// The sender's next inbound frame must be the agent reply, not an
	// echo of its own message.
	writeRelayFrame(t, agent, map[string]any{
		"type": "msg", "sender": "agent", "text": "네, 바로 도와드릴게요",
	})
	reply := readRelayFrame(t, customer)
	if reply.Sender != "agent" || reply.Text != "네, 바로 도와드릴게요" {
		t.Fatalf("expected agent reply first, got %+v", reply)
	}
}

func TestRelayDefaultsSenderToCustomer(t *testing.T) {
	srv := newRelayTestServer(t, &fakeGateway{report: testReport()})
	sender := dialRelayWS(t, srv)
	receiver := dialRelayWS(t, srv)

	writeRelayFrame(t, sender, map[string]any{"type": "msg", "text": "쿠폰 있나요?"})

	got := readRelayFrame(t, receiver)
	if got.Sender != "customer" {
		t.Fatalf("expected sender default customer, got %q", got.Sender)
	}
}

func TestStrategyResultGoesToRequesterOnly(t *testing.T) {
	gateway := &fakeGateway{report: testReport()}
	srv := newRelayTestServer(t, gateway)
	customer := dialRelayWS(t, srv)
	agent := dialRelayWS(t, srv)

	writeRelayFrame(t, customer, map[string]any{
		"type": "msg", "sender": "customer", "text": "선물용 립스틱 찾고 있어요",
	})
	if got := readRelayFrame(t, agent); got.Type != "msg" {
		t.Fatalf("expected relayed message, got %+v", got)
	}

	writeRelayFrame(t, agent, map[string]any{"type": "strategy_request", "customerId": "cust-7"})

	result := readRelayFrame(t, agent)
	if result.Type != "strategy_result" {
		t.Fatalf("expected strategy_result, got %+v", result)
	}
	if result.CustomerID != "cust-7" {
		t.Fatalf("expected customer id cust-7, got %q", result.CustomerID)
	}
	if result.Summary != "고객은 선물용 화장품을 찾고 있다." {
		t.Fatalf("unexpected summary %q", result.Summary)
	}
	if len(result.Strategy) != 2 {
		t.Fatalf("expected 2 strategy entries, got %d", len(result.Strategy))
	}
	allowed := map[string]bool{
		"30대": true, "선물용": true, "10만원 이하": true, "립스틱": true, "뷰티": true,
	}
	if len(result.Keyword) == 0 {
		t.Fatal("expected non-empty keyword list")
	}
	for _, keyword := range result.Keyword {
		if !allowed[keyword] {
			t.Fatalf("keyword %q not drawn from report fields", keyword)
		}
	}
	if len(result.RecommendedProducts) == 0 || len(result.RecommendedCoupons) == 0 {
		t.Fatalf("expected seeded recommendations, got %+v", result)
	}
	if result.Debug == "" {
		t.Fatalf("expected debug line, got empty")
	}

	// The customer never receives the report: its next frame is the
	// follow-up chat message.
	writeRelayFrame(t, agent, map[string]any{
		"type": "msg", "sender": "agent", "text": "추천 상품 정리해 드렸어요",
	})
	next := readRelayFrame(t, customer)
	if next.Type != "msg" || next.Sender != "agent" {
		t.Fatalf("expected agent chat message, got %+v", next)
	}
}

func TestStrategyUsesCustomerMessagesOnly(t *testing.T) {
	gateway := &fakeGateway{report: testReport()}
	srv := newRelayTestServer(t, gateway)
	customer := dialRelayWS(t, srv)
	agent := dialRelayWS(t, srv)

	writeRelayFrame(t, customer, map[string]any{
		"type": "msg", "sender": "customer", "text": "예산은 10만원 정도예요",
	})
	if got := readRelayFrame(t, agent); got.Type != "msg" {
		t.Fatalf("expected relayed message, got %+v", got)
	}
	writeRelayFrame(t, agent, map[string]any{
		"type": "msg", "sender": "agent", "text": "알겠습니다",
	})
	if got := readRelayFrame(t, customer); got.Type != "msg" {
		t.Fatalf("expected relayed message, got %+v", got)
	}

	writeRelayFrame(t, agent, map[string]any{"type": "request_report"})

	result := readRelayFrame(t, agent)
	if result.Type != "strategy_result" {
		t.Fatalf("expected strategy_result, got %+v", result)
	}
	if result.CustomerID != "unknown" {
		t.Fatalf("expected default customer id, got %q", result.CustomerID)
	}

	conversation := gateway.lastConversation()
	if len(conversation) != 1 {
		t.Fatalf("expected customer-only conversation, got %+v", conversation)
	}
	if conversation[0].Role != "user" || conversation[0].Text != "예산은 10만원 정도예요" {
		t.Fatalf("unexpected utterance %+v", conversation[0])
	}
}

func TestStrategyErrorKeepsConnectionOpen(t *testing.T) {
	gateway := &fakeGateway{err: errors.New("provider down")}
	srv := newRelayTestServer(t, gateway)
	customer := dialRelayWS(t, srv)
	agent := dialRelayWS(t, srv)

	writeRelayFrame(t, agent, map[string]any{"type": "strategy_request", "customerId": "cust-1"})

	failure := readRelayFrame(t, agent)
	if failure.Type != "strategy_error" {
		t.Fatalf("expected strategy_error, got %+v", failure)
	}
	if failure.Code != "UNAVAILABLE" {
		t.Fatalf("expected code UNAVAILABLE, got %q", failure.Code)
	}
	if failure.CustomerID != "cust-1" {
		t.Fatalf("expected customer id cust-1, got %q", failure.CustomerID)
	}

	writeRelayFrame(t, customer, map[string]any{
		"type": "msg", "sender": "customer", "text": "아직 계신가요?",
	})
	got := readRelayFrame(t, agent)
	if got.Type != "msg" || got.Text != "아직 계신가요?" {
		t.Fatalf("expected relay to keep working after gateway failure, got %+v", got)
	}
}

func TestUnknownFrameTypeIgnored(t *testing.T) {
	srv := newRelayTestServer(t, &fakeGateway{report: testReport()})
	sender := dialRelayWS(t, srv)
	receiver := dialRelayWS(t, srv)

	writeRelayFrame(t, sender, map[string]any{"type": "presence.ping"})
	writeRelayFrame(t, sender, map[string]any{"type": "msg", "text": "상담 가능할까요?"})

	got := readRelayFrame(t, receiver)
	if got.Type != "msg" || got.Text != "상담 가능할까요?" {
		t.Fatalf("expected unknown frame to be dropped silently, got %+v", got)
	}
}

func TestDecodeErrorBudgetClosesConnection(t *testing.T) {
	srv := newRelayTestServer(t, &fakeGateway{report: testReport()})
	conn := dialRelayWS(t, srv)

	for i := 0; i < 3; i++ {
		if err := websocket.Message.Send(conn, "not json"); err != nil {
			t.Fatalf("send malformed frame: %v", err)
		}
	}

	_ = conn.SetDeadline(time.Now().Add(2 * time.Second))
	var got relayTestFrame
	if err := json.NewDecoder(conn).Decode(&got); err == nil {
		t.Fatalf("expected closed connection after repeated decode errors, got %+v", got)
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := newRelayTestServer(t, &fakeGateway{report: testReport()})

	resp, err := http.Get(srv.URL + "/up")
	if err != nil {
		t.Fatalf("get /up: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from /up, got %d", resp.StatusCode)
	}
}

func TestWebSocketRouteRejectsNonGET(t *testing.T) {
	srv := newRelayTestServer(t, &fakeGateway{report: testReport()})

	resp, err := http.Post(srv.URL+"/ws/chat", "application/json", nil)
	if err != nil {
		t.Fatalf("post /ws/chat: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 from non-GET, got %d", resp.StatusCode)
	}
}
