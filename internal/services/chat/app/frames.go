package server

import (
	"strings"

	"github.com/daeunpk/AX-MALL-AI-SERVICE/internal/seed/store"
)

const (
	frameTypeMsg             = "msg"
	frameTypeStrategyRequest = "strategy_request"
	frameTypeRequestReport   = "request_report"
	frameTypeStrategyResult  = "strategy_result"
	frameTypeStrategyError   = "strategy_error"
)

const unknownCustomerID = "unknown"

// inboundFrame is the raw decoded wire shape before classification.
// All frames on this wire are flat objects with a "type" discriminator.
type inboundFrame struct {
	Type       string `json:"type"`
	Sender     string `json:"sender,omitempty"`
	Text       string `json:"text,omitempty"`
	CustomerID string `json:"customerId,omitempty"`
}

// Classified inbound variants. Unrecognized types decode to inboundUnknown
// so the session loop can drop them without ad-hoc field access.
type inboundChat struct {
	Sender string
	Text   string
}

type inboundStrategyRequest struct {
	CustomerID string
}

type inboundUnknown struct {
	Type string
}

func classifyInbound(frame inboundFrame) any {
	switch frame.Type {
	case frameTypeMsg:
		sender := strings.TrimSpace(frame.Sender)
		if sender == "" {
			sender = senderCustomer
		}
		return inboundChat{Sender: sender, Text: frame.Text}
	case frameTypeStrategyRequest, frameTypeRequestReport:
		customerID := strings.TrimSpace(frame.CustomerID)
		if customerID == "" {
			customerID = unknownCustomerID
		}
		return inboundStrategyRequest{CustomerID: customerID}
	default:
		return inboundUnknown{Type: frame.Type}
	}
}

type chatFrame struct {
	Type   string `json:"type"`
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

type strategyResultFrame struct {
	Type                string          `json:"type"`
	CustomerID          string          `json:"customerId"`
	Summary             string          `json:"summary"`
	Keyword             []string        `json:"keyword"`
	Strategy            []string        `json:"strategy"`
	RecommendedProducts []store.Product `json:"recommendedProducts"`
	RecommendedCoupons  []store.Coupon  `json:"recommendedCoupons"`
	Debug               string          `json:"debug"`
}

type strategyErrorFrame struct {
	Type       string `json:"type"`
	CustomerID string `json:"customerId"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}
