package voice

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Webhook event kinds.
const (
	EventCallStarted  = "call_started"
	EventCallEnded    = "call_ended"
	EventCallAnalyzed = "call_analyzed"
)

var (
	ErrNoOrderID  = errors.New("call metadata has no order_id")
	ErrBadOrderID = errors.New("call metadata order_id is not numeric")
)

// Event is the envelope posted to the webhook endpoint.
type Event struct {
	Event string `json:"event"`
	Call  Call   `json:"call"`
}

type Utterance struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Call struct {
	CallID              string            `json:"call_id"`
	CallType            string            `json:"call_type,omitempty"`
	AgentID             string            `json:"agent_id,omitempty"`
	CallStatus          string            `json:"call_status,omitempty"`
	StartTimestamp      int64             `json:"start_timestamp,omitempty"`
	EndTimestamp        int64             `json:"end_timestamp,omitempty"`
	DurationMS          int64             `json:"duration_ms,omitempty"`
	DisconnectionReason string            `json:"disconnection_reason,omitempty"`
	Transcript          string            `json:"transcript,omitempty"`
	TranscriptObject    []Utterance       `json:"transcript_object,omitempty"`
	Metadata            map[string]any    `json:"metadata,omitempty"`
	DynamicVariables    map[string]string `json:"retell_llm_dynamic_variables,omitempty"`
	CallAnalysis        *CallAnalysis     `json:"call_analysis,omitempty"`
}

type CallAnalysis struct {
	CallSuccessful     bool            `json:"call_successful"`
	CallSummary        string          `json:"call_summary"`
	CustomAnalysisData json.RawMessage `json:"custom_analysis_data,omitempty"`
}

// OrderID extracts metadata.order_id. It accepts the string form we send
// when creating the call and a bare JSON number.
func (c *Call) OrderID() (int64, error) {
	raw, ok := c.Metadata["order_id"]
	if !ok || raw == nil {
		return 0, ErrNoOrderID
	}
	switch v := raw.(type) {
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, ErrNoOrderID
		}
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrBadOrderID, v)
		}
		return id, nil
	case float64:
		if v != float64(int64(v)) {
			return 0, fmt.Errorf("%w: %v", ErrBadOrderID, v)
		}
		return int64(v), nil
	default:
		return 0, fmt.Errorf("%w: %v", ErrBadOrderID, v)
	}
}
