package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gliderlab/linerelay/gateway/channels/types"
	"github.com/gliderlab/linerelay/history"
	"github.com/gliderlab/linerelay/pkg/config"
	"github.com/gliderlab/linerelay/pkg/llm"
)

type fakeChannel struct {
	events    []types.InboundEvent
	parseErr  error
	healthErr error
}

func (f *fakeChannel) ParseRequest(r *http.Request) ([]types.InboundEvent, error) {
	if f.parseErr != nil {
		return nil, f.parseErr
	}
	return f.events, nil
}

func (f *fakeChannel) HealthCheck() error { return f.healthErr }

func textEvent(id, text string) types.InboundEvent {
	return types.InboundEvent{Message: &types.InboundMessage{
		Channel:        types.ChannelLINE,
		ConversationID: id,
		Text:           text,
		ReplyToken:     "rt-" + id,
	}}
}

func newTestGateway(channel WebhookChannel, conv Converser, rep types.Replier) *Gateway {
	cfg := config.Default()
	d := NewDispatcher(conv, history.NewStore(20), rep, cfg.MaxReplyChars)
	return New(cfg, channel, d)
}

func TestRootLiveness(t *testing.T) {
	gw := newTestGateway(&fakeChannel{}, &fakeConverser{reply: "ok"}, &fakeReplier{})
	srv := httptest.NewServer(gw.Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != LivenessMessage {
		t.Errorf("body = %q, want %q", body, LivenessMessage)
	}
}

func TestWebhookDispatchesBatch(t *testing.T) {
	channel := &fakeChannel{events: []types.InboundEvent{
		textEvent("G1", "こんにちは"),
		{}, // non-text event, must be acknowledged without a reply
		textEvent("U2", "やあ"),
	}}
	conv := &fakeConverser{reply: "はい、こんにちは"}
	rep := &fakeReplier{}
	gw := newTestGateway(channel, conv, rep)
	srv := httptest.NewServer(gw.Router())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/webhook", "application/json", strings.NewReader(`{"events":[]}`))
	if err != nil {
		t.Fatalf("POST /webhook: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var results []Result
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		t.Fatalf("decode results: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[1].Action != ActionIgnored {
		t.Errorf("non-text event action = %q, want %q", results[1].Action, ActionIgnored)
	}
	if results[0].Action != ActionReply || results[2].Action != ActionReply {
		t.Errorf("text event actions = %q, %q", results[0].Action, results[2].Action)
	}
	if conv.calls != 2 {
		t.Errorf("model called %d times, want 2", conv.calls)
	}
	if len(rep.texts) != 2 {
		t.Errorf("replied %d times, want 2", len(rep.texts))
	}
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	channel := &fakeChannel{parseErr: errors.New("invalid signature")}
	conv := &fakeConverser{}
	gw := newTestGateway(channel, conv, &fakeReplier{})
	srv := httptest.NewServer(gw.Router())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/webhook", "application/json", strings.NewReader(`{}`))
	if err != nil {
		t.Fatalf("POST /webhook: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	if conv.calls != 0 {
		t.Error("rejected request still reached the dispatcher")
	}
}

func TestWebhookUpstreamFailureStillSucceeds(t *testing.T) {
	channel := &fakeChannel{events: []types.InboundEvent{textEvent("U1", "hi")}}
	conv := &fakeConverser{err: &llm.UpstreamError{Provider: "google", Err: errors.New("down")}}
	rep := &fakeReplier{}
	gw := newTestGateway(channel, conv, rep)
	srv := httptest.NewServer(gw.Router())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/webhook", "application/json", strings.NewReader(`{}`))
	if err != nil {
		t.Fatalf("POST /webhook: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200 (upstream failures are handled per event)", resp.StatusCode)
	}
	var results []Result
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		t.Fatalf("decode results: %v", err)
	}
	if len(results) != 1 || results[0].Action != ActionApology {
		t.Errorf("results = %v, want one apology", results)
	}
}

func TestWebhookReplyFailureFailsBatch(t *testing.T) {
	channel := &fakeChannel{events: []types.InboundEvent{textEvent("U1", "hi")}}
	rep := &fakeReplier{err: errors.New("line is down")}
	gw := newTestGateway(channel, &fakeConverser{reply: "ok"}, rep)
	srv := httptest.NewServer(gw.Router())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/webhook", "application/json", strings.NewReader(`{}`))
	if err != nil {
		t.Fatalf("POST /webhook: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}
}

func TestHealthEndpoint(t *testing.T) {
	tests := []struct {
		name       string
		healthErr  error
		wantStatus int
		wantField  string
	}{
		{"healthy", nil, http.StatusOK, "ok"},
		{"degraded", errors.New("token revoked"), http.StatusServiceUnavailable, "degraded"},
	}

	for _, tt := range tests {
		gw := newTestGateway(&fakeChannel{healthErr: tt.healthErr}, &fakeConverser{}, &fakeReplier{})
		srv := httptest.NewServer(gw.Router())

		resp, err := http.Get(srv.URL + "/health")
		if err != nil {
			t.Fatalf("%s: GET /health: %v", tt.name, err)
		}
		if resp.StatusCode != tt.wantStatus {
			t.Errorf("%s: status = %d, want %d", tt.name, resp.StatusCode, tt.wantStatus)
		}
		var body map[string]string
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("%s: decode: %v", tt.name, err)
		}
		if body["status"] != tt.wantField {
			t.Errorf("%s: status field = %q, want %q", tt.name, body["status"], tt.wantField)
		}
		resp.Body.Close()
		srv.Close()
	}
}

func TestShutdownWithoutStart(t *testing.T) {
	gw := newTestGateway(&fakeChannel{}, &fakeConverser{}, &fakeReplier{})
	if err := gw.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown before Start: %v", err)
	}
}
