package redis

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/yungbote/insightpath-backend/internal/sse"
)

func TestFrameRoundTrip(t *testing.T) {
	in := sse.SSEMessage{
		Channel: "user:3f0e9c2a-1111-4222-8333-944455556666",
		Event:   sse.SSEEventNotificationCreated,
		Data:    map[string]any{"title": "Submission Reviewed", "score": 90},
	}

	raw, err := encodeFrame(in, time.Now().UTC())
	if err != nil {
		t.Fatalf("encodeFrame: %v", err)
	}
	out, err := decodeFrame(raw)
	if err != nil {
		t.Fatalf("decodeFrame: %v", err)
	}
	if out.Channel != in.Channel || out.Event != in.Event {
		t.Fatalf("routing fields = %q/%q, want %q/%q", out.Channel, out.Event, in.Channel, in.Event)
	}

	payload := map[string]any{}
	rawData, ok := out.Data.(json.RawMessage)
	if !ok {
		t.Fatalf("Data type = %T, want json.RawMessage", out.Data)
	}
	if err := json.Unmarshal(rawData, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload["title"] != "Submission Reviewed" {
		t.Fatalf("payload = %v", payload)
	}
}

func TestEncodeFrameRequiresChannel(t *testing.T) {
	_, err := encodeFrame(sse.SSEMessage{Event: sse.SSEEventProjectUpdated}, time.Now())
	if err == nil {
		t.Fatal("expected error for empty channel")
	}
}

func TestDecodeFrameRejectsBadFrames(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{"garbage", "not json"},
		{"future version", `{"v":2,"channel":"user:x","event":"ProjectUpdated"}`},
		{"missing channel", `{"v":1,"event":"ProjectUpdated"}`},
	}
	for _, tc := range cases {
		if _, err := decodeFrame([]byte(tc.payload)); err == nil {
			t.Fatalf("%s: expected decode error", tc.name)
		}
	}
}

func TestFrameWithoutPayload(t *testing.T) {
	raw, err := encodeFrame(sse.SSEMessage{
		Channel: "project:1",
		Event:   sse.SSEEventMilestoneCreated,
	}, time.Now().UTC())
	if err != nil {
		t.Fatalf("encodeFrame: %v", err)
	}
	out, err := decodeFrame(raw)
	if err != nil {
		t.Fatalf("decodeFrame: %v", err)
	}
	if out.Data != nil {
		t.Fatalf("Data = %v, want nil", out.Data)
	}
}
