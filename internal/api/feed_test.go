package api

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/createconomy/createconomy/internal/events"
)

func TestPushFor(t *testing.T) {
	ev := events.Event{
		Entity: "thread",
		ID:     42,
		Action: events.ActionUpdated,
		Origin: "6e8bc430-9c3a-11d9-9669-0800200c9a66",
	}

	data, err := json.Marshal(pushFor(ev))
	if err != nil {
		t.Fatalf("failed to marshal push: %v", err)
	}

	var wire map[string]interface{}
	if err := json.Unmarshal(data, &wire); err != nil {
		t.Fatalf("failed to unmarshal push: %v", err)
	}

	if wire["key"] != "thread:42" {
		t.Errorf("key = %v, expected thread:42", wire["key"])
	}
	if wire["entity"] != "thread" {
		t.Errorf("entity = %v, expected thread", wire["entity"])
	}
	if wire["action"] != events.ActionUpdated {
		t.Errorf("action = %v, expected %s", wire["action"], events.ActionUpdated)
	}
	if _, ok := wire["origin"]; ok {
		t.Error("origin must not reach clients")
	}
	if strings.Contains(string(data), ev.Origin) {
		t.Error("origin UUID leaked into the wire form")
	}
}
