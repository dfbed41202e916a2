package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPNotifierPostsEvent(t *testing.T) {
	var got Event
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/notifications" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	n := HTTPNotifier{BaseURL: srv.URL}
	ev := Event{GrievanceID: "G1", CollectorID: "C1", AreaID: "W1", Reason: "Urgent reassignment", OccurredAt: time.Now().UTC()}
	if err := n.AssignmentChanged(context.Background(), ev); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if got.GrievanceID != "G1" || got.CollectorID != "C1" {
		t.Fatalf("unexpected payload %+v", got)
	}
}

func TestHTTPNotifierServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	n := HTTPNotifier{BaseURL: srv.URL}
	if err := n.AssignmentChanged(context.Background(), Event{GrievanceID: "G1"}); err == nil {
		t.Fatalf("expected error on 502")
	}
}
