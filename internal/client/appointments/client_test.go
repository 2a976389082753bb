package appointments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCreate_SendsBypassEnvelope(t *testing.T) {
	var got bypassEnvelope
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Fatalf("content-type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "https://booking.example.com/appointments", 0)
	err := c.Create(context.Background(), CreateAppointmentCommand{
		ScheduledDate: "2026-03-02T09:30:00Z",
		Description:   "Appointment with Ana Souza",
		Status:        "pending",
		UserID:        3,
		TicketID:      12,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if got.URL != "https://booking.example.com/appointments" {
		t.Fatalf("envelope url = %q", got.URL)
	}
	if got.Method != http.MethodPost {
		t.Fatalf("envelope method = %q", got.Method)
	}
	if got.Body.Status != "pending" || got.Body.ScheduledDate != "2026-03-02T09:30:00Z" {
		t.Fatalf("envelope body = %+v", got.Body)
	}
	if got.Body.UserID != 3 || got.Body.TicketID != 12 {
		t.Fatalf("envelope identifiers = %+v", got.Body)
	}
}

func TestCreate_RemoteRejectionCarriesMessage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "slot already taken"})
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "https://booking.example.com/appointments", 0)
	err := c.Create(context.Background(), CreateAppointmentCommand{Status: "pending"})

	var remote *RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("err = %v, want *RemoteError", err)
	}
	if remote.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want 409", remote.StatusCode)
	}
	if !strings.Contains(remote.Error(), "slot already taken") {
		t.Fatalf("message not surfaced: %v", remote)
	}
}

func TestCreate_RemoteRejectionWithoutMessage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "", http.StatusInternalServerError)
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "https://booking.example.com/appointments", 0)
	err := c.Create(context.Background(), CreateAppointmentCommand{Status: "pending"})

	var remote *RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("err = %v, want *RemoteError", err)
	}
	if !strings.Contains(remote.Error(), "500") {
		t.Fatalf("generic message should carry status: %v", remote)
	}
}

func TestCreate_ConnectivityFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close()

	c := NewClient(ts.URL, "https://booking.example.com/appointments", 0)
	err := c.Create(context.Background(), CreateAppointmentCommand{Status: "pending"})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want %v", err, ErrUnavailable)
	}
}
