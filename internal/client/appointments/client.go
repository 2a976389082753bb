// Package appointments is the outbound boundary to the remote booking
// service. Requests travel through the platform's bypass proxy: the proxy
// receives an envelope naming the real endpoint and forwards the body there.
package appointments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 20 * time.Second

// ErrUnavailable is returned when the booking service cannot be reached at
// all (as opposed to reached and rejecting the request).
var ErrUnavailable = errors.New("booking service unreachable")

// CreateAppointmentCommand is the create-appointment intent sent on confirm.
// ScheduledDate is an RFC 3339 instant; UserID and TicketID are opaque
// caller-session identifiers passed through unchanged.
type CreateAppointmentCommand struct {
	ScheduledDate string `json:"scheduledDate"`
	Description   string `json:"description"`
	Status        string `json:"status"`
	UserID        int64  `json:"userId"`
	TicketID      int64  `json:"ticketId"`
}

// RemoteError carries the booking service's rejection so callers can surface
// its message to the user.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("booking service: %s", e.Message)
	}
	return fmt.Sprintf("booking service returned status %d", e.StatusCode)
}

type Client struct {
	bypassURL  string
	targetURL  string
	httpClient *http.Client
}

func NewClient(bypassURL, targetURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		bypassURL:  bypassURL,
		targetURL:  targetURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type bypassEnvelope struct {
	URL    string                   `json:"url"`
	Method string                   `json:"method"`
	Body   CreateAppointmentCommand `json:"body"`
}

func (c *Client) Create(ctx context.Context, cmd CreateAppointmentCommand) error {
	payload, err := json.Marshal(bypassEnvelope{
		URL:    c.targetURL,
		Method: http.MethodPost,
		Body:   cmd,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.bypassURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var remote struct {
		Message string `json:"message"`
	}
	msg := ""
	if err := json.Unmarshal(body, &remote); err == nil {
		msg = strings.TrimSpace(remote.Message)
	}
	if msg == "" {
		msg = strings.TrimSpace(string(body))
	}
	return &RemoteError{StatusCode: resp.StatusCode, Message: msg}
}
