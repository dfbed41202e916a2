package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

type HTTPNotifier struct {
	BaseURL string
	Client  *http.Client
}

func (n HTTPNotifier) AssignmentChanged(ctx context.Context, ev Event) error {
	if n.Client == nil {
		n.Client = &http.Client{Timeout: 15 * time.Second}
	}

	b, _ := json.Marshal(ev)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.BaseURL+"/notifications", bytes.NewBuffer(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.New("notification service error")
	}
	return nil
}
