package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"tmf-api/internal/model"
)

// HTTPNotifier はハブのコールバックURLにイベントをJSONでPOSTする
type HTTPNotifier struct {
	client *http.Client
}

// NewHTTPNotifier はタイムアウト付きのNotifierを作成
func NewHTTPNotifier(timeout time.Duration) *HTTPNotifier {
	return &HTTPNotifier{client: &http.Client{Timeout: timeout}}
}

// Notify はイベントを配信する（2xx以外はエラー）
func (n *HTTPNotifier) Notify(ctx context.Context, callback string, event model.Resource) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, callback, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build callback request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("callback %s: %w", callback, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("callback %s answered %d", callback, resp.StatusCode)
	}
	return nil
}
