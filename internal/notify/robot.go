// Package notify delivers rendered reports to a DingTalk-style robot
// webhook. Delivery is fire-and-forget: the audit never fails because
// the channel is down.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type Robot struct {
	url  string
	http *http.Client
}

func NewRobot(url string) *Robot {
	return &Robot{
		url:  url,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

type textPayload struct {
	MsgType string `json:"msgtype"`
	Text    struct {
		Content string `json:"content"`
	} `json:"text"`
	At struct {
		AtMobiles []string `json:"atMobiles"`
		IsAtAll   bool     `json:"isAtAll"`
	} `json:"at"`
}

// Send posts msg as a text message, @-mentioning the manager by phone
// number so the report lands in front of the responsible contact.
func (r *Robot) Send(ctx context.Context, msg, managerPhone string) error {
	var p textPayload
	p.MsgType = "text"
	p.Text.Content = msg
	if managerPhone != "" {
		p.At.AtMobiles = []string{managerPhone}
	}

	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		return fmt.Errorf("post report: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("robot: status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	return nil
}
