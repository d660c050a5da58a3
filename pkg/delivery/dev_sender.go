package delivery

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"
)

// DevSender writes each message as a JSON file to a directory instead of
// delivering it. Useful for local development and end-to-end tests that need
// to read the code back.
type DevSender struct {
	dir string
	seq atomic.Uint64
}

// NewDevSender creates a development sender that saves messages to dir.
// The directory is created on first send if it does not exist.
func NewDevSender(dir string) *DevSender {
	return &DevSender{dir: dir}
}

type devMessage struct {
	Timestamp string `json:"timestamp"`
	Channel   string `json:"channel"`
	To        string `json:"to"`
	Code      string `json:"code"`
	Purpose   string `json:"purpose"`
	ExpiresIn string `json:"expires_in,omitempty"`
}

// SendCode saves the message to disk.
func (d *DevSender) SendCode(ctx context.Context, msg CodeMessage) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("%w: create directory: %v", ErrSendFailed, err)
	}

	payload := devMessage{
		Timestamp: time.Now().Format(time.RFC3339),
		Channel:   string(msg.Channel),
		To:        msg.To,
		Code:      msg.Code,
		Purpose:   msg.Purpose,
	}
	if msg.ExpiresIn > 0 {
		payload.ExpiresIn = msg.ExpiresIn.String()
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal message: %v", ErrSendFailed, err)
	}

	name := fmt.Sprintf("%s_%s_%d.json",
		time.Now().Format("2006_01_02_150405"), msg.Purpose, d.seq.Add(1))
	if err := os.WriteFile(filepath.Join(d.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("%w: write message: %v", ErrSendFailed, err)
	}
	return nil
}
