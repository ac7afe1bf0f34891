package email

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// DevSender writes each message to a directory as an HTML file plus a JSON
// metadata sidecar instead of sending it.
type DevSender struct {
	dir string
	now func() time.Time
}

// NewDevSender returns a file-based sender writing into dir.
func NewDevSender(dir string) *DevSender {
	return &DevSender{dir: dir, now: time.Now}
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-z0-9\-_.]`)

func (s *DevSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errors.Join(ErrSendFailed, err)
	}

	now := s.now()
	slug := msg.Tag
	if slug == "" {
		slug = msg.Subject
	}
	slug = unsafeFilenameChars.ReplaceAllString(strings.ToLower(strings.ReplaceAll(slug, " ", "_")), "")
	if len(slug) > 80 {
		slug = slug[:80]
	}
	base := filepath.Join(s.dir, fmt.Sprintf("%s_%s", now.Format("2006_01_02_150405"), slug))

	if err := os.WriteFile(base+".html", []byte(msg.BodyHTML), 0o644); err != nil {
		return errors.Join(ErrSendFailed, err)
	}

	meta, err := json.MarshalIndent(map[string]string{
		"timestamp": now.Format(time.RFC3339),
		"to":        msg.To,
		"subject":   msg.Subject,
		"tag":       msg.Tag,
	}, "", "  ")
	if err != nil {
		return errors.Join(ErrSendFailed, err)
	}
	if err := os.WriteFile(base+".json", meta, 0o644); err != nil {
		return errors.Join(ErrSendFailed, err)
	}
	return nil
}
