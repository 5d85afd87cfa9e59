// Package gelf mirrors the process log to a Graylog endpoint over UDP.
package gelf

import (
	"encoding/json"
	"net"
	"os"
	"strings"
	"time"
)

// Writer implements io.Writer so it can back log.SetOutput via io.MultiWriter.
// Every Write sends one GELF 1.1 message, fire-and-forget.
type Writer struct {
	conn     net.Conn
	hostname string
}

// New connects a GELF UDP writer to addr (e.g. "172.17.0.1:12201").
func New(addr string) (*Writer, error) {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, err
	}

	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "gradehub"
	}
	return &Writer{conn: conn, hostname: hostname}, nil
}

func (w *Writer) Write(p []byte) (int, error) {
	msg := strings.TrimRight(string(p), "\n")

	// The standard log package prefixes lines with "2006/01/02 15:04:05 "
	// (exactly 20 characters). Strip it for a clean short_message.
	short := msg
	if len(msg) > 20 && msg[4] == '/' && msg[7] == '/' && msg[10] == ' ' && msg[13] == ':' {
		short = msg[20:]
	}

	level := 6 // informational
	switch {
	case strings.Contains(short, "PANIC:") || strings.Contains(short, "Fatal"):
		level = 3 // error
	case strings.HasPrefix(short, "Warning:"):
		level = 4 // warning
	}

	payload, err := json.Marshal(map[string]interface{}{
		"version":       "1.1",
		"host":          w.hostname,
		"short_message": short,
		"timestamp":     float64(time.Now().UnixNano()) / 1e9,
		"level":         level,
		"_service":      "gradehub",
	})
	if err != nil {
		return len(p), nil // never fail the log call
	}

	w.conn.Write(payload)
	return len(p), nil
}

func (w *Writer) Close() error { return w.conn.Close() }
