package services

import (
	"bytes"
	"regexp"
	"strings"
	"time"
)

// Document is a rendered file ready to be sent to the client.
type Document struct {
	Filename    string
	ContentType string
	Content     []byte
}

func pdfDocument(filename string, render func(buf *bytes.Buffer) error) (*Document, error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return nil, err
	}
	return &Document{
		Filename:    filename,
		ContentType: "application/pdf",
		Content:     buf.Bytes(),
	}, nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^\p{L}\p{N}._-]+`)

// safeFilename replaces whitespace with underscores and drops characters
// that do not belong in a Content-Disposition filename.
func safeFilename(s string) string {
	s = strings.Join(strings.Fields(s), "_")
	return unsafeFilenameChars.ReplaceAllString(s, "")
}

// Clock is overridable in tests.
type Clock func() time.Time

func today(now Clock) string {
	return now().Format("2006-01-02")
}

func validDate(raw string, now Clock) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return today(now), nil
	}
	if _, err := time.Parse("2006-01-02", raw); err != nil {
		return "", invalid("data non valida (atteso YYYY-MM-DD): %q", raw)
	}
	return raw, nil
}
