package cli

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

func TestNonBlockingReader_ReadLine(t *testing.T) {
	reader := NewNonBlockingReader(strings.NewReader("hello world\nsecond\n"))

	line, err := reader.ReadLine(context.Background())
	if err != nil {
		t.Fatalf("ReadLine failed: %v", err)
	}
	if line != "hello world" {
		t.Errorf("Expected 'hello world', got %q", line)
	}

	line, err = reader.ReadLine(context.Background())
	if err != nil {
		t.Fatalf("Second ReadLine failed: %v", err)
	}
	if line != "second" {
		t.Errorf("Expected 'second', got %q", line)
	}
}

func TestNonBlockingReader_TrimsWhitespace(t *testing.T) {
	reader := NewNonBlockingReader(strings.NewReader("  padded  \n"))

	line, err := reader.ReadLine(context.Background())
	if err != nil {
		t.Fatalf("ReadLine failed: %v", err)
	}
	if line != "padded" {
		t.Errorf("Expected trimmed line, got %q", line)
	}
}

func TestNonBlockingReader_Cancellation(t *testing.T) {
	// A reader that never produces input.
	pr, pw := io.Pipe()
	defer func() { _ = pw.Close() }()
	reader := NewNonBlockingReader(pr)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := reader.ReadLine(ctx)
	if !errors.Is(err, ErrInputCancelled) {
		t.Errorf("Expected ErrInputCancelled, got %v", err)
	}
}
