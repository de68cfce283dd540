package internal

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestShowProgress(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		message string
		fn      func() error
		wantErr bool
	}{
		{
			name:    "successful function",
			message: "Testing",
			fn: func() error {
				return nil
			},
			wantErr: false,
		},
		{
			name:    "function with error",
			message: "Testing error",
			fn: func() error {
				return errors.New("test error")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := showProgress(ctx, &buf, tt.message, tt.fn)
			if (err != nil) != tt.wantErr {
				t.Errorf("showProgress() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !strings.Contains(buf.String(), tt.message) {
				t.Errorf("output %q does not contain message %q", buf.String(), tt.message)
			}
		})
	}
}

func TestShowProgress_Spinner(t *testing.T) {
	var buf bytes.Buffer
	err := showProgress(context.Background(), &buf, "Waiting", func() error {
		time.Sleep(250 * time.Millisecond)
		return nil
	})
	if err != nil {
		t.Fatalf("showProgress() error = %v", err)
	}
	if n := strings.Count(buf.String(), "\r"); n < 2 {
		t.Errorf("expected spinner frames to be drawn, got %d redraws", n)
	}
}

func TestShowProgress_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	release := make(chan struct{})
	var buf bytes.Buffer
	err := showProgress(ctx, &buf, "Testing", func() error {
		<-release
		return nil
	})
	close(release)

	if !errors.Is(err, context.Canceled) {
		t.Errorf("showProgress() error = %v, want context.Canceled", err)
	}
}

func TestShowProgress_NotTerminal(t *testing.T) {
	// Under go test stderr is normally not a terminal; fn must run either way
	called := false
	err := ShowProgress(context.Background(), "Testing", func() error {
		called = true
		return nil
	})
	if err != nil {
		t.Errorf("ShowProgress() error = %v", err)
	}
	if !called {
		t.Error("ShowProgress() did not run fn")
	}
}

func TestIsTerminal(t *testing.T) {
	var buf bytes.Buffer
	if isTerminal(&buf) {
		t.Error("a buffer is not a terminal")
	}
}

func TestPrintMessages(t *testing.T) {
	tests := []struct {
		name  string
		print func(w *bytes.Buffer, message string)
		want  string
	}{
		{
			name:  "error",
			print: func(w *bytes.Buffer, message string) { printError(w, message) },
			want:  "Error: request failed\n",
		},
		{
			name:  "warning",
			print: func(w *bytes.Buffer, message string) { printWarning(w, message) },
			want:  "WARNING: request failed\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.print(&buf, "request failed")
			if got := buf.String(); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}
