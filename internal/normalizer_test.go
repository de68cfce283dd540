package internal

import (
	"testing"

	"github.com/iksnae/jonsai/testutil"
)

func TestNormalizer_ExtractGeneratedText(t *testing.T) {
	tests := []struct {
		name    string
		fixture string
		want    string
		wantErr bool
	}{
		{name: "list of generations", fixture: "generation/list.json", want: "Hello"},
		{name: "bare string", fixture: "generation/string.json", want: "Hello"},
		{name: "single object", fixture: "generation/object.json", want: "Hello"},
		{name: "empty list", fixture: "generation/empty_list.json", want: ""},
		{name: "object without generated_text", fixture: "generation/loading.json", want: ""},
		{name: "other JSON value", fixture: "generation/number.json", want: ""},
	}

	n := NewNormalizer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := n.ExtractGeneratedText(testutil.LoadFixture(t, tt.fixture))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ExtractGeneratedText() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ExtractGeneratedText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizer_ExtractGeneratedText_Invalid(t *testing.T) {
	n := NewNormalizer()
	for _, body := range []string{"", "   ", "not json", `[{"generated_text": "x"}`} {
		if _, err := n.ExtractGeneratedText([]byte(body)); err == nil {
			t.Errorf("ExtractGeneratedText(%q) expected error", body)
		}
	}
}

func TestNormalizer_ExtractGeneratedText_NonStringField(t *testing.T) {
	n := NewNormalizer()
	got, err := n.ExtractGeneratedText([]byte(`[{"generated_text": 7}, {"generated_text": "second"}]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("got %q, want empty (only the first element is considered)", got)
	}
}

func TestNormalizer_NormalizeReply(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "list", body: `[{"generated_text": "Hello"}]`, want: "Hello"},
		{name: "string", body: `"Hello"`, want: "Hello"},
		{name: "object", body: `{"generated_text": "Hello"}`, want: "Hello"},
		{name: "delimited string", body: `"  <|assistant|>Hi there!</s>"`, want: "Hi there!"},
		{name: "only delimiters", body: `"<|assistant|></s>"`, want: FallbackReply},
		{name: "only punctuation", body: `[{"generated_text": " ... !!"}]`, want: FallbackReply},
		{name: "unknown shape", body: `true`, want: FallbackReply},
		{name: "null", body: `null`, want: FallbackReply},
	}

	n := NewNormalizer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := n.NormalizeReply([]byte(tt.body))
			if err != nil {
				t.Fatalf("NormalizeReply() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("NormalizeReply() = %q, want %q", got, tt.want)
			}
		})
	}
}
