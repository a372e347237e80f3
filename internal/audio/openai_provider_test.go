package audio

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// newFakeOpenAI serves /v1/audio/speech and records the decoded request
func newFakeOpenAI(t *testing.T, status int, body []byte) (*httptest.Server, *map[string]any) {
	t.Helper()

	got := map[string]any{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/speech" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		if status != http.StatusOK {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
			return
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write(body)
	}))
	t.Cleanup(server.Close)

	return server, &got
}

func TestNewOpenAIProvider(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
		errMsg  string
	}{
		{
			name: "missing API key",
			config: &Config{
				OpenAIKey: "",
			},
			wantErr: true,
			errMsg:  "OpenAI API key is required",
		},
		{
			name: "valid config",
			config: &Config{
				OpenAIKey: "test-key",
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewOpenAIProvider(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewOpenAIProvider() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && err != nil && err.Error() != tt.errMsg {
				t.Errorf("NewOpenAIProvider() error = %v, want %v", err.Error(), tt.errMsg)
			}

			// Check provider properties
			if !tt.wantErr && provider != nil {
				if provider.Name() != "openai" {
					t.Errorf("Name() = %v, want %v", provider.Name(), "openai")
				}
				if provider.Format() != "mp3" {
					t.Errorf("Format() = %v, want mp3", provider.Format())
				}
			}
		})
	}
}

func TestOpenAIProviderIsAvailable(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name: "with API key",
			config: &Config{
				OpenAIKey: "test-key",
			},
			wantErr: false,
		},
		{
			name: "without API key",
			config: &Config{
				OpenAIKey: "",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &OpenAIProvider{
				config: tt.config,
			}
			err := provider.IsAvailable()
			if (err != nil) != tt.wantErr {
				t.Errorf("IsAvailable() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOpenAISynthesize(t *testing.T) {
	server, got := newFakeOpenAI(t, http.StatusOK, []byte("mp3-bytes"))

	config := DefaultProviderConfig()
	config.OpenAIKey = "test-key"
	config.OpenAIBaseURL = server.URL + "/v1"

	provider, err := NewOpenAIProvider(config)
	if err != nil {
		t.Fatalf("NewOpenAIProvider failed: %v", err)
	}

	data, err := provider.Synthesize(context.Background(), "Bonjour", "fr-FR", "")
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if string(data) != "mp3-bytes" {
		t.Errorf("Synthesize = %q, want mp3-bytes", data)
	}

	req := *got
	if req["input"] != "Bonjour" {
		t.Errorf("input = %v, want Bonjour", req["input"])
	}
	if req["voice"] != "alloy" {
		t.Errorf("voice = %v, want default alloy", req["voice"])
	}
	if req["response_format"] != "mp3" {
		t.Errorf("response_format = %v, want mp3", req["response_format"])
	}
	if req["instructions"] == nil {
		t.Error("gpt-4o-mini-tts requests should carry instructions")
	}
}

func TestOpenAISynthesizeVoiceOverride(t *testing.T) {
	server, got := newFakeOpenAI(t, http.StatusOK, []byte("x"))

	config := DefaultProviderConfig()
	config.OpenAIKey = "test-key"
	config.OpenAIBaseURL = server.URL + "/v1"
	config.OpenAIModel = "tts-1-hd"

	provider, _ := NewOpenAIProvider(config)
	if _, err := provider.Synthesize(context.Background(), "Hello", "en-GB", "nova"); err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}

	if (*got)["voice"] != "nova" {
		t.Errorf("voice = %v, want nova", (*got)["voice"])
	}
	if _, ok := (*got)["instructions"]; ok {
		t.Error("tts-1-hd requests should not carry instructions")
	}
}

func TestOpenAISynthesizeErrors(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		server, _ := newFakeOpenAI(t, http.StatusInternalServerError, nil)
		config := DefaultProviderConfig()
		config.OpenAIKey = "test-key"
		config.OpenAIBaseURL = server.URL + "/v1"

		provider, _ := NewOpenAIProvider(config)
		if _, err := provider.Synthesize(context.Background(), "Hello", "en-GB", ""); err == nil {
			t.Error("Expected error for HTTP 500")
		}
	})

	t.Run("empty body", func(t *testing.T) {
		server, _ := newFakeOpenAI(t, http.StatusOK, nil)
		config := DefaultProviderConfig()
		config.OpenAIKey = "test-key"
		config.OpenAIBaseURL = server.URL + "/v1"

		provider, _ := NewOpenAIProvider(config)
		if _, err := provider.Synthesize(context.Background(), "Hello", "en-GB", ""); err == nil {
			t.Error("Expected error for empty audio")
		}
	})
}

func TestOpenAIInstruction(t *testing.T) {
	provider := &OpenAIProvider{config: &Config{OpenAIInstruction: "custom"}}
	if got := provider.instruction("ja-JP"); got != "custom" {
		t.Errorf("instruction = %q, want configured instruction", got)
	}

	provider = &OpenAIProvider{config: &Config{}}
	if got := provider.instruction(""); got != "" {
		t.Errorf("instruction without language = %q, want empty", got)
	}
}

func TestOpenAIListVoices(t *testing.T) {
	provider := &OpenAIProvider{config: &Config{}}
	voices, err := provider.ListVoices(context.Background(), "")
	if err != nil {
		t.Fatalf("ListVoices failed: %v", err)
	}
	if len(voices) != len(openAIVoices) {
		t.Errorf("expected %d voices, got %d", len(openAIVoices), len(voices))
	}
}
