package chatbot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiClientComplete(t *testing.T) {
	var gotPath string
	var gotKey string
	var gotReq GeminiChatRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		_ = json.NewDecoder(r.Body).Decode(&gotReq)

		res := GeminiChatResponse{
			Candidates: []*GeminiChatCandidate{
				{
					Content: &GeminiChatContent{
						Parts: []*GeminiChatParts{{Text: "The answer is 42."}},
						Role:  ChatMessageRoleModel,
					},
				},
			},
		}
		_ = json.NewEncoder(w).Encode(res)
	}))
	defer srv.Close()

	client := NewGeminiClient("test-key", "gemini-1.5-flash", srv.URL)

	answer, err := client.Complete(context.Background(), "What is the answer?")
	require.NoError(t, err)
	assert.Equal(t, "The answer is 42.", answer)

	assert.Equal(t, "/v1/models/gemini-1.5-flash:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)
	require.Len(t, gotReq.Contents, 1)
	assert.Equal(t, ChatMessageRoleUser, gotReq.Contents[0].Role)
	assert.Equal(t, "What is the answer?", gotReq.Contents[0].Parts[0].Text)
}

func TestGeminiClientErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": "quota exceeded"}`))
	}))
	defer srv.Close()

	client := NewGeminiClient("test-key", "gemini-1.5-flash", srv.URL)

	_, err := client.Complete(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestGeminiClientEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(GeminiChatResponse{})
	}))
	defer srv.Close()

	client := NewGeminiClient("test-key", "gemini-1.5-flash", srv.URL)

	_, err := client.Complete(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty completion")
}
