package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mandalnilabja/goatplan/internal/provider/upstream"
	"github.com/mandalnilabja/goatplan/internal/types"
)

func TestGenerateCompletion_SystemFoldedIntoFirstTurn(t *testing.T) {
	var got request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-1.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "g-key", r.URL.Query().Get("key"))
		assert.Empty(t, r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"done"}]}}]}`))
	}))
	defer srv.Close()

	p := New("g-key", "gemini-1.5-flash", upstream.WithBaseURL(srv.URL))
	completion, err := p.GenerateCompletion(context.Background(), []types.Message{
		{Role: types.RoleSystem, Content: "S"},
		{Role: types.RoleUser, Content: "U"},
	})
	require.NoError(t, err)

	assert.Equal(t, "done", completion.Content)
	assert.Equal(t, "gemini-1.5-flash", completion.Model)
	require.Len(t, got.Contents, 1)
	assert.Equal(t, "user", got.Contents[0].Role)
	assert.Equal(t, "S\n\nU", got.Contents[0].Parts[0].Text)
}

func TestBuildRequest(t *testing.T) {
	tests := []struct {
		name     string
		messages []types.Message
		want     []content
	}{
		{
			name: "roles mapped",
			messages: []types.Message{
				{Role: types.RoleUser, Content: "hi"},
				{Role: types.RoleAssistant, Content: "hello"},
				{Role: types.RoleUser, Content: "plan"},
			},
			want: []content{
				{Role: "user", Parts: []part{{Text: "hi"}}},
				{Role: "model", Parts: []part{{Text: "hello"}}},
				{Role: "user", Parts: []part{{Text: "plan"}}},
			},
		},
		{
			name: "multiple system texts joined",
			messages: []types.Message{
				{Role: types.RoleSystem, Content: "a"},
				{Role: types.RoleSystem, Content: "b"},
				{Role: types.RoleUser, Content: "U"},
			},
			want: []content{{Role: "user", Parts: []part{{Text: "a\nb\n\nU"}}}},
		},
		{
			name: "system dropped when first turn is model",
			messages: []types.Message{
				{Role: types.RoleSystem, Content: "S"},
				{Role: types.RoleAssistant, Content: "A"},
				{Role: types.RoleUser, Content: "U"},
			},
			want: []content{
				{Role: "model", Parts: []part{{Text: "A"}}},
				{Role: "user", Parts: []part{{Text: "U"}}},
			},
		},
		{
			name:     "only system",
			messages: []types.Message{{Role: types.RoleSystem, Content: "S"}},
			want:     []content{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildRequest(tt.messages).Contents)
		})
	}
}

func TestBuildRequest_DoesNotMutateInput(t *testing.T) {
	messages := []types.Message{
		{Role: types.RoleSystem, Content: "S"},
		{Role: types.RoleUser, Content: "U"},
	}
	buildRequest(messages)
	assert.Equal(t, "U", messages[1].Content)
}

func TestGenerateCompletion_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"status":"INVALID_ARGUMENT"}}`))
	}))
	defer srv.Close()

	p := New("k", "", upstream.WithBaseURL(srv.URL))
	_, err := p.GenerateCompletion(context.Background(), []types.Message{{Role: types.RoleUser, Content: "U"}})

	var reqErr *types.ProviderRequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, http.StatusBadRequest, reqErr.StatusCode)
	assert.Contains(t, reqErr.Body, "INVALID_ARGUMENT")
}

func TestDefaults(t *testing.T) {
	p := New("k", "")
	assert.Equal(t, Name, p.Name())
	assert.Equal(t, DefaultModel, p.Model())
	assert.Contains(t, p.endpoint(), DefaultBaseURL+"/models/"+DefaultModel+":generateContent?key=k")
}
