package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulateChefAgent(t *testing.T) {
	t.Run("generates unsafe pesto on first attempt with nuts allergy", func(t *testing.T) {
		result := simulateChefAgent("Italian", "nuts", "chicken, tomatoes", 1)

		assert.Equal(t, "Pesto Pasta", result["recipe_name"])
		text := strings.ToLower(result["recipe_text"].(string))
		assert.Contains(t, text, "pesto")
		assert.Contains(t, text, "pine nuts")
	})

	t.Run("generates unsafe pesto with multiple allergies including nuts", func(t *testing.T) {
		result := simulateChefAgent("Italian", "dairy, nuts, shellfish", "pasta, basil", 1)

		assert.Equal(t, "Pesto Pasta", result["recipe_name"])
		assert.Contains(t, strings.ToLower(result["recipe_text"].(string)), "pine nuts")
	})

	t.Run("generates safe recipe on second attempt", func(t *testing.T) {
		result := simulateChefAgent("Italian", "nuts", "chicken, tomatoes", 2)

		name := result["recipe_name"].(string)
		assert.NotEqual(t, "Pesto Pasta", name)
		assert.Contains(t, name, "Safe")
		assert.Contains(t, name, "Italian")
		assert.NotContains(t, strings.ToLower(result["recipe_text"].(string)), "pine nuts")
	})

	t.Run("generates normal recipe without nuts allergy", func(t *testing.T) {
		result := simulateChefAgent("Mexican", "dairy", "beef, peppers", 1)

		name := result["recipe_name"].(string)
		assert.NotEqual(t, "Pesto Pasta", name)
		assert.Contains(t, name, "Safe")
		assert.Contains(t, name, "Mexican")
	})

	t.Run("uses provided ingredients", func(t *testing.T) {
		result := simulateChefAgent("Chinese", "shellfish", "tofu, broccoli, soy sauce", 2)

		text := strings.ToLower(result["recipe_text"].(string))
		assert.True(t,
			strings.Contains(text, "tofu") ||
				strings.Contains(text, "broccoli") ||
				strings.Contains(text, "soy sauce"))
	})

	t.Run("caps referenced ingredients at three", func(t *testing.T) {
		result := simulateChefAgent("Thai", "", "rice, chili, lime, fish sauce, basil", 1)

		text := strings.ToLower(result["recipe_text"].(string))
		assert.Contains(t, text, "rice")
		assert.Contains(t, text, "lime")
		assert.NotContains(t, text, "fish sauce")
	})

	t.Run("handles blank cuisine", func(t *testing.T) {
		result := simulateChefAgent("", "dairy", "chicken, rice", 1)

		name := result["recipe_name"].(string)
		assert.Contains(t, name, "Safe")
		assert.Contains(t, name, "Delight")
		assert.NotNil(t, result["recipe_text"])
	})

	t.Run("handles blank allergies", func(t *testing.T) {
		result := simulateChefAgent("Italian", "", "pasta, tomatoes", 1)

		assert.NotEqual(t, "Pesto Pasta", result["recipe_name"])
		assert.Contains(t, result["recipe_name"].(string), "Safe")
	})

	t.Run("falls back to seasonal vegetables", func(t *testing.T) {
		result := simulateChefAgent("Japanese", "soy", "", 1)

		assert.Contains(t, strings.ToLower(result["recipe_text"].(string)), "seasonal vegetables")
	})

	t.Run("handles all blank fields", func(t *testing.T) {
		result := simulateChefAgent("", "", "", 1)

		name := result["recipe_name"].(string)
		assert.Contains(t, name, "Safe")
		assert.Contains(t, name, "Delight")
		assert.Contains(t, strings.ToLower(result["recipe_text"].(string)), "seasonal vegetables")
	})
}

func TestAgentClientShortCircuitsWithoutKey(t *testing.T) {
	client := NewAgentClient(AgentConfig{Endpoint: "http://localhost:1"})

	result := client.Generate(context.Background(), "Italian", "nuts", "pasta", "", 1)

	require.Contains(t, result, "error")
	assert.Contains(t, result["error"].(string), "API key")
}

func TestAgentClientRemoteCall(t *testing.T) {
	t.Run("successful call returns decoded body", func(t *testing.T) {
		var gotPayload map[string]interface{}
		var gotAPIKey string
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAPIKey = r.Header.Get("X-API-Key")
			body, _ := io.ReadAll(r.Body)
			require.NoError(t, json.Unmarshal(body, &gotPayload))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"result":"{\"recipe_name\":\"Dal\",\"recipe_text\":\"Cook lentils.\",\"is_safe\":true,\"safety_notes\":\"ok\"}"}`))
		}))
		defer ts.Close()

		client := NewAgentClient(AgentConfig{
			Endpoint: ts.URL,
			APIKey:   "test-key",
			UserID:   "6f1b7a36-22c5-4bb5-ae6c-b36e07df4ad1",
		})

		result := client.Generate(context.Background(), "Indian", "", "lentils", "", 1)

		require.NotContains(t, result, "error")
		assert.Contains(t, result, "result")

		assert.Equal(t, "test-key", gotAPIKey)
		assert.Equal(t, "6f1b7a36-22c5-4bb5-ae6c-b36e07df4ad1", gotPayload["userId"])
		assert.Equal(t, false, gotPayload["asyncOutput"])
		assert.Contains(t, gotPayload["userInput"].(string), "cuisine: Indian")
	})

	t.Run("retry includes previous error in the prompt", func(t *testing.T) {
		var userInput string
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var payload map[string]interface{}
			body, _ := io.ReadAll(r.Body)
			require.NoError(t, json.Unmarshal(body, &payload))
			userInput = payload["userInput"].(string)
			w.Write([]byte(`{}`))
		}))
		defer ts.Close()

		client := NewAgentClient(AgentConfig{Endpoint: ts.URL, APIKey: "test-key"})
		client.Generate(context.Background(), "Italian", "nuts", "pasta", "UNSAFE: contains pine nuts", 2)

		assert.Contains(t, userInput, "previous_error: UNSAFE: contains pine nuts")
	})

	t.Run("non-2xx status becomes an error value", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer ts.Close()

		client := NewAgentClient(AgentConfig{Endpoint: ts.URL, APIKey: "test-key"})
		result := client.Generate(context.Background(), "", "", "", "", 1)

		require.Contains(t, result, "error")
		assert.Contains(t, result["error"].(string), "502")
	})

	t.Run("undecodable body becomes an error value with raw text", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>not json</html>"))
		}))
		defer ts.Close()

		client := NewAgentClient(AgentConfig{Endpoint: ts.URL, APIKey: "test-key"})
		result := client.Generate(context.Background(), "", "", "", "", 1)

		require.Contains(t, result, "error")
		assert.Equal(t, "<html>not json</html>", result["raw_text"])
	})

	t.Run("unreachable endpoint becomes an error value", func(t *testing.T) {
		client := NewAgentClient(AgentConfig{Endpoint: "http://127.0.0.1:1", APIKey: "test-key"})

		result := client.Generate(context.Background(), "", "", "", "", 1)

		require.Contains(t, result, "error")
	})
}

func TestAgentClientUserGUID(t *testing.T) {
	t.Run("valid configured GUID is used as-is", func(t *testing.T) {
		id := uuid.New().String()
		client := NewAgentClient(AgentConfig{UserID: id})

		assert.Equal(t, id, client.userGUID())
	})

	t.Run("invalid GUID is replaced", func(t *testing.T) {
		client := NewAgentClient(AgentConfig{UserID: "not-a-guid"})

		got := client.userGUID()
		assert.NotEqual(t, "not-a-guid", got)
		_, err := uuid.Parse(got)
		assert.NoError(t, err)
	})

	t.Run("missing GUID is generated", func(t *testing.T) {
		client := NewAgentClient(AgentConfig{})

		_, err := uuid.Parse(client.userGUID())
		assert.NoError(t, err)
	})
}

func TestBuildStrictPrompt(t *testing.T) {
	prompt := buildStrictPrompt("Italian", "nuts", "pasta, basil", "")

	assert.Contains(t, prompt, "OUTPUT ONLY a single JSON object")
	assert.Contains(t, prompt, "cuisine: Italian")
	assert.Contains(t, prompt, "allergies: nuts")
	assert.Contains(t, prompt, "ingredients: pasta, basil")
	assert.NotContains(t, prompt, "previous_error")
}

func TestGenerateInSimulationMode(t *testing.T) {
	client := NewAgentClient(AgentConfig{Simulate: true})

	result := client.Generate(context.Background(), "Italian", "nuts", "chicken", "", 1)

	assert.Equal(t, "Pesto Pasta", result["recipe_name"])
}
