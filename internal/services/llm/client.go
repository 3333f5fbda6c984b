// Package llm talks to OpenAI-compatible chat-completions endpoints such as Groq.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is Groq's OpenAI-compatible API root.
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	// DefaultModel is the model used when none is configured.
	DefaultModel = "llama-3.3-70b-versatile"

	defaultTimeout     = 120 * time.Second
	defaultTemperature = 0.2
	defaultUserAgent   = "readmegen"

	chatCompletionsPath       = "/chat/completions"
	headerAuthorization       = "Authorization"
	headerContentType         = "Content-Type"
	headerAccept              = "Accept"
	contentTypeJSON           = "application/json"
	authorizationBearerPrefix = "Bearer "
	responseExcerptLimit      = 512

	// RoleSystem marks instructions for the model.
	RoleSystem = "system"
	// RoleUser marks the request content.
	RoleUser = "user"

	errorUnexpectedStatusFormat = "%w: %d from %s: %s"
	errorEncodeRequestFormat    = "encoding completion request: %w"
	errorBuildRequestFormat     = "building completion request: %w"
	errorSendRequestFormat      = "sending completion request: %w"
	errorDecodeResponseFormat   = "decoding completion response: %w"
)

var (
	// ErrMissingAPIKey is returned when a completion is requested without credentials.
	ErrMissingAPIKey = errors.New("language model API key is required")
	// ErrUnexpectedStatus wraps non-2xx responses.
	ErrUnexpectedStatus = errors.New("unexpected completion status")
	// ErrEmptyCompletion is returned when the response carries no choices or no text.
	ErrEmptyCompletion = errors.New("completion response contained no text")
)

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer produces a completion for a conversation.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

type httpClient interface {
	Do(request *http.Request) (*http.Response, error)
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type completionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// Client is an immutable chat-completions client configured through With* methods.
type Client struct {
	client      httpClient
	baseURL     string
	model       string
	apiKey      string
	userAgent   string
	temperature float64
	timeout     time.Duration
}

// NewClient returns a client for the default endpoint and model. A nil
// httpClient selects an http.Client with the default timeout.
func NewClient(client httpClient) Client {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return Client{
		client:      client,
		baseURL:     DefaultBaseURL,
		model:       DefaultModel,
		userAgent:   defaultUserAgent,
		temperature: defaultTemperature,
		timeout:     defaultTimeout,
	}
}

// WithBaseURL points the client at another OpenAI-compatible API root.
func (client Client) WithBaseURL(base string) Client {
	if strings.TrimSpace(base) == "" {
		return client
	}
	client.baseURL = strings.TrimRight(strings.TrimSpace(base), "/")
	return client
}

// WithModel selects the model name sent with every request.
func (client Client) WithModel(model string) Client {
	if strings.TrimSpace(model) == "" {
		return client
	}
	client.model = strings.TrimSpace(model)
	return client
}

// WithAPIKey sets the bearer credential.
func (client Client) WithAPIKey(apiKey string) Client {
	client.apiKey = strings.TrimSpace(apiKey)
	return client
}

// WithTemperature sets the sampling temperature.
func (client Client) WithTemperature(temperature float64) Client {
	if temperature < 0 {
		return client
	}
	client.temperature = temperature
	return client
}

func (client Client) WithTimeout(duration time.Duration) Client {
	if duration <= 0 {
		return client
	}
	client.timeout = duration
	if clientWithTimeout, ok := client.client.(*http.Client); ok {
		clientWithTimeout.Timeout = duration
	}
	return client
}

// Model returns the configured model name.
func (client Client) Model() string {
	return client.model
}

// Complete sends messages to <base>/chat/completions and returns the first choice's text.
func (client Client) Complete(ctx context.Context, messages []Message) (string, error) {
	if client.apiKey == "" {
		return "", ErrMissingAPIKey
	}
	request, buildError := client.buildRequest(ctx, messages)
	if buildError != nil {
		return "", buildError
	}

	response, sendError := client.client.Do(request)
	if sendError != nil {
		return "", fmt.Errorf(errorSendRequestFormat, sendError)
	}
	defer response.Body.Close()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(response.Body, responseExcerptLimit))
		return "", fmt.Errorf(errorUnexpectedStatusFormat, ErrUnexpectedStatus, response.StatusCode, request.URL.String(), strings.TrimSpace(string(body)))
	}

	var payload completionResponse
	if decodeError := json.NewDecoder(response.Body).Decode(&payload); decodeError != nil {
		return "", fmt.Errorf(errorDecodeResponseFormat, decodeError)
	}
	if len(payload.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	text := strings.TrimSpace(payload.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}

func (client Client) buildRequest(ctx context.Context, messages []Message) (*http.Request, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	body, encodeError := json.Marshal(completionRequest{
		Model:       client.model,
		Messages:    messages,
		Temperature: client.temperature,
	})
	if encodeError != nil {
		return nil, fmt.Errorf(errorEncodeRequestFormat, encodeError)
	}
	request, requestError := http.NewRequestWithContext(ctx, http.MethodPost, client.baseURL+chatCompletionsPath, bytes.NewReader(body))
	if requestError != nil {
		return nil, fmt.Errorf(errorBuildRequestFormat, requestError)
	}
	request.Header.Set(headerContentType, contentTypeJSON)
	request.Header.Set(headerAccept, contentTypeJSON)
	request.Header.Set("User-Agent", client.userAgent)
	request.Header.Set(headerAuthorization, authorizationBearerPrefix+client.apiKey)
	return request, nil
}
