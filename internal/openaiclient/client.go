package openaiclient

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ericogr/arcane-clash/internal/constants"
	"github.com/ericogr/arcane-clash/internal/logging"
)

// ErrMissingAPIKey is returned when no API key was configured.
var ErrMissingAPIKey = fmt.Errorf("%s not set", constants.EnvOpenAIAPIKey)

const (
	defaultImagePrompt = "Create a single square fantasy trading card illustration of {{title}}, a {{type}} card. " +
		"Painterly style, dramatic lighting, centered subject, no text, no borders, no logos."
	defaultDescriptionPrompt = "Write a flavor text for a fantasy {{type}} card named {{title}}. " +
		"At most 15 words. Return only the text."
)

// Client talks to the OpenAI Images and Chat Completions endpoints.
type Client struct {
	APIKey  string
	BaseURL string
	HTTP    *http.Client

	// Prompt templates. {{title}} and {{type}} are substituted.
	ImagePrompt       string
	DescriptionPrompt string
}

// New builds a client from the environment. An empty prompt keeps the
// built-in default.
func New(imagePrompt, descriptionPrompt string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = constants.DefaultOpenAITimeout
	}
	return &Client{
		APIKey:            os.Getenv(constants.EnvOpenAIAPIKey),
		BaseURL:           constants.OpenAIBaseURL,
		HTTP:              &http.Client{Timeout: timeout},
		ImagePrompt:       strings.TrimSpace(imagePrompt),
		DescriptionPrompt: strings.TrimSpace(descriptionPrompt),
	}
}

// Enabled reports whether an API key is available.
func (c *Client) Enabled() bool { return c != nil && c.APIKey != "" }

func renderPrompt(tmpl, fallback, title, cardType string) string {
	if tmpl == "" {
		tmpl = fallback
	}
	r := strings.NewReplacer("{{title}}", title, "{{type}}", strings.ToLower(cardType))
	return r.Replace(tmpl)
}

func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	if !c.Enabled() {
		return ErrMissingAPIKey
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(c.BaseURL, "/")+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set(constants.HeaderAuthorization, constants.BearerPrefix+c.APIKey)
	req.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", constants.ErrRequestToOpenAIFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("openai %s: %d %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: %w", constants.ErrFailedDecodeOpenAIResponse, err)
	}
	return nil
}

// GenerateCardImage asks the Images API for one illustration of the card
// and returns the raw PNG bytes.
func (c *Client) GenerateCardImage(ctx context.Context, title, cardType string) ([]byte, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("card title is required")
	}
	prompt := renderPrompt(c.ImagePrompt, defaultImagePrompt, title, cardType)

	payload := map[string]interface{}{
		"prompt":  prompt,
		"n":       1,
		"size":    constants.OpenAIImageSizeDefault,
		"model":   constants.OpenAIImageModel,
		"quality": constants.OpenAIImageQualityDefault,
	}
	var out struct {
		Data []struct {
			B64JSON string `json:"b64_json"`
			URL     string `json:"url"`
		} `json:"data"`
	}
	if err := c.post(ctx, constants.OpenAIImagesGenerationsPath, payload, &out); err != nil {
		return nil, err
	}
	if len(out.Data) == 0 {
		return nil, errors.New(constants.ErrOpenAIReturnedNoImageData)
	}
	if out.Data[0].B64JSON == "" {
		return nil, errors.New(constants.ErrOpenAIReturnedUnsupportedImage)
	}
	img, err := base64.StdEncoding.DecodeString(out.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", constants.ErrFailedDecodeImageFromBase64, err)
	}
	return img, nil
}

// GenerateCardDescription asks the chat model for a short flavor text.
func (c *Client) GenerateCardDescription(ctx context.Context, title, cardType string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", errors.New("card title is required")
	}
	prompt := renderPrompt(c.DescriptionPrompt, defaultDescriptionPrompt, title, cardType)
	logging.Debug("card description prompt", logging.Fields{constants.LogFieldCardTitle: title, "prompt": prompt})

	payload := map[string]interface{}{
		"model": constants.OpenAIChatModel,
		"messages": []map[string]string{
			{"role": "system", "content": "You write flavor text for fantasy trading cards."},
			{"role": "user", "content": prompt},
		},
		"max_completion_tokens": 3100,
		"service_tier":          "default",
	}
	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := c.post(ctx, constants.OpenAIChatCompletionsPath, payload, &out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", errors.New("empty response from OpenAI")
	}
	text := CleanDescription(out.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("openai returned empty description")
	}
	return text, nil
}

// CleanDescription keeps the first line, strips quotes and caps the text at
// DescriptionMaxWords words.
func CleanDescription(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[:idx]
	}
	s = strings.Trim(s, "\"' ")
	words := strings.Fields(s)
	if len(words) > constants.DescriptionMaxWords {
		words = words[:constants.DescriptionMaxWords]
	}
	return strings.Join(words, " ")
}
