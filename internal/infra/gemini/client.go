package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"psych-academy/internal/domain"
)

const (
	DefaultModel   = "gemini-1.5-flash"
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultTimeout = 30 * time.Second

	DefaultSystemInstruction = `أنت مساعد أكاديمي خبير ومتخصص في علم النفس الدينامي.
- أجب باللغة العربية وبأسلوب أكاديمي واضح.
- عند سؤالك عن مصطلح، ابدأ بتعريفه ثم اشرح أهميته في سياق علم النفس الدينامي.
- إذا سألك الطالب عن رأي شخصي، وجهه دائماً نحو الآراء العلمية المذكورة في المنهج.
- كن مشجعاً للطلاب ومحفزاً لهم على التفكير النقدي.`
)

type Config struct {
	APIKey            string
	Model             string
	BaseURL           string
	Timeout           time.Duration
	SystemInstruction string
}

// Client calls the generateContent endpoint of the Generative Language API.
type Client struct {
	client *http.Client
	cfg    Config
}

func NewClient(cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.SystemInstruction == "" {
		cfg.SystemInstruction = DefaultSystemInstruction
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
	}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	SystemInstruction *content  `json:"systemInstruction,omitempty"`
	Contents          []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Generate sends history followed by prompt and returns the first candidate's text.
func (c *Client) Generate(ctx context.Context, prompt string, history []domain.ChatMessage) (string, error) {
	if c.cfg.APIKey == "" {
		return "", domain.ErrTutorNotConfigured
	}

	body, err := json.Marshal(c.buildRequest(prompt, history))
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		c.cfg.BaseURL, url.PathEscape(c.cfg.Model), url.QueryEscape(c.cfg.APIKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", domain.ErrTutorUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTutorUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", domain.ErrTutorUnavailable, err)
	}

	var decoded generateResponse
	if err := json.Unmarshal(raw, &decoded); err != nil && resp.StatusCode < 300 {
		return "", fmt.Errorf("%w: decode response: %v", domain.ErrTutorUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := resp.Status
		if decoded.Error != nil && decoded.Error.Message != "" {
			msg = decoded.Error.Message
		}
		return "", fmt.Errorf("%w: status %d: %s", domain.ErrTutorUnavailable, resp.StatusCode, msg)
	}

	if len(decoded.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", domain.ErrTutorUnavailable)
	}
	var sb strings.Builder
	for _, p := range decoded.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("%w: empty candidate", domain.ErrTutorUnavailable)
	}
	return sb.String(), nil
}

// buildRequest drops leading model turns; the API expects the user to speak first.
func (c *Client) buildRequest(prompt string, history []domain.ChatMessage) generateRequest {
	req := generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: c.cfg.SystemInstruction}}},
	}
	for _, msg := range history {
		if len(req.Contents) == 0 && msg.Role != domain.RoleUser {
			continue
		}
		req.Contents = append(req.Contents, content{Role: string(msg.Role), Parts: []part{{Text: msg.Text}}})
	}
	req.Contents = append(req.Contents, content{Role: string(domain.RoleUser), Parts: []part{{Text: prompt}}})
	return req
}
