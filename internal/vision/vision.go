// Package vision wraps the Gemini vision model used as the hybrid
// extraction path. The client is an optional collaborator: callers must
// treat construction or extraction failures as a downgrade to local
// OCR, never as a fatal error.
package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"strings"

	"cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/option"
)

const systemPrompt = "You are a document text extractor for scanned Indian " +
	"scholarship documents (certificates, marks memos, application forms, " +
	"bank passbooks, Aadhaar cards). Extract every piece of visible text " +
	"faithfully, preserving field labels and numbers exactly as printed."

const userPrompt = `Extract all text from this document image.

Return a JSON object with exactly these keys:
- "text": the full extracted text, one line per printed line
- "name": the student/holder name if present, else ""
- "roll_no": the roll or hall ticket number if present, else ""
- "date": the most prominent date if present, else ""

Do not include any text outside the JSON object.`

// Config locates the Vertex AI project serving the model. An empty
// CredentialsFile falls back to application default credentials.
type Config struct {
	ProjectID       string `mapstructure:"project_id" yaml:"project_id" json:"project_id"`
	Region          string `mapstructure:"region" yaml:"region" json:"region"`
	Model           string `mapstructure:"model" yaml:"model" json:"model"`
	CredentialsFile string `mapstructure:"credentials_file" yaml:"credentials_file" json:"credentials_file"`
}

// DefaultConfig returns the default vision settings.
func DefaultConfig() Config {
	return Config{Region: "asia-south1", Model: "gemini-1.5-flash"}
}

// Client calls the Gemini vision model for document text extraction.
type Client struct {
	model      *genai.GenerativeModel
	baseClient *genai.Client
}

// New builds a vision client against Vertex AI.
func New(ctx context.Context, config Config) (*Client, error) {
	if config.ProjectID == "" || config.Region == "" {
		return nil, fmt.Errorf("vision: project_id and region are required")
	}
	if config.Model == "" {
		config.Model = DefaultConfig().Model
	}

	var opts []option.ClientOption
	if config.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(config.CredentialsFile))
	}

	baseClient, err := genai.NewClient(ctx, config.ProjectID, config.Region, opts...)
	if err != nil {
		return nil, fmt.Errorf("vision: genai.NewClient: %w", err)
	}

	model := baseClient.GenerativeModel(config.Model)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}
	model.GenerationConfig = genai.GenerationConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](0.0),
	}

	return &Client{model: model, baseClient: baseClient}, nil
}

// Close releases the underlying API client.
func (c *Client) Close() error {
	if c.baseClient != nil {
		return c.baseClient.Close()
	}
	return nil
}

// Result carries the extracted text plus any structured fields the
// model identified.
type Result struct {
	Text       string
	Confidence float64
	Fields     map[string]string
}

type modelPayload struct {
	Text   string `json:"text"`
	Name   string `json:"name"`
	RollNo string `json:"roll_no"`
	Date   string `json:"date"`
}

// Extract sends the image to the model and parses its JSON reply.
func (c *Client) Extract(ctx context.Context, img image.Image) (Result, error) {
	if img == nil {
		return Result{}, fmt.Errorf("vision: nil image")
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Result{}, fmt.Errorf("vision: encode image: %w", err)
	}

	imagePart := genai.Blob{MIMEType: "image/png", Data: buf.Bytes()}
	resp, err := c.model.GenerateContent(ctx, imagePart, genai.Text(userPrompt))
	if err != nil {
		return Result{}, fmt.Errorf("vision: generate content: %w", err)
	}

	raw := extractText(resp)
	if raw == "" {
		return Result{}, fmt.Errorf("vision: empty model response")
	}

	payload, err := parsePayload(raw)
	if err != nil {
		// A non-JSON reply still carries text worth keeping.
		slog.Warn("vision response was not valid JSON, using raw text", "error", err)
		return Result{Text: raw, Confidence: 0.9}, nil
	}

	fields := map[string]string{}
	if payload.Name != "" {
		fields["name"] = payload.Name
	}
	if payload.RollNo != "" {
		fields["roll_no"] = payload.RollNo
	}
	if payload.Date != "" {
		fields["date"] = payload.Date
	}

	return Result{Text: payload.Text, Confidence: 0.9, Fields: fields}, nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 ||
		resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}

	out := strings.TrimSpace(sb.String())
	out = strings.TrimPrefix(out, "```json")
	out = strings.TrimPrefix(out, "```")
	out = strings.TrimSuffix(out, "```")
	return strings.TrimSpace(out)
}

func parsePayload(raw string) (modelPayload, error) {
	var payload modelPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return modelPayload{}, err
	}
	if strings.TrimSpace(payload.Text) == "" {
		return modelPayload{}, fmt.Errorf("payload has no text")
	}
	return payload, nil
}
