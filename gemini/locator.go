// Package gemini locates tools in guide images with Google Gemini.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fwojciec/howto"
	"google.golang.org/genai"
)

const model = "gemini-2.5-flash"

// maxImageBytes caps downloaded images at the inline request size limit.
const maxImageBytes = 20 << 20

// Ensure Locator implements howto.ToolLocator at compile time.
var _ howto.ToolLocator = (*Locator)(nil)

// Generator generates model content. *genai.Models satisfies it.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Locator implements howto.ToolLocator using Gemini structured output.
type Locator struct {
	models Generator
	client *http.Client
}

// Option configures a Locator.
type Option func(*Locator)

// WithHTTPClient sets the client used to download images.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Locator) {
		l.client = c
	}
}

// NewLocator creates a new Locator. Pass the Models field of a
// *genai.Client.
func NewLocator(models Generator, opts ...Option) *Locator {
	l := &Locator{models: models, client: http.DefaultClient}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LocateTools downloads the image at imageURL and asks Gemini for the
// bounding boxes of the listed tools that are visible in it. Detections
// with invalid boxes or names outside tools are dropped.
func (l *Locator) LocateTools(ctx context.Context, imageURL string, tools []string) ([]howto.ToolLocation, error) {
	if len(tools) == 0 {
		return []howto.ToolLocation{}, nil
	}

	data, mimeType, err := l.download(ctx, imageURL)
	if err != nil {
		return nil, err
	}
	if l.models == nil {
		return nil, howto.Errorf(howto.EINVALID, "gemini client required")
	}

	result, err := l.models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Role: "user",
			Parts: []*genai.Part{
				{Text: BuildPrompt(tools)},
				genai.NewPartFromBytes(data, mimeType),
			},
		}},
		BuildConfig(),
	)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, howto.Errorf(howto.EINTERNAL, "gemini returned nil result")
	}

	return ParseDetections(result.Text(), tools)
}

// download fetches the image and returns its bytes and MIME type.
func (l *Locator) download(ctx context.Context, imageURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", howto.Errorf(howto.EINVALID, "invalid image URL %q", imageURL)
	}
	req.Header.Set("User-Agent", howto.RandomUserAgent(howto.UserAgents))

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, "", howto.Errorf(howto.ENOTFOUND, "image not found: %s", imageURL)
	case resp.StatusCode != http.StatusOK:
		return nil, "", fmt.Errorf("HTTP %d for %s", resp.StatusCode, imageURL)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, "", err
	}
	if len(data) > maxImageBytes {
		return nil, "", howto.Errorf(howto.EINVALID, "image larger than %d bytes", maxImageBytes)
	}

	mimeType := resp.Header.Get("Content-Type")
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	if !strings.HasPrefix(mimeType, "image/") {
		mimeType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, "", howto.Errorf(howto.EINVALID, "not an image: %s", imageURL)
	}

	return data, mimeType, nil
}

// BuildConfig returns the GenerateContentConfig requesting JSON that
// matches the detection schema.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0)
	four := int64(4)
	return &genai.GenerateContentConfig{
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"tools": {
					Type:        genai.TypeArray,
					Description: "Detected tools. Empty if none of the listed tools are visible.",
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"tool_name": {
								Type:        genai.TypeString,
								Description: "Name of the detected tool",
							},
							"bbox_2d": {
								Type:        genai.TypeArray,
								Description: "Bounding box [ymin, xmin, ymax, xmax] in 0-1000 range",
								Items:       &genai.Schema{Type: genai.TypeInteger},
								MinItems:    &four,
								MaxItems:    &four,
							},
						},
						Required: []string{"tool_name", "bbox_2d"},
					},
				},
			},
			Required: []string{"tools"},
		},
	}
}

// BuildPrompt builds the detection prompt for the given tools.
func BuildPrompt(tools []string) string {
	list := strings.Join(tools, ", ")

	var sb strings.Builder
	fmt.Fprintf(&sb, "Analyze this image and locate the following tools: %s\n\n", list)
	sb.WriteString("For each tool that is VISIBLE in the image, provide:\n")
	fmt.Fprintf(&sb, "- The exact tool name (must match one from the list: %s)\n", list)
	sb.WriteString("- A bounding box in format [ymin, xmin, ymax, xmax] with normalized coordinates in 0-1000 range\n\n")
	sb.WriteString("Rules:\n")
	sb.WriteString("1. Only return tools that are clearly visible in the image.\n")
	sb.WriteString("2. Use normalized coordinates where 0,0 is the top-left corner and 1000,1000 the bottom-right corner.\n")
	sb.WriteString("3. ymin must be less than ymax and xmin less than xmax.\n")
	sb.WriteString("4. If multiple instances of the same tool exist, return all of them.\n")
	sb.WriteString("5. Return an empty list if no tools from the list are visible.\n")
	return sb.String()
}

type detection struct {
	ToolName string `json:"tool_name"`
	BBox     []int  `json:"bbox_2d"`
}

// ParseDetections decodes a structured response. Entries whose box is not
// four in-range, ordered coordinates or whose name is not in tools are
// dropped. The result is never nil.
func ParseDetections(text string, tools []string) ([]howto.ToolLocation, error) {
	var resp struct {
		Tools []detection `json:"tools"`
	}
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		return nil, howto.Errorf(howto.EINTERNAL, "decode gemini response: %v", err)
	}

	wanted := make(map[string]string, len(tools))
	for _, t := range tools {
		wanted[strings.ToLower(strings.TrimSpace(t))] = t
	}

	locs := make([]howto.ToolLocation, 0, len(resp.Tools))
	for _, d := range resp.Tools {
		name, ok := wanted[strings.ToLower(strings.TrimSpace(d.ToolName))]
		if !ok || len(d.BBox) != 4 {
			continue
		}
		loc := howto.ToolLocation{ToolName: name, BBox: [4]int(d.BBox)}
		if loc.Validate() != nil {
			continue
		}
		locs = append(locs, loc)
	}
	return locs, nil
}
