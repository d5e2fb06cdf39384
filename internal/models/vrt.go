package models

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// VrtChange is a single DOM change the AI annotated.
type VrtChange struct {
	Selector     string `json:"selector" yaml:"selector"`
	AISuggestion string `json:"ai_suggestion" yaml:"ai_suggestion"`
}

// LlamaOutput wraps the AI summary attached to a VRT run.
type LlamaOutput struct {
	Changes []VrtChange `json:"changes" yaml:"changes"`
}

// VrtResult is the payload of run-vrt. Images are base64 PNG.
type VrtResult struct {
	Label       string      `json:"label,omitempty" yaml:"label,omitempty"`
	Message     string      `json:"message" yaml:"message"`
	HTMLReport  string      `json:"html_report" yaml:"html_report"`
	HasDiff     bool        `json:"has_diff" yaml:"has_diff"`
	BaseImage   string      `json:"base_image" yaml:"-"`
	TestImage   string      `json:"test_image" yaml:"-"`
	DiffImage   string      `json:"diff_image" yaml:"-"`
	LlamaOutput LlamaOutput `json:"llama_output" yaml:"llama_output"`
}

// IsEmpty reports whether nothing came back worth displaying.
func (r VrtResult) IsEmpty() bool {
	return r.Message == "" && r.HTMLReport == "" && r.BaseImage == "" &&
		r.TestImage == "" && r.DiffImage == "" && len(r.LlamaOutput.Changes) == 0
}

// Suggestions returns only the changes that carry an AI suggestion.
func (r VrtResult) Suggestions() []VrtChange {
	var out []VrtChange
	for _, c := range r.LlamaOutput.Changes {
		if c.AISuggestion != "" {
			out = append(out, c)
		}
	}
	return out
}

// SuggestionLines splits a suggestion into its non-empty lines.
func (c VrtChange) SuggestionLines() []string {
	var lines []string
	for _, l := range strings.Split(c.AISuggestion, "\n") {
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// Snapshot is one decoded image of a VRT run.
type Snapshot struct {
	Name string
	Data []byte
}

// DecodeImages decodes the base, test and diff snapshots in that order.
// Missing images are skipped.
func (r VrtResult) DecodeImages() ([]Snapshot, error) {
	raw := []struct {
		name string
		b64  string
	}{
		{"base", r.BaseImage},
		{"test", r.TestImage},
		{"diff", r.DiffImage},
	}

	var out []Snapshot
	for _, img := range raw {
		if img.b64 == "" {
			continue
		}
		data, err := base64.StdEncoding.DecodeString(img.b64)
		if err != nil {
			return nil, fmt.Errorf("decode %s image: %w", img.name, err)
		}
		out = append(out, Snapshot{Name: img.name, Data: data})
	}
	return out, nil
}

// PreviewServer is a running deployment started by run-react. The backend
// answers with a tuple: [url, container_name, host_port].
type PreviewServer struct {
	URL       string
	Container string
	Port      int
}

func (p *PreviewServer) UnmarshalJSON(data []byte) error {
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		// Some deployments answer with a bare url string.
		var url string
		if err2 := json.Unmarshal(data, &url); err2 != nil {
			return err
		}
		p.URL = url
		return nil
	}
	if len(tuple) > 0 {
		_ = json.Unmarshal(tuple[0], &p.URL)
	}
	if len(tuple) > 1 {
		_ = json.Unmarshal(tuple[1], &p.Container)
	}
	if len(tuple) > 2 {
		_ = json.Unmarshal(tuple[2], &p.Port)
	}
	return nil
}

var sizeUnits = [...]string{"KB", "MB", "GB"}

// FormatSize renders a byte count in KB and up, never in bytes:
// 512 -> "0.5 KB", 3<<20 -> "3 MB".
func FormatSize(bytes int) string {
	if bytes <= 0 {
		return "0 KB"
	}
	const k = 1024.0
	i := int(math.Floor(math.Log(float64(bytes))/math.Log(k))) - 1
	i = max(0, min(i, len(sizeUnits)-1))
	value := float64(bytes) / math.Pow(k, float64(i+1))
	value = math.Round(value*100) / 100
	return strconv.FormatFloat(value, 'f', -1, 64) + " " + sizeUnits[i]
}
