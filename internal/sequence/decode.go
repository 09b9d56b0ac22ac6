package sequence

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"yogaseq/internal/plate"
	"yogaseq/internal/textutil"
)

// Format names a file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFromName picks a format from a file name or URL. Unknown
// extensions report ok=false.
func FormatFromName(name string) (Format, bool) {
	if idx := strings.IndexAny(name, "?#"); idx >= 0 {
		name = name[:idx]
	}
	switch strings.ToLower(path.Ext(name)) {
	case ".json":
		return FormatJSON, true
	case ".toml":
		return FormatTOML, true
	case ".yaml", ".yml":
		return FormatYAML, true
	default:
		return "", false
	}
}

type rawPose struct {
	Plates   any    `json:"plates" toml:"plates" yaml:"plates"`
	Plate    any    `json:"plate" toml:"plate" yaml:"plate"`
	Duration any    `json:"duration" toml:"duration" yaml:"duration"`
	Label    string `json:"label" toml:"label" yaml:"label"`
	Name     string `json:"name" toml:"name" yaml:"name"`
	Note     string `json:"note" toml:"note" yaml:"note"`
	Asana    any    `json:"asana" toml:"asana" yaml:"asana"`
}

type rawSequence struct {
	ID    string    `json:"id" toml:"id" yaml:"id"`
	Title string    `json:"title" toml:"title" yaml:"title"`
	Poses []rawPose `json:"poses" toml:"poses" yaml:"poses"`
}

// rawDocument is either a single sequence or a wrapper with a list.
type rawDocument struct {
	ID        string        `json:"id" toml:"id" yaml:"id"`
	Title     string        `json:"title" toml:"title" yaml:"title"`
	Poses     []rawPose     `json:"poses" toml:"poses" yaml:"poses"`
	Sequences []rawSequence `json:"sequences" toml:"sequences" yaml:"sequences"`
}

func (d rawDocument) sequences() []rawSequence {
	if len(d.Sequences) > 0 {
		return d.Sequences
	}
	if len(d.Poses) == 0 && d.Title == "" && d.ID == "" {
		return nil
	}
	return []rawSequence{{ID: d.ID, Title: d.Title, Poses: d.Poses}}
}

// Parse decodes a document holding one sequence, a list of sequences, or
// an object with a "sequences" list. fallbackID names a sequence that has
// neither id nor title.
func Parse(data []byte, format Format, fallbackID string) ([]Sequence, error) {
	data = bytes.TrimPrefix(data, []byte("\xEF\xBB\xBF"))
	raws, err := decode(data, format)
	if err != nil {
		return nil, err
	}
	out := make([]Sequence, 0, len(raws))
	for i, raw := range raws {
		fallback := fallbackID
		if len(raws) > 1 {
			fallback = fmt.Sprintf("%s_%d", fallbackID, i+1)
		}
		seq, err := build(raw, fallback)
		if err != nil {
			return nil, fmt.Errorf("sequence %d: %w", i+1, err)
		}
		out = append(out, seq)
	}
	return out, nil
}

func decode(data []byte, format Format) ([]rawSequence, error) {
	switch format {
	case FormatJSON:
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) > 0 && trimmed[0] == '[' {
			var list []rawSequence
			if err := json.Unmarshal(trimmed, &list); err != nil {
				return nil, fmt.Errorf("decode json sequences: %w", err)
			}
			return list, nil
		}
		var doc rawDocument
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("decode json sequence: %w", err)
		}
		return doc.sequences(), nil
	case FormatTOML:
		var doc rawDocument
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode toml sequence: %w", err)
		}
		return doc.sequences(), nil
	case FormatYAML:
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return nil, fmt.Errorf("decode yaml sequence: %w", err)
		}
		if len(node.Content) > 0 && node.Content[0].Kind == yaml.SequenceNode {
			var list []rawSequence
			if err := node.Decode(&list); err != nil {
				return nil, fmt.Errorf("decode yaml sequences: %w", err)
			}
			return list, nil
		}
		var doc rawDocument
		if err := node.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode yaml sequence: %w", err)
		}
		return doc.sequences(), nil
	default:
		return nil, fmt.Errorf("unsupported sequence format %q", format)
	}
}

func build(raw rawSequence, fallbackID string) (Sequence, error) {
	seq := Sequence{
		Title: strings.TrimSpace(raw.Title),
		Poses: make([]Pose, 0, len(raw.Poses)),
	}
	switch {
	case strings.TrimSpace(raw.ID) != "":
		seq.ID = textutil.SanitizeToken(raw.ID)
	case seq.Title != "":
		seq.ID = textutil.SanitizeToken(seq.Title)
	default:
		seq.ID = textutil.SanitizeToken(fallbackID)
	}
	if seq.Title == "" {
		seq.Title = seq.ID
	}
	for i, rp := range raw.Poses {
		pose, err := buildPose(rp)
		if err != nil {
			return Sequence{}, fmt.Errorf("pose %d: %w", i+1, err)
		}
		seq.Poses = append(seq.Poses, pose)
	}
	return seq, nil
}

func buildPose(raw rawPose) (Pose, error) {
	value := raw.Plates
	if value == nil {
		value = raw.Plate
	}
	ref, err := plate.RefFromValue(value)
	if err != nil {
		return Pose{}, err
	}
	duration, err := parseDuration(raw.Duration)
	if err != nil {
		return Pose{}, err
	}
	label := strings.TrimSpace(raw.Label)
	if label == "" {
		label = strings.TrimSpace(raw.Name)
	}
	pose := Pose{
		Plates:   ref,
		Duration: duration,
		Label:    label,
		Note:     strings.TrimSpace(raw.Note),
	}
	if raw.Asana != nil {
		asana, err := plate.RefFromValue(raw.Asana)
		if err != nil {
			return Pose{}, fmt.Errorf("asana: %w", err)
		}
		pose.AsanaNo = asana.First()
	}
	return pose, nil
}

// parseDuration accepts whole seconds as a number or string, or "m:ss".
// Negative values clamp to zero.
func parseDuration(value any) (int, error) {
	var seconds int
	switch v := value.(type) {
	case nil:
		return 0, nil
	case int:
		seconds = v
	case int64:
		seconds = int(v)
	case uint64:
		seconds = int(v)
	case float64:
		seconds = int(v)
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return 0, nil
		}
		if mins, secs, ok := strings.Cut(text, ":"); ok {
			m, errM := strconv.Atoi(strings.TrimSpace(mins))
			s, errS := strconv.Atoi(strings.TrimSpace(secs))
			if errM != nil || errS != nil {
				return 0, fmt.Errorf("invalid duration %q", v)
			}
			seconds = m*60 + s
			break
		}
		n, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", v)
		}
		seconds = int(n)
	default:
		return 0, fmt.Errorf("unsupported duration %T", value)
	}
	if seconds < 0 {
		seconds = 0
	}
	return seconds, nil
}
