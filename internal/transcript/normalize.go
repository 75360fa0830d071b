package transcript

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Normalize decodes a raw transcript payload into merge input. It accepts a
// flat segment list or a {"result":{"utterances":[...]}} document. The bool
// reports whether a transcript shape was recognised; null, empty and unknown
// shapes return false without error.
func Normalize(raw json.RawMessage) ([]RawSegment, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, false, nil
	}

	switch trimmed[0] {
	case '[':
		var segs []RawSegment
		if err := json.Unmarshal(trimmed, &segs); err != nil {
			return nil, false, fmt.Errorf("decoding transcript list: %w", err)
		}
		return segs, true, nil
	case '{':
		var doc struct {
			Result *struct {
				Utterances []RawSegment `json:"utterances"`
			} `json:"result"`
		}
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, false, fmt.Errorf("decoding transcript document: %w", err)
		}
		if doc.Result == nil || doc.Result.Utterances == nil {
			return nil, false, nil
		}
		return doc.Result.Utterances, true, nil
	default:
		return nil, false, nil
	}
}

type rawSegmentJSON struct {
	Speaker json.RawMessage `json:"speaker"`
	Start   *float64        `json:"start"`
	End     *float64        `json:"end"`
	Text    string          `json:"text"`
	Words   []Word          `json:"words"`
}

// UnmarshalJSON accepts speaker labels as strings or as numeric channel ids.
func (s *RawSegment) UnmarshalJSON(data []byte) error {
	var v rawSegmentJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	speaker, err := decodeSpeaker(v.Speaker)
	if err != nil {
		return err
	}

	*s = RawSegment{
		Speaker: speaker,
		End:     v.End,
		Text:    v.Text,
		Words:   v.Words,
	}
	if v.Start != nil {
		s.Start = *v.Start
	}
	return nil
}

func decodeSpeaker(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("decoding speaker: %w", err)
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("decoding speaker: %w", err)
	}
	if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		return fmt.Sprintf("%s %d", DefaultSpeaker, i), nil
	}
	return DefaultSpeaker + " " + n.String(), nil
}
