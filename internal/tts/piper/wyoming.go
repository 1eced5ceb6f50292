package piper

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// event is a Wyoming protocol event. On the wire each event is
//
//	<json_length> <payload_length>\n
//	<json>\n
//	<payload>
type event struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data,omitempty"`
}

func writeEvent(w io.Writer, evt event, payload []byte) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshalling event: %w", err)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%d %d\n", len(body), len(payload))
	buf.Write(body)
	buf.WriteByte('\n')
	buf.Write(payload)

	_, err = w.Write(buf.Bytes())
	return err
}

func readEvent(r *bufio.Reader) (*event, []byte, error) {
	header, err := r.ReadString('\n')
	if err != nil {
		return nil, nil, fmt.Errorf("reading header: %w", err)
	}

	var jsonLen, payloadLen int
	if _, err := fmt.Sscanf(strings.TrimSpace(header), "%d %d", &jsonLen, &payloadLen); err != nil {
		return nil, nil, fmt.Errorf("invalid wyoming header %q: %w", strings.TrimSpace(header), err)
	}
	if jsonLen < 0 || payloadLen < 0 {
		return nil, nil, fmt.Errorf("invalid wyoming header %q", strings.TrimSpace(header))
	}

	body := make([]byte, jsonLen+1) // trailing newline
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, nil, fmt.Errorf("reading json: %w", err)
	}

	var evt event
	if err := json.Unmarshal(body[:jsonLen], &evt); err != nil {
		return nil, nil, fmt.Errorf("unmarshalling event: %w", err)
	}

	var payload []byte
	if payloadLen > 0 {
		payload = make([]byte, payloadLen)
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, nil, fmt.Errorf("reading payload: %w", err)
		}
	}
	return &evt, payload, nil
}

// pcmFormat describes the raw PCM stream announced by audio-start.
type pcmFormat struct {
	rate     int
	channels int
	width    int // bytes per sample
}

func (f *pcmFormat) update(data map[string]any) {
	if v, ok := data["rate"].(float64); ok {
		f.rate = int(v)
	}
	if v, ok := data["channels"].(float64); ok {
		f.channels = int(v)
	}
	if v, ok := data["width"].(float64); ok {
		f.width = int(v)
	}
}

// wav wraps pcm in a 44-byte RIFF/WAVE header.
func (f pcmFormat) wav(pcm []byte) []byte {
	buf := bytes.NewBuffer(make([]byte, 0, 44+len(pcm)))
	le := binary.LittleEndian

	buf.WriteString("RIFF")
	_ = binary.Write(buf, le, uint32(36+len(pcm)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	_ = binary.Write(buf, le, uint32(16))
	_ = binary.Write(buf, le, uint16(1)) // PCM
	_ = binary.Write(buf, le, uint16(f.channels))
	_ = binary.Write(buf, le, uint32(f.rate))
	_ = binary.Write(buf, le, uint32(f.rate*f.channels*f.width))
	_ = binary.Write(buf, le, uint16(f.channels*f.width))
	_ = binary.Write(buf, le, uint16(f.width*8))

	buf.WriteString("data")
	_ = binary.Write(buf, le, uint32(len(pcm)))
	buf.Write(pcm)
	return buf.Bytes()
}
