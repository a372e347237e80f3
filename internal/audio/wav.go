package audio

import (
	"bytes"
	"encoding/binary"
	"strconv"
	"strings"
)

// pcmFormat describes raw little-endian PCM audio
type pcmFormat struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
}

// geminiPCM is what Gemini speech models return
var geminiPCM = pcmFormat{SampleRate: 24000, Channels: 1, BitsPerSample: 16}

// parsePCMMimeType reads the rate parameter of "audio/L16;codec=pcm;rate=24000"
func parsePCMMimeType(mimeType string, fallback pcmFormat) pcmFormat {
	format := fallback
	for _, part := range strings.Split(mimeType, ";") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok || !strings.EqualFold(key, "rate") {
			continue
		}
		if rate, err := strconv.Atoi(value); err == nil && rate > 0 {
			format.SampleRate = rate
		}
	}
	return format
}

// encodeWAV prepends a 44-byte RIFF header to PCM samples
func encodeWAV(pcm []byte, format pcmFormat) []byte {
	blockAlign := format.Channels * format.BitsPerSample / 8
	byteRate := format.SampleRate * blockAlign

	var buf bytes.Buffer
	buf.Grow(44 + len(pcm))

	// RIFF header
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")

	// fmt sub-chunk
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(format.Channels))
	binary.Write(&buf, binary.LittleEndian, uint32(format.SampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(format.BitsPerSample))

	// data sub-chunk
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)

	return buf.Bytes()
}
