package audio

import (
	"bytes"
	"encoding/binary"
	"time"

	"github.com/dmitrijs2005/echoverse/internal/models"
)

const silenceRate = 8000

// SilentWAV returns d of 8 kHz 8-bit mono silence as a playable WAV clip.
func SilentWAV(d time.Duration) models.AudioBlob {
	n := int(d.Seconds() * silenceRate)
	if n < 1 {
		n = 1
	}
	if limit := MaxSize - 44; n > limit {
		n = limit
	}

	var buf bytes.Buffer
	buf.Grow(44 + n)
	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(36+n))
	buf.WriteString("WAVEfmt ")
	_ = binary.Write(&buf, binary.LittleEndian, struct {
		ChunkSize     uint32
		Format        uint16
		Channels      uint16
		SampleRate    uint32
		ByteRate      uint32
		BlockAlign    uint16
		BitsPerSample uint16
	}{16, 1, 1, silenceRate, silenceRate, 1, 8})
	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(n))
	// unsigned 8-bit PCM is silent at mid-scale
	buf.Write(bytes.Repeat([]byte{0x80}, n))

	return models.AudioBlob{Data: buf.Bytes(), ContentType: "audio/wav", Size: int64(buf.Len())}
}
