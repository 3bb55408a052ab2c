// Package audio admits recordings into the journal. It enforces the size
// limit and the audio content type for uploaded files and captured clips.
package audio

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/echoverse/internal/common"
	"github.com/dmitrijs2005/echoverse/internal/models"
)

const (
	MaxSize = 1 * common.MiB
	// MaxDuration is advisory: recorders stop at it, uploads are not decoded.
	MaxDuration = 60 * time.Second
)

// extensions missing from many system mime tables
var knownExtensions = map[string]string{
	".wav":  "audio/wav",
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
	".aac":  "audio/aac",
	".ogg":  "audio/ogg",
	".oga":  "audio/ogg",
	".opus": "audio/ogg",
	".webm": "audio/webm",
	".flac": "audio/flac",
}

// sniffed types that are audio containers despite their prefix
var sniffAliases = map[string]string{
	"application/ogg": "audio/ogg",
	"video/webm":      "audio/webm",
}

// fileExtensions is the preferred extension when saving a recording.
var fileExtensions = map[string]string{
	"audio/wav":  ".wav",
	"audio/wave": ".wav",
	"audio/mpeg": ".mp3",
	"audio/mp4":  ".m4a",
	"audio/aac":  ".aac",
	"audio/ogg":  ".ogg",
	"audio/webm": ".webm",
	"audio/flac": ".flac",
}

// Extension returns a file extension for contentType, ".audio" when unknown.
func Extension(contentType string) string {
	if ext, ok := fileExtensions[contentType]; ok {
		return ext
	}
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".audio"
}

func isAudio(contentType string) bool {
	return strings.HasPrefix(contentType, "audio/")
}

// DetectContentType names the media type of an upload, trusting the file
// extension first and sniffing the payload otherwise.
func DetectContentType(name string, data []byte) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ct, ok := knownExtensions[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		if mt, _, err := mime.ParseMediaType(ct); err == nil {
			return mt
		}
		return ct
	}

	ct := http.DetectContentType(data)
	if mt, _, err := mime.ParseMediaType(ct); err == nil {
		ct = mt
	}
	if alias, ok := sniffAliases[ct]; ok {
		return alias
	}
	return ct
}

// ReadUploadedFile loads an audio file from disk.
func ReadUploadedFile(path string) (models.AudioBlob, error) {
	info, err := os.Stat(path)
	if err != nil {
		return models.AudioBlob{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return models.AudioBlob{}, fmt.Errorf("%w: %s is a directory", common.ErrorWrongType, path)
	}
	if info.Size() > MaxSize {
		return models.AudioBlob{}, fmt.Errorf("%w: %s is %d bytes, limit is %d", common.ErrorTooLarge, path, info.Size(), MaxSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return models.AudioBlob{}, fmt.Errorf("read %s: %w", path, err)
	}

	blob := models.AudioBlob{
		Data:        data,
		ContentType: DetectContentType(path, data),
		Size:        int64(len(data)),
	}
	if err := Validate(blob); err != nil {
		return models.AudioBlob{}, err
	}
	return blob, nil
}

// Validate applies the intake rules to a blob from any source.
func Validate(blob models.AudioBlob) error {
	size := int64(len(blob.Data))
	if size == 0 {
		return fmt.Errorf("%w: audio is empty", common.ErrorValidation)
	}
	if size > MaxSize {
		return fmt.Errorf("%w: audio is %d bytes, limit is %d", common.ErrorTooLarge, size, MaxSize)
	}
	if !isAudio(blob.ContentType) {
		return fmt.Errorf("%w: %q is not audio", common.ErrorWrongType, blob.ContentType)
	}
	return nil
}

// Capturer records a clip from an input device.
type Capturer interface {
	Capture(ctx context.Context) (models.AudioBlob, error)
}

// NoMicrophone is the Capturer for builds without an input device.
type NoMicrophone struct{}

func (NoMicrophone) Capture(context.Context) (models.AudioBlob, error) {
	return models.AudioBlob{}, fmt.Errorf("%w: no microphone available, use upload instead", common.ErrorPermission)
}
