package entities

import (
	"fmt"
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultMaxAudioBytes is the upload limit applied when none is configured
const DefaultMaxAudioBytes int64 = 10 * 1024 * 1024

// AudioEncoding is the encoding name understood by the speech service
type AudioEncoding string

const (
	AudioEncodingMP3      AudioEncoding = "MP3"
	AudioEncodingLinear16 AudioEncoding = "LINEAR16"
	AudioEncodingFLAC     AudioEncoding = "FLAC"
	AudioEncodingOggOpus  AudioEncoding = "OGG_OPUS"
	AudioEncodingWebMOpus AudioEncoding = "WEBM_OPUS"
)

var encodingsByMIME = map[string]AudioEncoding{
	"audio/mpeg":     AudioEncodingMP3,
	"audio/mp3":      AudioEncodingMP3,
	"audio/mpeg3":    AudioEncodingMP3,
	"audio/x-mp3":    AudioEncodingMP3,
	"audio/wav":      AudioEncodingLinear16,
	"audio/wave":     AudioEncodingLinear16,
	"audio/x-wav":    AudioEncodingLinear16,
	"audio/vnd.wave": AudioEncodingLinear16,
	"audio/flac":     AudioEncodingFLAC,
	"audio/x-flac":   AudioEncodingFLAC,
	"audio/ogg":      AudioEncodingOggOpus,
	"audio/opus":     AudioEncodingOggOpus,
	"audio/webm":     AudioEncodingWebMOpus,
	"video/webm":     AudioEncodingWebMOpus,
}

// AudioInput is one uploaded clip. It lives for a single request and is never stored.
type AudioInput struct {
	Data     []byte
	MIMEType string
	Filename string
}

// NewAudioInput builds an AudioInput, rejecting empty or oversized data
func NewAudioInput(data []byte, mimeType, filename string, maxBytes int64) (AudioInput, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxAudioBytes
	}
	if len(data) == 0 {
		return AudioInput{}, ErrAudioEmpty
	}
	if int64(len(data)) > maxBytes {
		return AudioInput{}, fmt.Errorf("%w: %d bytes (limit %d)", ErrAudioTooLarge, len(data), maxBytes)
	}
	return AudioInput{Data: data, MIMEType: mimeType, Filename: filename}, nil
}

// Size returns the clip length in bytes
func (a AudioInput) Size() int {
	return len(a.Data)
}

// EffectiveMIMEType returns the declared type, or the sniffed one when the
// declaration is missing or generic
func (a AudioInput) EffectiveMIMEType() string {
	declared := normalizeMIME(a.MIMEType)
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	return normalizeMIME(mimetype.Detect(a.Data).String())
}

// Encoding maps the clip's MIME type to a speech service encoding
func (a AudioInput) Encoding() (AudioEncoding, error) {
	mt := a.EffectiveMIMEType()
	if enc, ok := encodingsByMIME[mt]; ok {
		return enc, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedEncoding, mt)
}

func normalizeMIME(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(value)
	if err != nil {
		return strings.ToLower(value)
	}
	return strings.ToLower(mediaType)
}
