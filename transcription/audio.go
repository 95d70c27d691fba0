package transcription

import (
	"bytes"
	"net/http"
)

// AudioFormat sniffs the container of an audio payload and returns a file
// extension and MIME type for it. Unknown payloads are reported as WAV,
// which every supported backend accepts.
func AudioFormat(data []byte) (ext, mime string) {
	switch {
	case len(data) >= 12 && bytes.Equal(data[4:8], []byte("ftyp")):
		return ".m4a", "audio/mp4"
	case bytes.HasPrefix(data, []byte("fLaC")):
		return ".flac", "audio/flac"
	}
	switch http.DetectContentType(data) {
	case "audio/mpeg":
		return ".mp3", "audio/mpeg"
	case "application/ogg":
		return ".ogg", "audio/ogg"
	case "video/webm":
		return ".webm", "audio/webm"
	default:
		return ".wav", "audio/wav"
	}
}

// AudioFileName returns a file name for data with a matching extension.
func AudioFileName(data []byte) string {
	ext, _ := AudioFormat(data)
	return "audio" + ext
}
