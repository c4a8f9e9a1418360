package media

import (
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	lab "github.com/BrenchCC/LLM-Lab"
)

// DefaultImageMIME is used when the type cannot be determined.
const DefaultImageMIME = "image/jpeg"

// GuessImageMIME returns the MIME type of an image by file extension, then
// by content sniffing when the extension is unknown, else DefaultImageMIME.
func GuessImageMIME(path string, data []byte) string {
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); byExt != "" {
		if mt, _, err := mime.ParseMediaType(byExt); err == nil {
			return mt
		}
	}
	if len(data) > 0 {
		if sniffed := mimetype.Detect(data); strings.HasPrefix(sniffed.String(), "image/") {
			return sniffed.String()
		}
	}
	return DefaultImageMIME
}

// EncodeImageToDataURL reads an image file and returns it as a data URL.
// A missing file yields a *lab.MediaError wrapping fs.ErrNotExist.
func EncodeImageToDataURL(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &lab.MediaError{Op: "encode", Path: path, Err: err}
	}
	return fmt.Sprintf("data:%s;base64,%s", GuessImageMIME(path, data), base64.StdEncoding.EncodeToString(data)), nil
}

// ImageEncoder turns a local image path into a data URL.
type ImageEncoder func(path string) (string, error)

// ErrNotDataURL is returned by DecodeDataURL for anything but a base64
// data URL.
var ErrNotDataURL = errors.New("not a base64 data URL")

// DecodeDataURL splits a base64 data URL into its MIME type and payload.
// A missing MIME type yields DefaultImageMIME.
func DecodeDataURL(url string) (mimeType, data string, err error) {
	rest, ok := strings.CutPrefix(url, "data:")
	if !ok {
		return "", "", ErrNotDataURL
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", "", ErrNotDataURL
	}
	mimeType, ok = strings.CutSuffix(header, ";base64")
	if !ok {
		return "", "", ErrNotDataURL
	}
	if mimeType == "" {
		mimeType = DefaultImageMIME
	}
	return mimeType, payload, nil
}
