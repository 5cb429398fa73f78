package types

import "encoding/base64"

// CaptureSource identifies where an image came from
type CaptureSource string

const (
	SourceCamera  CaptureSource = "camera"
	SourceGallery CaptureSource = "gallery"
)

// CapturedImage is an in-memory image produced by the capture adapter.
// The binary payload lives only in memory; LocalURI points at the
// platform-provided temporary file and is never re-read by the client.
type CapturedImage struct {
	LocalURI string
	Data     []byte
	MIMEType string
	Source   CaptureSource
}

// DataURI returns the base64-embedded payload with its MIME prefix,
// the single-object wire encoding the analysis service expects.
func (c *CapturedImage) DataURI() string {
	mime := c.MIMEType
	if mime == "" {
		mime = "image/jpeg"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(c.Data)
}

// Empty reports whether the image carries no payload
func (c *CapturedImage) Empty() bool {
	return c == nil || len(c.Data) == 0
}
