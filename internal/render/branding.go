package render

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
)

// LogoFile is the conventional logo file name.
const LogoFile = "kisbye_logo.png"

// Branding is the optional logo placed in document headers and on the
// workbook cover. An empty Logo means no branding.
type Branding struct {
	Logo   []byte
	Format string
	Width  int
	Height int
	Source string
}

// HasLogo reports whether a usable logo was found.
func (b Branding) HasLogo() bool { return len(b.Logo) > 0 }

// Extension returns the file extension matching the logo format.
func (b Branding) Extension() string {
	switch b.Format {
	case "jpeg":
		return ".jpg"
	case "gif":
		return ".gif"
	default:
		return ".png"
	}
}

// ContentType returns the MIME type of the logo.
func (b Branding) ContentType() string {
	switch b.Format {
	case "jpeg":
		return "image/jpeg"
	case "gif":
		return "image/gif"
	default:
		return "image/png"
	}
}

// LogoCandidates lists where a logo is looked for: the configured path
// first, then static/kisbye_logo.png and kisbye_logo.png under dir.
func LogoCandidates(configured, dir string) []string {
	var out []string
	if configured != "" {
		out = append(out, configured)
	}
	return append(out,
		filepath.Join(dir, "static", LogoFile),
		filepath.Join(dir, LogoFile),
	)
}

// LoadBranding returns the first candidate that is a readable PNG, JPEG or
// GIF image. Missing or unreadable files are skipped; when none qualifies
// the zero Branding is returned.
func LoadBranding(candidates ...string) Branding {
	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil || len(data) == 0 {
			continue
		}
		b, ok := BrandingFromBytes(data)
		if !ok {
			continue
		}
		b.Source = path
		return b
	}
	return Branding{}
}

// BrandingFromBytes validates an in-memory logo.
func BrandingFromBytes(data []byte) (Branding, bool) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width == 0 || cfg.Height == 0 {
		return Branding{}, false
	}
	return Branding{Logo: data, Format: format, Width: cfg.Width, Height: cfg.Height}, true
}

// scaleTo returns the factors that stretch the logo to w by h pixels.
func (b Branding) scaleTo(w, h float64) (float64, float64) {
	if b.Width <= 0 || b.Height <= 0 {
		return 1, 1
	}
	return w / float64(b.Width), h / float64(b.Height)
}
