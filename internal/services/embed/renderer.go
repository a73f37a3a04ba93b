// Package embed renders social-preview pages for shared media and decides
// when a request should get one instead of the raw bytes.
package embed

import (
	"context"
	"strings"

	"github.com/a-h/templ"

	"github.com/mcoot/linkplay/internal/model"
)

// Video previews declare a fixed portrait player size
const (
	videoWidth  = "720"
	videoHeight = "1280"
)

// Overrides are per-request values, usually from the query string
type Overrides struct {
	Title string
	Desc  string
	Color string
}

// Meta is the resolved text and colour for one preview page
type Meta struct {
	Title       string
	Description string
	Color       string
}

// ResolveMeta applies override -> operator default -> fallback for each field
func ResolveMeta(fileName string, overrides Overrides, defaults model.EmbedPrefs) Meta {
	o := Sanitize(model.EmbedPrefs{Title: overrides.Title, Desc: overrides.Desc, Color: overrides.Color})
	d := Sanitize(defaults)

	return Meta{
		Title:       firstNonEmpty(o.Title, d.Title, truncate(fileName, maxTitleLen), "Media"),
		Description: firstNonEmpty(o.Desc, d.Desc, DefaultDescription),
		Color:       firstNonEmpty(o.Color, d.Color, DefaultColor),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Page is everything a preview document needs
type Page struct {
	Meta     Meta
	FileURL  string
	MimeType string
	Class    MediaClass
}

// NewPage builds the page for fileURL, which should already be absolute
func NewPage(fileURL, fileName string, overrides Overrides, defaults model.EmbedPrefs) Page {
	return Page{
		Meta:     ResolveMeta(fileName, overrides, defaults),
		FileURL:  fileURL,
		MimeType: MimeType(fileName),
		Class:    Classify(fileName),
	}
}

// Render returns the preview document for fileURL. It never fails:
// bad overrides degrade to defaults and templ escapes every value.
func Render(fileURL, fileName string, overrides Overrides, defaults model.EmbedPrefs) string {
	var sb strings.Builder
	_ = Document(NewPage(fileURL, fileName, overrides, defaults)).Render(context.Background(), &sb)
	return sb.String()
}

// mediaURL drops javascript: and similar schemes
func mediaURL(u string) string {
	return string(templ.URL(u))
}
