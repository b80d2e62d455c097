package goquery

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/howto"
)

// minImageSize is the smallest declared width/height of a content image.
const minImageSize = 50

// decorativeImageHints mark icons and chrome rather than guide photos.
var decorativeImageHints = []string{"icon", "logo", "avatar", "button"}

// ExtractImageRefs returns one reference per content image (img, or source
// inside picture) in document order. Each reference uses the best-ranked
// source attribute present on the element (see howto.ImageAttributes).
// Decorative images are skipped.
func ExtractImageRefs(doc *Document) []howto.ImageReference {
	var refs []howto.ImageReference
	doc.Find("img, picture source").Each(func(_ int, img *goquery.Selection) {
		if isDecorativeImage(img) {
			return
		}
		attrs := make(map[string]string, len(img.Nodes[0].Attr))
		for _, a := range img.Nodes[0].Attr {
			attrs[a.Key] = a.Val
		}
		if ref, ok := howto.SelectImageReference(attrs); ok {
			refs = append(refs, ref)
		}
	})
	return refs
}

// isDecorativeImage reports whether an image is an icon, logo, avatar or
// button, or declares a size below minImageSize.
func isDecorativeImage(img *goquery.Selection) bool {
	class := strings.ToLower(img.AttrOr("class", ""))
	alt := strings.ToLower(img.AttrOr("alt", ""))
	for _, hint := range decorativeImageHints {
		if strings.Contains(class, hint) || strings.Contains(alt, hint) {
			return true
		}
	}

	width, werr := strconv.Atoi(firstAttr(img, "width", "data-width"))
	height, herr := strconv.Atoi(firstAttr(img, "height", "data-height"))
	if werr == nil && herr == nil {
		return width < minImageSize || height < minImageSize
	}
	return false
}

func firstAttr(s *goquery.Selection, names ...string) string {
	for _, name := range names {
		if v := strings.TrimSpace(s.AttrOr(name, "")); v != "" {
			return v
		}
	}
	return ""
}

// ResolveImages resolves references against baseURL, dropping rejected
// ones. The rejected references are returned separately for diagnostics.
func ResolveImages(refs []howto.ImageReference, baseURL string) (urls []string, rejected []howto.ImageReference) {
	for _, ref := range refs {
		u, err := howto.ResolveImage(ref, baseURL)
		if err != nil {
			rejected = append(rejected, ref)
			continue
		}
		urls = append(urls, u)
	}
	return urls, rejected
}
