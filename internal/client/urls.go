package client

import (
	"fmt"
	"regexp"
	"strconv"
)

var (
	galleryURLPattern = regexp.MustCompile(`(?:/g/)?(\d+)/([0-9a-f]{10})`)
	urlPrefixPattern  = regexp.MustCompile(`^https?://[^/]+/`)
)

// GalleryURL builds the detail page URL of a gallery
func GalleryURL(host string, gid int64, token string) string {
	return fmt.Sprintf("https://%s/g/%d/%s/", host, gid, token)
}

// ParseGalleryURL extracts gid and token from a gallery detail URL or a
// bare "gid/token" pair. ok is false when the text does not contain one.
func ParseGalleryURL(s string) (gid int64, token string, ok bool) {
	m := galleryURLPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, "", false
	}
	gid, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || gid <= 0 {
		return 0, "", false
	}
	return gid, m[2], true
}

// ThumbKey derives the image cache key from a thumbnail or preview URL:
// the path that survives mirror host changes, with scheme and host
// stripped.
func ThumbKey(url string) string {
	return urlPrefixPattern.ReplaceAllString(url, "")
}

// NormalPreviewKey derives the cache key of a preview sprite sheet. The
// crop region is carried separately on the preview descriptor, so tiles of
// one sheet share the sheet's key.
func NormalPreviewKey(sheetURL string) string {
	return ThumbKey(sheetURL)
}
