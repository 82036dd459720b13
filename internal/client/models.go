package client

import "github.com/slinet/ehfetch/pkg/utils"

// Favorite slot sentinels. Remote slots are 0..9.
const (
	NotFavorited   = -2
	LocalFavorited = -1
)

// GalleryInfo is the minimal identity stub for a gallery, used for
// newer-version references and download bookkeeping.
type GalleryInfo struct {
	Gid    int64  `json:"gid"`
	Token  string `json:"token"`
	Title  string `json:"title"`
	Posted string `json:"posted,omitempty"`
}

// GalleryTagGroup is a tag namespace plus its ordered tags.
// A tag with a leading '_' is a weak tag.
type GalleryTagGroup struct {
	Namespace TagNamespace `json:"namespace"`
	Tags      []string     `json:"tags"`
}

// FlatTags renders the group as normalized "namespace:tag" strings,
// dropping the weak-tag marker.
func (g GalleryTagGroup) FlatTags() []string {
	out := make([]string, 0, len(g.Tags))
	for _, t := range g.Tags {
		if len(t) > 0 && t[0] == '_' {
			t = t[1:]
		}
		out = append(out, utils.NormalizeTag(string(g.Namespace)+":"+t))
	}
	return out
}

// GalleryComment is one comment on a gallery detail page
type GalleryComment struct {
	ID           int64  `json:"id"`
	Score        int    `json:"score"`
	Editable     bool   `json:"editable"`
	VoteUpAble   bool   `json:"vote_up_able"`
	VoteUpEd     bool   `json:"vote_up_ed"`
	VoteDownAble bool   `json:"vote_down_able"`
	VoteDownEd   bool   `json:"vote_down_ed"`
	Uploader     bool   `json:"uploader"`
	VoteState    string `json:"vote_state,omitempty"`
	Time         int64  `json:"time"` // epoch millis
	User         string `json:"user,omitempty"`
	Comment      string `json:"comment"` // raw HTML body
	LastEdited   int64  `json:"last_edited"`
}

// GalleryCommentList is the visible page of comments plus whether the
// server holds more
type GalleryCommentList struct {
	Comments []GalleryComment `json:"comments"`
	HasMore  bool             `json:"has_more"`
}

// GalleryPreview is one page thumbnail descriptor. Normal previews are
// crop regions of a shared sprite sheet; large previews are one image per
// page.
type GalleryPreview interface {
	Position() int
	ImageKey() string
}

// LargeGalleryPreview is a full per-page preview image
type LargeGalleryPreview struct {
	ImgKey string `json:"image_key"`
	Pos    int    `json:"position"`
}

func (p LargeGalleryPreview) Position() int    { return p.Pos }
func (p LargeGalleryPreview) ImageKey() string { return p.ImgKey }

// NormalGalleryPreview is a rectangular crop of a shared sheet image
type NormalGalleryPreview struct {
	SheetURL string `json:"sheet_url"`
	ImgKey   string `json:"image_key"`
	Pos      int    `json:"position"`
	Offset   int    `json:"offset"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

func (p NormalGalleryPreview) Position() int    { return p.Pos }
func (p NormalGalleryPreview) ImageKey() string { return p.ImgKey }

// GalleryDetail is the full parsed record of a gallery detail page
type GalleryDetail struct {
	Gid           int64    `json:"gid"`
	Token         string   `json:"token"`
	APIUid        int64    `json:"api_uid"`
	APIKey        string   `json:"api_key"`
	ThumbKey      string   `json:"thumb_key"`
	Title         string   `json:"title"`
	TitleJpn      string   `json:"title_jpn"`
	Category      Category `json:"category"`
	Uploader      string   `json:"uploader"`
	Disowned      bool     `json:"disowned"`
	Posted        string   `json:"posted"`
	Parent        string   `json:"parent"`
	Visible       string   `json:"visible"`
	Language      string   `json:"language"`
	Size          string   `json:"size"`
	Pages         int      `json:"pages"`
	FavoriteCount int      `json:"favorite_count"`
	FavoriteSlot  int      `json:"favorite_slot"`
	FavoriteName  string   `json:"favorite_name,omitempty"`
	Rating        float32  `json:"rating"`
	RatingCount   int      `json:"rating_count"`
	TorrentURL    string   `json:"torrent_url,omitempty"`
	TorrentCount  int      `json:"torrent_count"`
	ArchiveURL    string   `json:"archive_url,omitempty"`

	NewerVersions []GalleryInfo      `json:"newer_versions,omitempty"`
	TagGroups     []GalleryTagGroup  `json:"tag_groups"`
	Comments      GalleryCommentList `json:"comments"`

	PreviewPages    int              `json:"preview_pages"`
	Previews        []GalleryPreview `json:"previews"`
	PreviewPageURLs []string         `json:"preview_page_urls"`
}

// SuitableTitle prefers the native title and falls back to the translated one
func (d *GalleryDetail) SuitableTitle() string {
	if d.TitleJpn != "" {
		return d.TitleJpn
	}
	return d.Title
}

// FlatTags flattens all tag groups into normalized "namespace:tag" strings
func (d *GalleryDetail) FlatTags() []string {
	var out []string
	for _, g := range d.TagGroups {
		out = append(out, g.FlatTags()...)
	}
	return out
}
