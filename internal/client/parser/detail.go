// Package parser extracts structured gallery records from server-rendered
// markup. The patterns here are an informal contract with one specific
// server's rendering: they match literal CSS classes, element ids and
// English label text, and any markup change upstream is a breaking change.
package parser

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/slinet/ehfetch/internal/client"
	"github.com/slinet/ehfetch/pkg/utils"
	"go.uber.org/zap"
)

const (
	offensiveMarker = "<p>(And if you choose to ignore this warning, you lose all rights to complain about it in the future.)</p>"
	piningMarker    = "<p>This gallery is pining for the fjords.</p>"

	// dd MMMM yyyy, HH:mm as rendered in comment headers
	commentDateLayout = "02 January 2006, 15:04"
)

var (
	patternError        = regexp.MustCompile(`<div class="d">\n<p>([^<]+)</p>`)
	patternDetail       = regexp.MustCompile(`(?s)var gid = (\d+);.+?var token = "([a-f0-9]+)";.+?var apiuid = ([\-\d]+);.+?var apikey = "([a-f0-9]+)";`)
	patternTorrent      = regexp.MustCompile(`<a[^<>]*onclick="return popUp\('([^']+)'[^)]+\)">Torrent Download \((\d+)\)</a>`)
	patternArchive      = regexp.MustCompile(`<a[^<>]*onclick="return popUp\('([^']+)'[^)]+\)">Archive Download</a>`)
	patternCover        = regexp.MustCompile(`width:(\d+)px; height:(\d+)px.+?url\((.+?)\)`)
	patternPages        = regexp.MustCompile(`<tr><td[^<>]*>Length:</td><td[^<>]*>([\d,]+) pages</td></tr>`)
	patternPreviewPages = regexp.MustCompile(`<td[^>]+><a[^>]+>([\d,]+)</a></td><td[^>]+>(?:<a[^>]+>)?&gt;(?:</a>)?</td>`)
	patternNewerDate    = regexp.MustCompile(`, added (.+?)<br />`)
	patternFavoriteSlot = regexp.MustCompile(`/fav.png\); background-position:0px -(\d+)px`)
	patternPreview      = regexp.MustCompile(`<a href="([^"]+)">(?:<div>)?<div title="Page (\d+)(?:[^"]+"){2}\D+(\d+)\D+(\d+)[^(]+\(([^)]+)\)(?: -(\d+))?`)
)

// FavoriteChecker reports whether a gallery is in the local favorites store.
type FavoriteChecker interface {
	ContainLocalFavorites(ctx context.Context, gid int64) (bool, error)
}

// CommentFilter decides whether a comment should be hidden.
type CommentFilter interface {
	FilterCommenter(user string) bool
	FilterComment(commentHTML string) bool
}

// Env carries the parser's external collaborators. Favorites and Filter may
// be nil, in which case no comment is filtered and no local favorite is
// recorded.
type Env struct {
	Favorites        FavoriteChecker
	Filter           CommentFilter
	CommentThreshold int
	Logger           *zap.Logger
}

func (e *Env) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

// ParseGalleryDetail converts the raw HTML of a gallery detail page into a
// GalleryDetail. Optional presentation sections (tags, comments, newer
// versions) degrade to empty defaults; load-bearing sections (identity,
// metadata block, preview count, preview list) abort the whole parse.
func ParseGalleryDetail(ctx context.Context, body string, env Env) (*client.GalleryDetail, error) {
	if strings.Contains(body, offensiveMarker) {
		return nil, ErrOffensive
	}
	if strings.Contains(body, piningMarker) {
		return nil, ErrGone
	}
	if m := patternError.FindStringSubmatch(body); m != nil {
		return nil, &ServerError{Message: m[1]}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, newParseError("document", err)
	}

	gd := &client.GalleryDetail{
		Rating:       -1.0,
		FavoriteSlot: client.NotFavorited,
	}

	if err := parseIdentity(gd, body); err != nil {
		return nil, err
	}

	if m := patternTorrent.FindStringSubmatch(body); m != nil {
		gd.TorrentURL = unescapeEntities(strings.TrimSpace(m[1]))
		gd.TorrentCount = utils.ParseIntDef(m[2], 0)
	}
	if m := patternArchive.FindStringSubmatch(body); m != nil {
		gd.ArchiveURL = unescapeEntities(strings.TrimSpace(m[1]))
	}

	if err := parseMetadata(ctx, gd, doc, body, env); err != nil {
		return nil, newParseError("gallery detail", err)
	}

	gd.NewerVersions = parseNewerVersions(doc, body)
	gd.TagGroups = parseTagGroups(doc, env.logger())
	gd.Comments = parseComments(doc, env)

	gd.PreviewPages, err = ParsePreviewPages(body)
	if err != nil {
		return nil, err
	}

	gd.Previews, gd.PreviewPageURLs, err = ParsePreviewList(body)
	if err != nil {
		return nil, err
	}

	return gd, nil
}

// parseIdentity extracts the gid/token/api-credential block. This is the
// anchor of the whole record; failure is fatal.
func parseIdentity(gd *client.GalleryDetail, body string) error {
	m := patternDetail.FindStringSubmatch(body)
	if m == nil {
		return newParseError("gallery identity", nil)
	}
	gid, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || gid <= 0 {
		return newParseError("gallery identity", err)
	}
	gd.Gid = gid
	gd.Token = m[2]
	gd.APIUid = utils.ParseInt64Def(m[3], -1)
	gd.APIKey = m[4]
	return nil
}

// parseMetadata walks the "gm" metadata block. The block is evaluated as a
// unit: any failure inside invalidates the whole detail.
func parseMetadata(ctx context.Context, gd *client.GalleryDetail, doc *goquery.Document, body string, env Env) error {
	gm := doc.Find(".gm").First()
	if gm.Length() == 0 {
		return newParseError("gm block", nil)
	}

	// Thumb key from the inline background style
	if cover := gm.Find("#gd1").Children().First(); cover.Length() > 0 {
		style := strings.TrimSpace(cover.AttrOr("style", ""))
		m := patternCover.FindStringSubmatch(style)
		if m == nil {
			return newParseError("cover style", nil)
		}
		gd.ThumbKey = client.ThumbKey(m[3])
	}

	gd.Title = strings.TrimSpace(gm.Find("#gn").Text())
	gd.TitleJpn = strings.TrimSpace(gm.Find("#gj").Text())

	// Category
	gd.Category = client.CategoryUnknown
	if gdc := gm.Find("#gdc"); gdc.Length() > 0 {
		ce := gdc.Find(".cn").First()
		if ce.Length() == 0 {
			ce = gdc.Find(".cs").First()
		}
		if ce.Length() > 0 {
			gd.Category = client.ParseCategory(ce.Text())
		}
	}

	// Uploader
	if gdn := gm.Find("#gdn"); gdn.Length() > 0 {
		gd.Disowned = strings.Contains(gdn.AttrOr("style", ""), "opacity:0.5")
		gd.Uploader = strings.TrimSpace(gdn.Text())
	}

	// Key/value metadata table
	gdd := gm.Find("#gdd")
	if gdd.Length() == 0 {
		return newParseError("gdd table", nil)
	}
	gd.Pages = 0
	gd.FavoriteCount = 0
	rows := gdd.Children().First().Children().First().Children()
	if rows.Length() == 0 {
		return newParseError("gdd rows", nil)
	}
	rows.Each(func(_ int, row *goquery.Selection) {
		parseMetadataRow(gd, row)
	})

	// Rating count
	gd.RatingCount = 0
	if rc := gm.Find("#rating_count"); rc.Length() > 0 {
		gd.RatingCount = utils.ParseIntDef(rc.Text(), 0)
	}

	// Rating
	if rl := gm.Find("#rating_label"); rl.Length() > 0 {
		ratingStr := strings.TrimSpace(rl.Text())
		if ratingStr == "Not Yet Rated" {
			gd.Rating = -1.0
		} else if idx := strings.IndexByte(ratingStr, ' '); idx == -1 {
			gd.Rating = 0
		} else {
			gd.Rating = utils.ParseFloat32Def(ratingStr[idx+1:], 0)
		}
	} else {
		gd.Rating = -1.0
	}

	// Favorite state
	if gdf := gm.Find("#gdf"); gdf.Length() > 0 {
		favoriteName := strings.TrimSpace(gdf.Text())
		if favoriteName != "Add to Favorites" {
			gd.FavoriteName = favoriteName
			if m := patternFavoriteSlot.FindStringSubmatch(body); m != nil {
				offset := utils.ParseIntDef(m[1], 2)
				gd.FavoriteSlot = (offset - 2) / 19
			}
		}
	}
	if gd.FavoriteSlot == client.NotFavorited && env.Favorites != nil {
		local, err := env.Favorites.ContainLocalFavorites(ctx, gd.Gid)
		if err != nil {
			env.logger().Warn("local favorites lookup failed", zap.Int64("gid", gd.Gid), zap.Error(err))
		} else if local {
			gd.FavoriteSlot = client.LocalFavorited
		}
	}

	return nil
}

// parseMetadataRow assigns one row of the gdd table. The first cell is the
// label, prefix-matched; the second cell's own text is the value.
func parseMetadataRow(gd *client.GalleryDetail, row *goquery.Selection) {
	cells := row.Children()
	if cells.Length() < 2 {
		return
	}
	key := strings.TrimSpace(cells.Eq(0).Text())
	valueCell := cells.Eq(1)
	value := ownText(valueCell)

	switch {
	case strings.HasPrefix(key, "Posted"):
		gd.Posted = value
	case strings.HasPrefix(key, "Parent"):
		if a := valueCell.Children().First(); a.Length() > 0 {
			gd.Parent = a.AttrOr("href", "")
		}
	case strings.HasPrefix(key, "Visible"):
		gd.Visible = value
	case strings.HasPrefix(key, "Language"):
		gd.Language = value
	case strings.HasPrefix(key, "File Size"):
		gd.Size = value
	case strings.HasPrefix(key, "Length"):
		gd.Pages = utils.LeadingInt(value, 1)
	case strings.HasPrefix(key, "Favorited"):
		switch value {
		case "Never":
			gd.FavoriteCount = 0
		case "Once":
			gd.FavoriteCount = 1
		default:
			gd.FavoriteCount = utils.LeadingInt(value, 0)
		}
	}
}

// parseNewerVersions pairs each linked newer version with its posted date.
// The date strings live outside the element, matched positionally across
// the raw body.
func parseNewerVersions(doc *goquery.Document, body string) []client.GalleryInfo {
	gnd := doc.Find("#gnd")
	if gnd.Length() == 0 {
		return nil
	}
	var dates []string
	for _, m := range patternNewerDate.FindAllStringSubmatch(body, -1) {
		dates = append(dates, m[1])
	}
	var versions []client.GalleryInfo
	gnd.Find("a").Each(func(i int, a *goquery.Selection) {
		gid, token, ok := client.ParseGalleryURL(a.AttrOr("href", ""))
		if !ok {
			return
		}
		posted := ""
		if i < len(dates) {
			posted = dates[i]
		}
		versions = append(versions, client.GalleryInfo{
			Gid:    gid,
			Token:  token,
			Title:  strings.TrimSpace(a.Text()),
			Posted: posted,
		})
	})
	return versions
}

// parseTagGroups walks the tag list container. A group whose namespace is
// unknown, or which ends up with zero tags, is dropped; any container-level
// failure degrades to an empty list.
func parseTagGroups(doc *goquery.Document, logger *zap.Logger) []client.GalleryTagGroup {
	taglist := doc.Find("#taglist")
	if taglist.Length() == 0 {
		logger.Debug("no tag list container")
		return nil
	}
	rows := taglist.Children().First().Children().First().Children()
	var groups []client.GalleryTagGroup
	rows.Each(func(_ int, row *goquery.Selection) {
		if group, ok := parseSingleTagGroup(row, logger); ok {
			groups = append(groups, group)
		}
	})
	return groups
}

func parseSingleTagGroup(row *goquery.Selection, logger *zap.Logger) (client.GalleryTagGroup, bool) {
	cells := row.Children()
	if cells.Length() < 2 {
		return client.GalleryTagGroup{}, false
	}
	label := strings.TrimSpace(cells.Eq(0).Text())
	label = strings.TrimSuffix(label, ":")
	ns, ok := client.ParseNamespace(label)
	if !ok {
		logger.Debug("unknown tag namespace, dropping group", zap.String("namespace", label))
		return client.GalleryTagGroup{}, false
	}
	var tags []string
	cells.Eq(1).Children().Each(func(_ int, e *goquery.Selection) {
		text := e.Text()
		// A parody tag is sometimes followed by '|' and an english
		// translation; keep only the original
		if idx := strings.IndexByte(text, '|'); idx >= 0 {
			text = strings.TrimSpace(text[:idx])
		}
		if text == "" {
			return
		}
		if e.AttrOr("class", "") == "gtw" {
			text = "_" + text // weak tag
		}
		tags = append(tags, text)
	})
	if len(tags) == 0 {
		logger.Debug("empty tag group, dropping", zap.String("namespace", label))
		return client.GalleryTagGroup{}, false
	}
	return client.GalleryTagGroup{Namespace: ns, Tags: tags}, true
}

// ParsePreviewPages extracts the preview page count. A detail page always
// renders the pager, so absence is fatal.
func ParsePreviewPages(body string) (int, error) {
	m := patternPreviewPages.FindStringSubmatch(body)
	if m == nil {
		return 0, newParseError("preview page count", nil)
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return 0, newParseError("preview page count", err)
	}
	return n, nil
}

// ParsePages extracts the gallery page count from the metadata table row.
func ParsePages(body string) (int, error) {
	m := patternPages.FindStringSubmatch(body)
	if m == nil {
		return 0, newParseError("page count", nil)
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return 0, newParseError("page count", err)
	}
	return n, nil
}

// ParsePreviewList extracts the preview descriptors and their page URLs.
// An entry with an explicit pixel offset is a crop of a sprite sheet; one
// without is a full per-page image. A gallery always has at least one
// preview, so an empty result is fatal.
func ParsePreviewList(body string) ([]client.GalleryPreview, []string, error) {
	var (
		previews []client.GalleryPreview
		pageURLs []string
	)
	for _, m := range patternPreview.FindAllStringSubmatch(body, -1) {
		pageURL := m[1]
		position := utils.ParseIntDef(m[2], 1) - 1
		url := m[5]
		offset := m[6]
		if offset == "" {
			previews = append(previews, client.LargeGalleryPreview{
				ImgKey: client.ThumbKey(url),
				Pos:    position,
			})
		} else {
			previews = append(previews, client.NormalGalleryPreview{
				SheetURL: url,
				ImgKey:   client.NormalPreviewKey(url),
				Pos:      position,
				Offset:   utils.ParseIntDef(offset, 0),
				Width:    utils.ParseIntDef(m[3], 0),
				Height:   utils.ParseIntDef(m[4], 0),
			})
		}
		pageURLs = append(pageURLs, pageURL)
	}
	if len(previews) == 0 {
		return nil, nil, newParseError("preview list", nil)
	}
	return previews, pageURLs, nil
}

// unescapeEntities resolves the named entities the server uses inside
// attribute values (torrent and archive popup URLs).
var entityReplacer = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&apos;", "'",
)

func unescapeEntities(s string) string {
	return entityReplacer.Replace(s)
}
