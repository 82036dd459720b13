package parser

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/slinet/ehfetch/internal/client"
)

// detailPage is a trimmed-down but structurally faithful gallery detail
// page. Variant tests rewrite individual fragments with strings.Replace.
const detailPage = `<!DOCTYPE html>
<html>
<head><title>Example Gallery</title></head>
<body>
<script type="text/javascript">
var gid = 1234567;
var token = "abcdef1234";
var apiuid = 999;
var apikey = "0123456789abcdef";
</script>
<div class="gm">
<div id="gd1"><div style="width:250px; height:354px; background:transparent url(https://ehgt.org/ab/cd/abcd-250.jpg) no-repeat"></div></div>
<div id="gd2"><h1 id="gn">Example Gallery</h1><h1 id="gj">Example Gallery JPN</h1></div>
<div id="gmid">
<div id="gd3">
<div id="gdc"><div class="cs ct2">Manga</div></div>
<div id="gdn" style="opacity:0.5"><a href="https://e-hentai.org/uploader/someuploader">someuploader</a></div>
<div id="gdd"><table>
<tr><td class="gdt1">Posted:</td><td class="gdt2">2023-08-20 11:30</td></tr>
<tr><td class="gdt1">Parent:</td><td class="gdt2"><a href="https://e-hentai.org/g/1234000/badc0ffee0/">1234000</a></td></tr>
<tr><td class="gdt1">Visible:</td><td class="gdt2">Yes</td></tr>
<tr><td class="gdt1">Language:</td><td class="gdt2">Japanese &nbsp;</td></tr>
<tr><td class="gdt1">File Size:</td><td class="gdt2">25.01 MiB</td></tr>
<tr><td class="gdt1">Length:</td><td class="gdt2">20 pages</td></tr>
<tr><td class="gdt1">Favorited:</td><td class="gdt2">12 times</td></tr>
</table></div>
</div>
<div id="gd4">
<table><tr><td id="grt2"><span id="rating_count">38</span></td></tr>
<tr><td id="rating_label" class="r">Average: 4.46</td></tr></table>
<div id="gdf"><div class="i" style="background:transparent url(https://ehgt.org/g/fav.png); background-position:0px -40px; width:15px"></div><a id="favoritelink" href="#">Reading List</a></div>
</div>
</div>
</div>
<div id="gnd">
<a href="https://e-hentai.org/g/2000000/aaaaaaaaaa/">Example Gallery v2</a>, added 2023-09-01 10:00<br />
<a href="https://e-hentai.org/g/2000001/bbbbbbbbbb/">Example Gallery v3</a>, added 2023-09-05 12:00<br />
</div>
<p><a href="#" onclick="return popUp('https://e-hentai.org/gallerytorrents.php?gid=1234567&amp;t=abcdef1234',610,590)">Torrent Download (2)</a></p>
<p><a href="#" onclick="return popUp('https://e-hentai.org/archiver.php?gid=1234567&amp;token=abcdef1234',450,410)">Archive Download</a></p>
<div id="taglist"><table>
<tr><td class="tc">language:</td><td><div class="gt"><a href="#">japanese</a></div><div class="gt"><a href="#">translated</a></div></td></tr>
<tr><td class="tc">parody:</td><td><div class="gt"><a href="#">some series | english name</a></div></td></tr>
<tr><td class="tc">female:</td><td><div class="gtw"><a href="#">glasses</a></div></td></tr>
<tr><td class="tc">bogus:</td><td><div class="gt"><a href="#">nonsense</a></div></td></tr>
</table></div>
<div id="cdiv" class="gm">
<a name="c1000001"></a>
<div class="c1"><div class="c2">
<div class="c3">Posted on 20 August 2023, 11:30 by: &nbsp; <a href="https://e-hentai.org/uploader/commenter1">commenter1</a></div>
<div class="c4 nosel"><a href="#" onclick="vote_up()">Vote+</a> &nbsp; <a href="#" onclick="vote_down()">Vote-</a></div>
<div class="c7" style="display:none"></div>
<div class="c5 nosel" style="display:none"><span class="c5s">+12</span></div>
</div>
<div class="c6" id="comment_1000001">Nice work <span style="text-decoration:underline;">really</span>!</div>
<div class="c8">Last edited on <strong>21 August 2023, 09:15</strong>.</div>
</div>
<a name="c1000002"></a>
<div class="c1"><div class="c2">
<div class="c3">Posted on 19 August 2023, 08:00 by: &nbsp; <a href="https://e-hentai.org/uploader/someuploader">someuploader</a></div>
<div class="c4 nosel">Uploader Comment</div>
<div class="c5 nosel" style="display:none"><span class="c5s">-50</span></div>
</div>
<div class="c6" id="comment_1000002">First!</div>
</div>
<a name="c1000003"></a>
<div class="c1"><div class="c2">
<div class="c3">Posted on 18 August 2023, 22:45</div>
<div class="c4 nosel"><a href="#" onclick="vote_up()">Vote+</a> &nbsp; <a href="#" onclick="vote_down()" style="color:blue">Vote-</a></div>
<div class="c5 nosel" style="display:none"><span class="c5s">-80</span></div>
</div>
<div class="c6" id="comment_1000003">spam spam spam</div>
</div>
<div id="chd"><p>There are more comments below the viewing threshold.</p><p><a href="#" onclick="return false">click to show all</a> comments.</p></div>
</div>
<div id="gdt">
<a href="https://e-hentai.org/s/1a2b3c4d5e/1234567-1"><div title="Page 1: p001.jpg" style="width:100px;height:142px;background:transparent url(https://ehgt.org/m/001.jpg) -0px 0 no-repeat"></div></a>
<a href="https://e-hentai.org/s/2b3c4d5e6f/1234567-2"><div title="Page 2: p002.jpg" style="width:100px;height:142px;background:transparent url(https://ehgt.org/m/001.jpg) -100px 0 no-repeat"></div></a>
</div>
<table class="ptt"><tr><td class="ptds"><a href="https://e-hentai.org/g/1234567/abcdef1234/">1</a></td><td onclick="sp(1)"><a href="https://e-hentai.org/g/1234567/abcdef1234/?p=1">2</a></td><td onclick="sp(1)"><a href="https://e-hentai.org/g/1234567/abcdef1234/?p=1">&gt;</a></td></tr></table>
</body>
</html>`

type fakeFavorites struct {
	has bool
	err error
}

func (f fakeFavorites) ContainLocalFavorites(_ context.Context, _ int64) (bool, error) {
	return f.has, f.err
}

type fakeFilter struct {
	users  []string
	bodies []string
}

func (f fakeFilter) FilterCommenter(user string) bool {
	for _, u := range f.users {
		if u == user {
			return true
		}
	}
	return false
}

func (f fakeFilter) FilterComment(commentHTML string) bool {
	for _, b := range f.bodies {
		if strings.Contains(commentHTML, b) {
			return true
		}
	}
	return false
}

func testEnv() Env {
	return Env{CommentThreshold: -101}
}

func TestParseGalleryDetail(t *testing.T) {
	gd, err := ParseGalleryDetail(context.Background(), detailPage, testEnv())
	if err != nil {
		t.Fatalf("ParseGalleryDetail() error = %v", err)
	}

	if gd.Gid != 1234567 || gd.Token != "abcdef1234" {
		t.Errorf("identity = %d/%s, want 1234567/abcdef1234", gd.Gid, gd.Token)
	}
	if gd.APIUid != 999 || gd.APIKey != "0123456789abcdef" {
		t.Errorf("api credentials = %d/%s", gd.APIUid, gd.APIKey)
	}
	if gd.ThumbKey != "ab/cd/abcd-250.jpg" {
		t.Errorf("ThumbKey = %q", gd.ThumbKey)
	}
	if gd.Title != "Example Gallery" || gd.TitleJpn != "Example Gallery JPN" {
		t.Errorf("titles = %q / %q", gd.Title, gd.TitleJpn)
	}
	if gd.Category != client.CategoryManga {
		t.Errorf("Category = %v, want Manga", gd.Category)
	}
	if gd.Uploader != "someuploader" || !gd.Disowned {
		t.Errorf("uploader = %q disowned = %v", gd.Uploader, gd.Disowned)
	}
	if gd.Posted != "2023-08-20 11:30" {
		t.Errorf("Posted = %q", gd.Posted)
	}
	if gd.Parent != "https://e-hentai.org/g/1234000/badc0ffee0/" {
		t.Errorf("Parent = %q", gd.Parent)
	}
	if gd.Visible != "Yes" || gd.Language != "Japanese" || gd.Size != "25.01 MiB" {
		t.Errorf("metadata = %q / %q / %q", gd.Visible, gd.Language, gd.Size)
	}
	if gd.Pages != 20 {
		t.Errorf("Pages = %d, want 20", gd.Pages)
	}
	if gd.FavoriteCount != 12 {
		t.Errorf("FavoriteCount = %d, want 12", gd.FavoriteCount)
	}
	if gd.FavoriteName != "Reading List" || gd.FavoriteSlot != 2 {
		t.Errorf("favorite = %q slot %d, want Reading List slot 2", gd.FavoriteName, gd.FavoriteSlot)
	}
	if gd.Rating != 4.46 || gd.RatingCount != 38 {
		t.Errorf("rating = %v (%d votes)", gd.Rating, gd.RatingCount)
	}
	if gd.TorrentURL != "https://e-hentai.org/gallerytorrents.php?gid=1234567&t=abcdef1234" || gd.TorrentCount != 2 {
		t.Errorf("torrent = %q (%d)", gd.TorrentURL, gd.TorrentCount)
	}
	if gd.ArchiveURL != "https://e-hentai.org/archiver.php?gid=1234567&token=abcdef1234" {
		t.Errorf("ArchiveURL = %q", gd.ArchiveURL)
	}

	wantNewer := []client.GalleryInfo{
		{Gid: 2000000, Token: "aaaaaaaaaa", Title: "Example Gallery v2", Posted: "2023-09-01 10:00"},
		{Gid: 2000001, Token: "bbbbbbbbbb", Title: "Example Gallery v3", Posted: "2023-09-05 12:00"},
	}
	if !reflect.DeepEqual(gd.NewerVersions, wantNewer) {
		t.Errorf("NewerVersions = %+v, want %+v", gd.NewerVersions, wantNewer)
	}

	wantTags := []client.GalleryTagGroup{
		{Namespace: client.NamespaceLanguage, Tags: []string{"japanese", "translated"}},
		{Namespace: client.NamespaceParody, Tags: []string{"some series"}},
		{Namespace: client.NamespaceFemale, Tags: []string{"_glasses"}},
	}
	if !reflect.DeepEqual(gd.TagGroups, wantTags) {
		t.Errorf("TagGroups = %+v, want %+v", gd.TagGroups, wantTags)
	}

	if gd.PreviewPages != 2 {
		t.Errorf("PreviewPages = %d, want 2", gd.PreviewPages)
	}
	wantPreviews := []client.GalleryPreview{
		client.NormalGalleryPreview{SheetURL: "https://ehgt.org/m/001.jpg", ImgKey: "m/001.jpg", Pos: 0, Offset: 0, Width: 100, Height: 142},
		client.NormalGalleryPreview{SheetURL: "https://ehgt.org/m/001.jpg", ImgKey: "m/001.jpg", Pos: 1, Offset: 100, Width: 100, Height: 142},
	}
	if !reflect.DeepEqual(gd.Previews, wantPreviews) {
		t.Errorf("Previews = %+v, want %+v", gd.Previews, wantPreviews)
	}
	wantPageURLs := []string{
		"https://e-hentai.org/s/1a2b3c4d5e/1234567-1",
		"https://e-hentai.org/s/2b3c4d5e6f/1234567-2",
	}
	if !reflect.DeepEqual(gd.PreviewPageURLs, wantPageURLs) {
		t.Errorf("PreviewPageURLs = %v, want %v", gd.PreviewPageURLs, wantPageURLs)
	}
}

func TestParseGalleryDetailComments(t *testing.T) {
	gd, err := ParseGalleryDetail(context.Background(), detailPage, testEnv())
	if err != nil {
		t.Fatalf("ParseGalleryDetail() error = %v", err)
	}

	comments := gd.Comments
	if !comments.HasMore {
		t.Error("HasMore = false, want true")
	}
	if len(comments.Comments) != 3 {
		t.Fatalf("len(Comments) = %d, want 3", len(comments.Comments))
	}

	first := comments.Comments[0]
	if first.ID != 1000001 {
		t.Errorf("ID = %d, want 1000001", first.ID)
	}
	if first.User != "commenter1" {
		t.Errorf("User = %q, want commenter1", first.User)
	}
	if first.Score != 12 {
		t.Errorf("Score = %d, want 12", first.Score)
	}
	if !first.VoteUpAble || first.VoteUpEd || !first.VoteDownAble || first.VoteDownEd {
		t.Errorf("vote flags = %+v", first)
	}
	wantTime := time.Date(2023, 8, 20, 11, 30, 0, 0, time.UTC).UnixMilli()
	if first.Time != wantTime {
		t.Errorf("Time = %d, want %d", first.Time, wantTime)
	}
	wantBody := `Nice work <u style="text-decoration:underline;">really</u>!`
	if first.Comment != wantBody {
		t.Errorf("Comment = %q, want %q", first.Comment, wantBody)
	}
	wantEdited := time.Date(2023, 8, 21, 9, 15, 0, 0, time.UTC).UnixMilli()
	if first.LastEdited != wantEdited {
		t.Errorf("LastEdited = %d, want %d", first.LastEdited, wantEdited)
	}

	second := comments.Comments[1]
	if !second.Uploader {
		t.Error("second comment should be an uploader comment")
	}
	if second.Score != -50 {
		t.Errorf("Score = %d, want -50", second.Score)
	}

	third := comments.Comments[2]
	if third.User != "" {
		t.Errorf("anonymous comment User = %q, want empty", third.User)
	}
	if !third.VoteDownEd {
		t.Error("VoteDownEd = false, want true for styled Vote- anchor")
	}
}

func TestParseGalleryDetailCommentThreshold(t *testing.T) {
	env := Env{CommentThreshold: -10}
	gd, err := ParseGalleryDetail(context.Background(), detailPage, env)
	if err != nil {
		t.Fatalf("ParseGalleryDetail() error = %v", err)
	}

	// The -80 comment is dropped; the uploader's -50 comment survives
	// regardless of score.
	if len(gd.Comments.Comments) != 2 {
		t.Fatalf("len(Comments) = %d, want 2", len(gd.Comments.Comments))
	}
	for _, c := range gd.Comments.Comments {
		if c.ID == 1000003 {
			t.Error("comment below threshold was kept")
		}
	}
	if !gd.Comments.Comments[1].Uploader {
		t.Error("uploader comment was dropped")
	}

	// A score at the threshold is dropped; one point above it is kept.
	boundaries := []struct {
		score string
		kept  bool
	}{
		{"-10", false},
		{"-9", true},
	}
	for _, b := range boundaries {
		page := strings.Replace(detailPage, `class="c5s">-80<`, `class="c5s">`+b.score+`<`, 1)
		if page == detailPage {
			t.Fatal("score fragment not found in fixture")
		}
		gd, err := ParseGalleryDetail(context.Background(), page, env)
		if err != nil {
			t.Fatalf("ParseGalleryDetail() error = %v", err)
		}
		kept := false
		for _, c := range gd.Comments.Comments {
			if c.ID == 1000003 {
				kept = true
			}
		}
		if kept != b.kept {
			t.Errorf("score %s with threshold -10: kept = %v, want %v", b.score, kept, b.kept)
		}
	}
}

func TestParseGalleryDetailCommentFilter(t *testing.T) {
	env := Env{
		CommentThreshold: -101,
		Filter:           fakeFilter{users: []string{"commenter1"}},
	}
	gd, err := ParseGalleryDetail(context.Background(), detailPage, env)
	if err != nil {
		t.Fatalf("ParseGalleryDetail() error = %v", err)
	}
	for _, c := range gd.Comments.Comments {
		if c.User == "commenter1" {
			t.Error("filtered commenter was kept")
		}
	}

	env = Env{
		CommentThreshold: -101,
		Filter:           fakeFilter{bodies: []string{"spam"}},
	}
	gd, err = ParseGalleryDetail(context.Background(), detailPage, env)
	if err != nil {
		t.Fatalf("ParseGalleryDetail() error = %v", err)
	}
	for _, c := range gd.Comments.Comments {
		if strings.Contains(c.Comment, "spam") {
			t.Error("filtered comment body was kept")
		}
	}
}

func TestParseGalleryDetailPreChecks(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{
			name: "offensive warning",
			body: "<html><body>" + offensiveMarker + "</body></html>",
			want: ErrOffensive,
		},
		{
			name: "gallery removed",
			body: "<html><body>" + piningMarker + "</body></html>",
			want: ErrGone,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseGalleryDetail(context.Background(), tt.body, testEnv())
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}

	t.Run("server error message", func(t *testing.T) {
		body := "<html><body><div class=\"d\">\n<p>Key missing, or incorrect key provided.</p></div></body></html>"
		_, err := ParseGalleryDetail(context.Background(), body, testEnv())
		var serverErr *ServerError
		if !errors.As(err, &serverErr) {
			t.Fatalf("error = %v, want *ServerError", err)
		}
		if serverErr.Message != "Key missing, or incorrect key provided." {
			t.Errorf("Message = %q", serverErr.Message)
		}
	})
}

func TestParseGalleryDetailFatalSections(t *testing.T) {
	tests := []struct {
		name   string
		mangle func(string) string
	}{
		{
			name: "missing identity script",
			mangle: func(s string) string {
				return strings.Replace(s, `var token = "abcdef1234";`, "", 1)
			},
		},
		{
			name: "missing metadata block",
			mangle: func(s string) string {
				return strings.Replace(s, `class="gm"`, `class="xx"`, 1)
			},
		},
		{
			name: "missing preview pager",
			mangle: func(s string) string {
				return strings.Replace(s, "&gt;</a>", "next</a>", 1)
			},
		},
		{
			name: "empty preview list",
			mangle: func(s string) string {
				return strings.ReplaceAll(s, `title="Page `, `title="P `)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseGalleryDetail(context.Background(), tt.mangle(detailPage), testEnv())
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Errorf("error = %v, want *ParseError", err)
			}
		})
	}
}

func TestParseGalleryDetailVariants(t *testing.T) {
	tests := []struct {
		name  string
		from  string
		to    string
		check func(t *testing.T, gd *client.GalleryDetail)
	}{
		{
			name: "never favorited",
			from: ">12 times<", to: ">Never<",
			check: func(t *testing.T, gd *client.GalleryDetail) {
				if gd.FavoriteCount != 0 {
					t.Errorf("FavoriteCount = %d, want 0", gd.FavoriteCount)
				}
			},
		},
		{
			name: "favorited once",
			from: ">12 times<", to: ">Once<",
			check: func(t *testing.T, gd *client.GalleryDetail) {
				if gd.FavoriteCount != 1 {
					t.Errorf("FavoriteCount = %d, want 1", gd.FavoriteCount)
				}
			},
		},
		{
			name: "unparsable favorite count",
			from: ">12 times<", to: ">mystery<",
			check: func(t *testing.T, gd *client.GalleryDetail) {
				if gd.FavoriteCount != 0 {
					t.Errorf("FavoriteCount = %d, want 0", gd.FavoriteCount)
				}
			},
		},
		{
			name: "not yet rated",
			from: "Average: 4.46", to: "Not Yet Rated",
			check: func(t *testing.T, gd *client.GalleryDetail) {
				if gd.Rating != -1.0 {
					t.Errorf("Rating = %v, want -1", gd.Rating)
				}
			},
		},
		{
			name: "malformed rating label",
			from: "Average: 4.46", to: "4.46",
			check: func(t *testing.T, gd *client.GalleryDetail) {
				if gd.Rating != 0 {
					t.Errorf("Rating = %v, want 0", gd.Rating)
				}
			},
		},
		{
			name: "unparsable length defaults to one page",
			from: ">20 pages<", to: ">garbled<",
			check: func(t *testing.T, gd *client.GalleryDetail) {
				if gd.Pages != 1 {
					t.Errorf("Pages = %d, want 1", gd.Pages)
				}
			},
		},
		{
			name: "no more comments",
			from: "click to show all", to: "no more comments",
			check: func(t *testing.T, gd *client.GalleryDetail) {
				if gd.Comments.HasMore {
					t.Error("HasMore = true, want false")
				}
			},
		},
		{
			name: "unknown namespace dropped",
			from: `class="tc">female:`, to: `class="tc">feeemale:`,
			check: func(t *testing.T, gd *client.GalleryDetail) {
				for _, g := range gd.TagGroups {
					if g.Namespace == client.NamespaceFemale {
						t.Error("renamed namespace group was kept")
					}
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := strings.Replace(detailPage, tt.from, tt.to, 1)
			if body == detailPage {
				t.Fatalf("fragment %q not found in fixture", tt.from)
			}
			gd, err := ParseGalleryDetail(context.Background(), body, testEnv())
			if err != nil {
				t.Fatalf("ParseGalleryDetail() error = %v", err)
			}
			tt.check(t, gd)
		})
	}
}

func TestParseGalleryDetailLocalFavorites(t *testing.T) {
	// A page without a remote favorite slot falls back to the local store.
	body := strings.Replace(detailPage, ">Reading List</a>", ">Add to Favorites</a>", 1)

	env := Env{CommentThreshold: -101, Favorites: fakeFavorites{has: true}}
	gd, err := ParseGalleryDetail(context.Background(), body, env)
	if err != nil {
		t.Fatalf("ParseGalleryDetail() error = %v", err)
	}
	if gd.FavoriteSlot != client.LocalFavorited {
		t.Errorf("FavoriteSlot = %d, want LocalFavorited", gd.FavoriteSlot)
	}
	if gd.FavoriteName != "" {
		t.Errorf("FavoriteName = %q, want empty", gd.FavoriteName)
	}

	env.Favorites = fakeFavorites{has: false}
	gd, err = ParseGalleryDetail(context.Background(), body, env)
	if err != nil {
		t.Fatalf("ParseGalleryDetail() error = %v", err)
	}
	if gd.FavoriteSlot != client.NotFavorited {
		t.Errorf("FavoriteSlot = %d, want NotFavorited", gd.FavoriteSlot)
	}

	// A lookup failure is logged and the slot stays untouched.
	env.Favorites = fakeFavorites{err: errors.New("db down")}
	gd, err = ParseGalleryDetail(context.Background(), body, env)
	if err != nil {
		t.Fatalf("ParseGalleryDetail() error = %v", err)
	}
	if gd.FavoriteSlot != client.NotFavorited {
		t.Errorf("FavoriteSlot = %d, want NotFavorited", gd.FavoriteSlot)
	}
}

func TestParsePreviewListLarge(t *testing.T) {
	body := `<div id="gdt">
<a href="https://e-hentai.org/s/aa11bb22cc/1234567-1"><div title="Page 1: p001.jpg" style="width:200px;height:284px;background:transparent url(https://ehgt.org/ab/cd/l1-250.jpg) no-repeat"></div></a>
</div>`
	previews, pageURLs, err := ParsePreviewList(body)
	if err != nil {
		t.Fatalf("ParsePreviewList() error = %v", err)
	}
	want := []client.GalleryPreview{
		client.LargeGalleryPreview{ImgKey: "ab/cd/l1-250.jpg", Pos: 0},
	}
	if !reflect.DeepEqual(previews, want) {
		t.Errorf("previews = %+v, want %+v", previews, want)
	}
	if len(pageURLs) != 1 || pageURLs[0] != "https://e-hentai.org/s/aa11bb22cc/1234567-1" {
		t.Errorf("pageURLs = %v", pageURLs)
	}
}

func TestParsePages(t *testing.T) {
	body := `<tr><td class="gdt1">Length:</td><td class="gdt2">1,204 pages</td></tr>`
	n, err := ParsePages(body)
	if err != nil {
		t.Fatalf("ParsePages() error = %v", err)
	}
	if n != 1204 {
		t.Errorf("ParsePages() = %d, want 1204", n)
	}

	if _, err := ParsePages("<html></html>"); err == nil {
		t.Error("ParsePages() on empty page should fail")
	}
}

func TestParsePreviewPages(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    int
		wantErr bool
	}{
		{
			name: "multi page",
			body: `<td class="a"><a href="x">1</a></td><td onclick="y"><a href="x?p=1">2</a></td><td onclick="y"><a href="x?p=1">&gt;</a></td>`,
			want: 2,
		},
		{
			name: "thousands separator",
			body: `<td class="a"><a href="x">1,023</a></td><td onclick="y"><a href="x?p=1022">&gt;</a></td>`,
			want: 1023,
		},
		{
			name:    "missing pager",
			body:    `<div>no pager here</div>`,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePreviewPages(tt.body)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePreviewPages() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParsePreviewPages() = %d, want %d", got, tt.want)
			}
		})
	}
}
