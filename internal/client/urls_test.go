package client

import "testing"

func TestParseGalleryURL(t *testing.T) {
	tests := []struct {
		name      string
		s         string
		wantGid   int64
		wantToken string
		wantOK    bool
	}{
		{
			name:      "full url",
			s:         "https://e-hentai.org/g/1234567/abcdef1234/",
			wantGid:   1234567,
			wantToken: "abcdef1234",
			wantOK:    true,
		},
		{
			name:      "bare pair",
			s:         "1234567/abcdef1234",
			wantGid:   1234567,
			wantToken: "abcdef1234",
			wantOK:    true,
		},
		{
			name:   "short token",
			s:      "1234567/abcdef",
			wantOK: false,
		},
		{
			name:   "no gallery reference",
			s:      "https://e-hentai.org/favorites.php",
			wantOK: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gid, token, ok := ParseGalleryURL(tt.s)
			if ok != tt.wantOK {
				t.Fatalf("ParseGalleryURL(%q) ok = %v, want %v", tt.s, ok, tt.wantOK)
			}
			if gid != tt.wantGid || token != tt.wantToken {
				t.Errorf("ParseGalleryURL(%q) = %d/%s, want %d/%s", tt.s, gid, token, tt.wantGid, tt.wantToken)
			}
		})
	}
}

func TestThumbKey(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://ehgt.org/ab/cd/abcd-250.jpg", "ab/cd/abcd-250.jpg"},
		{"http://ul.ehgt.org/ab/cd/abcd-250.jpg", "ab/cd/abcd-250.jpg"},
		{"ab/cd/abcd-250.jpg", "ab/cd/abcd-250.jpg"},
	}
	for _, tt := range tests {
		if got := ThumbKey(tt.url); got != tt.want {
			t.Errorf("ThumbKey(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		s    string
		want Category
	}{
		{"Manga", CategoryManga},
		{"doujinshi", CategoryDoujinshi},
		{"Artist CG Sets", CategoryArtistCG},
		{"Non-H", CategoryNonH},
		{"Private", CategoryUnknown},
	}
	for _, tt := range tests {
		if got := ParseCategory(tt.s); got != tt.want {
			t.Errorf("ParseCategory(%q) = %v, want %v", tt.s, got, tt.want)
		}
	}
}
