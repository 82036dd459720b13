package parser

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/slinet/ehfetch/internal/client"
	"github.com/slinet/ehfetch/pkg/utils"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

const (
	postedPrefix = "Posted on "
	bySuffix     = " by:"
)

// parseComments walks the comment container. Single comments are parsed
// independently so one malformed element never takes down the rest; a
// failure at the container level degrades to an empty list.
func parseComments(doc *goquery.Document, env Env) client.GalleryCommentList {
	logger := env.logger()

	cdiv := doc.Find("#cdiv")
	if cdiv.Length() == 0 {
		logger.Debug("no comment container")
		return client.GalleryCommentList{}
	}

	var list []client.GalleryComment
	cdiv.Find(".c1").Each(func(_ int, e *goquery.Selection) {
		if c := parseComment(e, env); c != nil {
			list = append(list, *c)
		}
	})

	// The "has more" hint lives somewhere inside the chd fragment. A page
	// without the fragment is not a comment section we understand.
	chd := cdiv.Find("#chd")
	if chd.Length() == 0 {
		logger.Debug("no chd fragment, dropping comments")
		return client.GalleryCommentList{}
	}
	hasMore := false
	chd.Find("*").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.Text() == "click to show all" {
			hasMore = true
			return false
		}
		return true
	})

	return client.GalleryCommentList{Comments: list, HasMore: hasMore}
}

// parseComment parses one comment element. It returns nil both for
// malformed elements (logged) and for comments suppressed by score or
// filter rules; uploader comments are never suppressed.
func parseComment(e *goquery.Selection, env Env) *client.GalleryComment {
	logger := env.logger()

	// Identity comes from the sibling anchor's name, e.g. name="c1234567"
	name := e.Prev().AttrOr("name", "")
	if len(name) < 2 {
		logger.Debug("comment without id anchor, dropping")
		return nil
	}
	id := utils.ParseInt64Def(name[1:], -1)
	if id < 0 {
		logger.Debug("unparsable comment id, dropping", zap.String("name", name))
		return nil
	}

	var c client.GalleryComment
	c.ID = id

	// Capability flags
	if c4 := e.Find(".c4").First(); c4.Length() > 0 {
		if c4.Text() == "Uploader Comment" {
			c.Uploader = true
		}
		c4.Children().Each(func(_ int, b *goquery.Selection) {
			switch b.Text() {
			case "Vote+":
				c.VoteUpAble = true
				c.VoteUpEd = strings.TrimSpace(b.AttrOr("style", "")) != ""
			case "Vote-":
				c.VoteDownAble = true
				c.VoteDownEd = strings.TrimSpace(b.AttrOr("style", "")) != ""
			case "Edit":
				c.Editable = true
			}
		})
	}

	if c7 := e.Find(".c7").First(); c7.Length() > 0 {
		c.VoteState = strings.TrimSpace(c7.Text())
	}

	if c5 := e.Find(".c5").First(); c5.Length() > 0 {
		c.Score = utils.ParseIntDef(c5.Children().First().Text(), 0)
	}

	// Posting time and optional username share one text node:
	// "Posted on <date> by:" followed by a link, or "Posted on <date>"
	// for anonymous/self posts
	c3 := e.Find(".c3").First()
	temp := ownText(c3)
	if !strings.HasPrefix(temp, postedPrefix) {
		logger.Debug("comment without posted header, dropping", zap.Int64("id", id))
		return nil
	}
	var timeStr string
	if strings.HasSuffix(temp, ":") && len(temp) > len(postedPrefix)+len(bySuffix) {
		timeStr = temp[len(postedPrefix) : len(temp)-len(bySuffix)]
		c.User = strings.TrimSpace(c3.Children().First().Text())
	} else {
		timeStr = temp[len(postedPrefix):]
	}
	posted, err := time.Parse(commentDateLayout, timeStr)
	if err != nil {
		logger.Debug("unparsable comment date, dropping",
			zap.Int64("id", id), zap.String("date", timeStr))
		return nil
	}
	c.Time = posted.UTC().UnixMilli()

	// Comment body, raw markup. Underline-styled spans are rewritten to a
	// semantic tag so downstream renderers keep the decoration.
	c6 := e.Find(".c6").First()
	if c6.Length() == 0 {
		logger.Debug("comment without body, dropping", zap.Int64("id", id))
		return nil
	}
	c6.Children().Each(func(_ int, s *goquery.Selection) {
		if goquery.NodeName(s) == "span" && s.AttrOr("style", "") == "text-decoration:underline;" {
			s.Nodes[0].Data = "u"
			s.Nodes[0].DataAtom = 0
		}
	})
	commentHTML, err := c6.Html()
	if err != nil {
		logger.Debug("failed to render comment body, dropping", zap.Int64("id", id))
		return nil
	}
	c.Comment = commentHTML

	if !c.Uploader {
		if c.Score <= env.CommentThreshold {
			return nil
		}
		if env.Filter != nil && (env.Filter.FilterCommenter(c.User) || env.Filter.FilterComment(c.Comment)) {
			return nil
		}
	}

	// Last edited
	if c8 := e.Find(".c8").First(); c8.Length() > 0 {
		if edited, err := time.Parse(commentDateLayout, c8.Children().First().Text()); err == nil {
			c.LastEdited = edited.UTC().UnixMilli()
		}
	}

	return &c
}

// ownText returns the text of s's direct text-node children, with
// whitespace runs collapsed, like jsoup's ownText
func ownText(s *goquery.Selection) string {
	if len(s.Nodes) == 0 {
		return ""
	}
	var b strings.Builder
	for n := s.Nodes[0].FirstChild; n != nil; n = n.NextSibling {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
