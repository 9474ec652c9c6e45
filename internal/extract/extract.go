package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"waybackspam/internal/models"
)

// Elements whose content is markup plumbing, never visible text.
const strippedElements = "script,style,noscript,iframe,embed,object"

// HTMLParser extracts raw text and head metadata from an HTML document.
// Implementations may fail on malformed input; the Extractor degrades to a
// tag-stripping implementation that always succeeds.
type HTMLParser interface {
	Text(html string) (string, error)
	Meta(html string) (models.MetaTags, error)
}

// Extractor turns HTML into normalized visible text and meta fields.
// It never returns an error: when the primary parser fails it falls back to
// the regex stripper, and meta extraction degrades to empty fields.
type Extractor struct {
	primary  HTMLParser
	fallback HTMLParser
}

func New() *Extractor {
	return &Extractor{primary: &DOMParser{}, fallback: &TagStripParser{}}
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// ExtractText returns the visible text of the document: stripped of
// script/style-like elements, whitespace-collapsed, trimmed, lowercased.
func (e *Extractor) ExtractText(html string) string {
	raw, err := e.primary.Text(html)
	if err != nil {
		raw, _ = e.fallback.Text(html)
	}
	return strings.ToLower(strings.TrimSpace(whitespaceRe.ReplaceAllString(raw, " ")))
}

// ExtractMeta returns the trimmed title, meta description and meta keywords.
// Absent fields and parse failures both yield empty strings.
func (e *Extractor) ExtractMeta(html string) models.MetaTags {
	m, err := e.primary.Meta(html)
	if err != nil {
		if m, err = e.fallback.Meta(html); err != nil {
			return models.MetaTags{}
		}
	}
	return m
}

// DOMParser extracts via a parsed document tree.
type DOMParser struct{}

func (p *DOMParser) Text(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}
	doc.Find(strippedElements).Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})
	if body := doc.Find("body"); body.Length() > 0 {
		return body.Text(), nil
	}
	return doc.Text(), nil
}

func (p *DOMParser) Meta(html string) (models.MetaTags, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return models.MetaTags{}, err
	}
	return models.MetaTags{
		Title:       strings.TrimSpace(doc.Find("title").First().Text()),
		Description: strings.TrimSpace(doc.Find(`meta[name="description"]`).AttrOr("content", "")),
		Keywords:    strings.TrimSpace(doc.Find(`meta[name="keywords"]`).AttrOr("content", "")),
	}, nil
}

var (
	scriptRe  = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`)
	styleRe   = regexp.MustCompile(`(?is)<style\b[^>]*>.*?</style>`)
	tagRe     = regexp.MustCompile(`(?s)<[^>]*>`)
	titleRe   = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	metaTagRe = regexp.MustCompile(`(?is)<meta\b[^>]*>`)
	nameRe    = regexp.MustCompile(`(?i)\bname\s*=\s*["']?([^"'\s>]+)`)
	contentRe = regexp.MustCompile(`(?i)\bcontent\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s>]+))`)
)

// TagStripParser is the guaranteed-available fallback: it strips script and
// style blocks, then every remaining tag. It never fails.
type TagStripParser struct{}

func (p *TagStripParser) Text(html string) (string, error) {
	s := scriptRe.ReplaceAllString(html, " ")
	s = styleRe.ReplaceAllString(s, " ")
	return tagRe.ReplaceAllString(s, " "), nil
}

func (p *TagStripParser) Meta(html string) (models.MetaTags, error) {
	var m models.MetaTags
	if t := titleRe.FindStringSubmatch(html); t != nil {
		m.Title = strings.TrimSpace(t[1])
	}
	for _, tag := range metaTagRe.FindAllString(html, -1) {
		name := nameRe.FindStringSubmatch(tag)
		if name == nil {
			continue
		}
		var content string
		if c := contentRe.FindStringSubmatch(tag); c != nil {
			content = strings.TrimSpace(c[1] + c[2] + c[3])
		}
		switch strings.ToLower(name[1]) {
		case "description":
			if m.Description == "" {
				m.Description = content
			}
		case "keywords":
			if m.Keywords == "" {
				m.Keywords = content
			}
		}
	}
	return m, nil
}
