package intake

import (
	"net/url"
	"strings"

	"github.com/abadojack/whatlanggo"
	"github.com/go-shiori/go-readability"
	"golang.org/x/net/html"

	"github.com/ppiankov/factscope/internal/model"
)

// minArticleChars is the shortest readability output accepted before
// falling back to the plain text of the whole page
const minArticleChars = 200

// ExtractArticle returns the title and main text of an HTML page
func ExtractArticle(page string, pageURL *url.URL) (title, text string) {
	if pageURL == nil {
		pageURL = &url.URL{}
	}
	article, err := readability.FromReader(strings.NewReader(page), pageURL)
	if err == nil {
		text = normalizeWhitespace(article.TextContent)
		title = strings.TrimSpace(article.Title)
		if len(text) >= minArticleChars {
			return title, text
		}
	}

	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return title, text
	}
	if title == "" {
		title = documentTitle(doc)
	}
	if visible := visibleText(doc); visible != "" {
		text = visible
	}
	return title, text
}

// visibleText extracts text nodes from HTML, skipping scripts, styles and
// page chrome
func visibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "svg", "form", "nav", "header", "footer", "title":
				return
			}
		}

		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return normalizeWhitespace(buf.String())
}

func documentTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" && n.FirstChild != nil {
		return strings.TrimSpace(n.FirstChild.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := documentTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// DetectLanguage returns the ISO 639-1 code of the text, or auto when it
// cannot be detected
func DetectLanguage(text string) string {
	if strings.TrimSpace(text) == "" {
		return model.LanguageAuto
	}
	info := whatlanggo.Detect(text)
	if code := info.Lang.Iso6391(); code != "" {
		return code
	}
	return model.LanguageAuto
}
