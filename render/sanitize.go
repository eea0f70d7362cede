package render

import (
	"html/template"
	"log/slog"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var markupPattern = regexp.MustCompile(`</?[a-zA-Z][^>]*>|&[a-zA-Z]+;|&#[0-9]+;`)

// allowedTags may appear in rendered comments. Other elements are
// unwrapped and only their text is kept.
var allowedTags = map[string]bool{
	"a": true, "abbr": true, "b": true, "blockquote": true, "br": true,
	"code": true, "dd": true, "dl": true, "dt": true, "em": true,
	"i": true, "li": true, "ol": true, "p": true, "pre": true,
	"q": true, "s": true, "small": true, "span": true, "strong": true,
	"sub": true, "sup": true, "u": true, "ul": true,
}

// droppedTags are removed together with their content.
var droppedTags = map[string]bool{
	"script": true, "style": true, "iframe": true, "object": true,
	"embed": true, "form": true, "noscript": true, "template": true,
}

var safeSchemes = []string{"http://", "https://", "mailto:", "#"}

// looksLikeHTML reports whether s contains tags or entity references.
func looksLikeHTML(s string) bool {
	return markupPattern.MatchString(s)
}

// SanitizeHTML makes a comment safe to embed in a page. Plain text is
// escaped; markup is reduced to an allow-list of inline and list elements
// with only href and title attributes.
func SanitizeHTML(s string) template.HTML {
	if !looksLikeHTML(s) {
		return template.HTML(template.HTMLEscapeString(s))
	}
	context := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(s), context)
	if err != nil {
		return template.HTML(template.HTMLEscapeString(s))
	}
	var sb strings.Builder
	for _, n := range nodes {
		writeSafe(&sb, n)
	}
	return template.HTML(sb.String())
}

func writeSafe(sb *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(html.EscapeString(n.Data))
		return
	case html.ElementNode:
	default:
		return
	}

	if droppedTags[n.Data] {
		return
	}
	allowed := allowedTags[n.Data]
	if allowed {
		sb.WriteString("<" + n.Data)
		for _, a := range n.Attr {
			if a.Namespace != "" || !safeAttr(n.Data, a) {
				continue
			}
			sb.WriteString(" " + a.Key + `="` + html.EscapeString(a.Val) + `"`)
		}
		sb.WriteString(">")
		if n.Data == "br" {
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeSafe(sb, c)
	}
	if allowed {
		sb.WriteString("</" + n.Data + ">")
	}
}

func safeAttr(tag string, a html.Attribute) bool {
	switch a.Key {
	case "title":
		return true
	case "href":
		if tag != "a" {
			return false
		}
		v := strings.ToLower(strings.TrimSpace(a.Val))
		for _, scheme := range safeSchemes {
			if strings.HasPrefix(v, scheme) {
				return true
			}
		}
	}
	return false
}

// commentMarkdown converts a comment with markup to Markdown. Plain text
// is returned unchanged.
func (r *Renderer) commentMarkdown(s string) string {
	if !looksLikeHTML(s) {
		return s
	}
	out, err := r.converter.ConvertString(string(SanitizeHTML(s)))
	if err != nil {
		r.logger.Debug("Comment conversion failed", slog.String("error", err.Error()))
		return s
	}
	return strings.TrimSpace(out)
}
