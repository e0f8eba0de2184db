// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// skipTags are elements whose contents never contribute readable text.
var skipTags = map[string]bool{
	"script": true, "style": true, "noscript": true, "svg": true,
	"nav": true, "footer": true, "header": true, "form": true,
	"iframe": true, "template": true,
}

var blockTags = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"tr": true, "section": true, "article": true, "main": true,
	"blockquote": true, "pre": true, "table": true, "dd": true, "dt": true,
}

// extractText parses an HTML document and returns its title and visible
// text, one block element per line.
func extractText(r io.Reader) (title, text string, err error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", "", err
	}

	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if n.Data == "title" && title == "" {
				title = strings.TrimSpace(nodeText(n))
				return
			}
			if skipTags[n.Data] {
				return
			}
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockTags[n.Data] {
			b.WriteByte('\n')
		}
	}
	walk(doc)

	return title, collapseLines(b.String()), nil
}

// collapseLines squeezes runs of whitespace inside each line and drops
// empty lines.
func collapseLines(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, l := range lines {
		if l = strings.Join(strings.Fields(l), " "); l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// parseDuckDuckGo reads the DuckDuckGo HTML results page. Each result link
// (a.result__a) starts a result; the following a.result__snippet supplies
// its text. Ads are skipped.
func parseDuckDuckGo(r io.Reader, limit int) ([]Result, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var results []Result
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if limit > 0 && len(results) >= limit && n.Type == html.ElementNode && hasClass(n, "result__a") {
			return
		}
		if n.Type == html.ElementNode {
			switch {
			case hasClass(n, "result__a"):
				link := resolveDuckDuckGoLink(attr(n, "href"))
				if link != "" {
					results = append(results, Result{URL: link, Title: nodeText(n)})
				}
				return
			case hasClass(n, "result__snippet"):
				if len(results) > 0 && results[len(results)-1].Text == "" {
					results[len(results)-1].Text = nodeText(n)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// resolveDuckDuckGoLink unwraps the /l/?uddg= redirect and rejects ad links.
func resolveDuckDuckGoLink(href string) string {
	if href == "" || strings.Contains(href, "duckduckgo.com/y.js") {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if strings.HasSuffix(u.Host, "duckduckgo.com") && strings.HasPrefix(u.Path, "/l/") {
		target := u.Query().Get("uddg")
		if target == "" {
			return ""
		}
		return target
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return href
}
