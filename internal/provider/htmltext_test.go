// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractText(t *testing.T) {
	doc := `<!doctype html><html><head><title> FastAPI  docs </title>
<script>track()</script></head>
<body>
<header>Site header</header>
<main><h2>Features</h2><ul><li>Fast</li><li>Typed</li></ul>
<p>Built on <a href="#">Starlette</a>.</p></main>
<noscript>enable js</noscript>
<footer>(c) 2026</footer>
</body></html>`

	title, text, err := extractText(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, "FastAPI docs", title)
	assert.Equal(t, "Features\nFast\nTyped\nBuilt on Starlette .", text)
}

func TestParseDuckDuckGo(t *testing.T) {
	page := `<div><a class="result__a" href="https://direct.example/page">Direct</a>
<a class="result__snippet">direct snippet</a>
<a class="result__a" href="javascript:void(0)">Bad scheme</a>
<a class="result__a" href="//duckduckgo.com/l/?rut=abc">No target</a>
<a class="result__a extra" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fwrapped.example%2Fa%3Fb%3D1">Wrapped</a></div>`

	got, err := parseDuckDuckGo(strings.NewReader(page), 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, Result{URL: "https://direct.example/page", Title: "Direct", Text: "direct snippet"}, got[0])
	assert.Equal(t, "https://wrapped.example/a?b=1", got[1].URL)
	assert.Equal(t, "", got[1].Text)
}

func TestResolveDuckDuckGoLink(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", ""},
		{"https://duckduckgo.com/y.js?ad_provider=x", ""},
		{"//duckduckgo.com/l/?uddg=https%3A%2F%2Fgo.dev", "https://go.dev"},
		{"https://go.dev/doc", "https://go.dev/doc"},
		{"/relative/path", ""},
		{"ftp://files.example", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, resolveDuckDuckGoLink(tt.in), tt.in)
	}
}
