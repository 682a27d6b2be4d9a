package pagemeta

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/net/html"
)

// Token parses an HTML document and returns the content attribute of the
// first meta tag whose name attribute equals name. Absence (no such tag, no
// content, or unparseable markup) yields the empty string, never an error.
func Token(r io.Reader, name string) string {
	doc, err := html.Parse(r)
	if err != nil {
		return ""
	}

	var token string
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "meta" {
			var metaName, content string
			for _, attr := range n.Attr {
				switch attr.Key {
				case "name":
					metaName = attr.Val
				case "content":
					content = attr.Val
				}
			}
			if metaName == name {
				token = content
				return true
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(doc)

	return token
}

// TokenFromString is [Token] over an in-memory document.
func TokenFromString(doc, name string) string {
	return Token(strings.NewReader(doc), name)
}

// Fetch retrieves pageURL and reads the named meta tag out of the response
// body. A page without the tag yields ("", nil); only transport-level
// failures are errors.
func Fetch(ctx context.Context, client *http.Client, pageURL, name string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	return Token(resp.Body, name), nil
}

// Source reads the token off a live page on every call. It satisfies the
// root package's TokenSource without importing it.
type Source struct {
	client *http.Client
	url    string
	name   string
}

// NewSource creates a [Source] bound to one page and meta tag name.
func NewSource(client *http.Client, pageURL, name string) *Source {
	if client == nil {
		client = http.DefaultClient
	}
	return &Source{
		client: client,
		url:    pageURL,
		name:   name,
	}
}

// Token implements the TokenSource contract: failures degrade to an empty
// token.
func (s *Source) Token(ctx context.Context) string {
	if s == nil {
		return ""
	}
	token, err := Fetch(ctx, s.client, s.url, s.name)
	if err != nil {
		return ""
	}
	return token
}
