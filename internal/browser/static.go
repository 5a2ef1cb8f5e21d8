package browser

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"

	"go-vagas-scraper/internal/scraper"
)

// StaticPage fetches pages with a plain HTTP GET and queries the returned
// HTML with goquery. No JavaScript runs, so it only works for server
// rendered listings.
type StaticPage struct {
	client    *http.Client
	userAgent string
	doc       *goquery.Document
}

func NewStaticPage(client *http.Client, userAgent string) *StaticPage {
	if client == nil {
		client = &http.Client{}
	}
	return &StaticPage{client: client, userAgent: userAgent}
}

func (p *StaticPage) Goto(url string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return eris.Wrap(err, "browser: build request")
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "pt-BR,pt;q=0.9,en;q=0.8")

	resp, err := p.client.Do(req)
	if err != nil {
		return eris.Wrapf(err, "browser: get %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return eris.Errorf("browser: get %s: bad status code %d", url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return eris.Wrap(err, "browser: parse html")
	}
	p.doc = doc
	return nil
}

// WaitForSelector has nothing to wait for: the document is final once
// fetched, so it either matches now or never will.
func (p *StaticPage) WaitForSelector(selector string, _ time.Duration) error {
	if p.doc == nil {
		return eris.New("browser: no document loaded")
	}
	if p.doc.Find(selector).Length() == 0 {
		return eris.Errorf("browser: selector %q not found", selector)
	}
	return nil
}

func (p *StaticPage) QuerySelectorAll(selector string) ([]scraper.Node, error) {
	if p.doc == nil {
		return nil, eris.New("browser: no document loaded")
	}
	return SelectionNodes(p.doc.Find(selector)), nil
}

// SelectionNodes wraps every element of sel as a scraper.Node
func SelectionNodes(sel *goquery.Selection) []scraper.Node {
	nodes := make([]scraper.Node, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		nodes = append(nodes, selectionNode{s})
	})
	return nodes
}

type selectionNode struct {
	sel *goquery.Selection
}

func (n selectionNode) QuerySelector(selector string) (scraper.Node, error) {
	found := n.sel.Find(selector).First()
	if found.Length() == 0 {
		return nil, nil
	}
	return selectionNode{found}, nil
}

func (n selectionNode) Attribute(name string) (string, error) {
	return n.sel.AttrOr(name, ""), nil
}

// InnerText approximates the browser's innerText by collapsing whitespace
func (n selectionNode) InnerText() (string, error) {
	return strings.Join(strings.Fields(n.sel.Text()), " "), nil
}
