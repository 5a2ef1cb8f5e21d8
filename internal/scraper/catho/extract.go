package catho

import (
	"strings"

	"github.com/rotisserie/eris"

	"go-vagas-scraper/internal/scraper"
)

const (
	CardSelector   = "ul > li > article"
	titleSelector  = "h2 a[title]"
	salarySelector = `div > div[class*="salaryText"]`

	TitleNotFound    = "Título não encontrado"
	LinkNotFound     = "Link não encontrado"
	LocationNotFound = "Local não encontrado"
	SalaryNotFound   = "Salário não encontrado"
)

// the location link sits inside a button on most cards and inside a plain div on the rest
var locationSelectors = []string{
	`div > button > a[href*="/vagas/"]`,
	`div > div > a[href*="/vagas/"]`,
}

// RawFields is what a job card shows, before any cleaning. Fields that
// could not be found hold their placeholder instead of "".
type RawFields struct {
	Title    string
	Link     string
	Location string
	Salary   string
}

// ExtractFields reads one job card
func ExtractFields(card scraper.Node) (RawFields, error) {
	fields := RawFields{
		Title:    TitleNotFound,
		Link:     LinkNotFound,
		Location: LocationNotFound,
		Salary:   SalaryNotFound,
	}

	anchor, err := card.QuerySelector(titleSelector)
	if err != nil {
		return fields, eris.Wrap(err, "catho: query title")
	}
	if anchor != nil {
		if title, err := anchor.Attribute("title"); err != nil {
			return fields, eris.Wrap(err, "catho: read title")
		} else if strings.TrimSpace(title) != "" {
			fields.Title = title
		}
		if href, err := anchor.Attribute("href"); err != nil {
			return fields, eris.Wrap(err, "catho: read link")
		} else if href = strings.TrimSpace(href); href != "" {
			fields.Link = href
		}
	}

	location, err := firstText(card, locationSelectors...)
	if err != nil {
		return fields, eris.Wrap(err, "catho: read location")
	}
	if location != "" {
		fields.Location = location
	}

	salary, err := firstText(card, salarySelector)
	if err != nil {
		return fields, eris.Wrap(err, "catho: read salary")
	}
	if salary != "" {
		fields.Salary = salary
	}

	return fields, nil
}

// firstText returns the trimmed inner text of the first selector that
// yields a non-empty result, "" when none does
func firstText(card scraper.Node, selectors ...string) (string, error) {
	for _, sel := range selectors {
		el, err := card.QuerySelector(sel)
		if err != nil {
			return "", err
		}
		if el == nil {
			continue
		}
		text, err := el.InnerText()
		if err != nil {
			return "", err
		}
		if text = strings.TrimSpace(text); text != "" {
			return text, nil
		}
	}
	return "", nil
}
