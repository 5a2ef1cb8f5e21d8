// Define the job record shared by scrapers, storage and runner
// Define the document interfaces a browser engine must provide

package scraper

import (
	"time"
)

// Job is one listing observed on a search-results page.
// JSON keys are part of the export format and must not change.
type Job struct {
	Title            string  `json:"titulo"`
	Link             string  `json:"link"`
	Location         string  `json:"local"`
	Salary           string  `json:"salario"`
	SalaryAdvertised bool    `json:"salario_anunciado"`
	Source           string  `json:"fonte"`
	SalaryLower      float64 `json:"salario_inf"`
	SalaryUpper      float64 `json:"salario_sup"`
}

// Node is one element of a rendered document.
type Node interface {
	//QuerySelector returns the first descendant matching selector, or nil when none match
	QuerySelector(selector string) (Node, error)

	//Attribute returns the attribute value, "" when missing
	Attribute(name string) (string, error)

	//InnerText returns the rendered text of the element
	InnerText() (string, error)
}

// Page is a browser tab (or anything that behaves like one) that can be
// pointed at a URL and queried afterwards.
type Page interface {
	Goto(url string, timeout time.Duration) error
	WaitForSelector(selector string, timeout time.Duration) error
	QuerySelectorAll(selector string) ([]Node, error)
}
