package filter

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	//matched against folded text, so accents and case don't matter
	undisclosedRegex = regexp.MustCompile(`a combinar|nao informado|nao divulgado`)
	//R$ 1.234,56 -> group 1 = "1.234,56"
	amountRegex = regexp.MustCompile(`R\$\s?([\d.]+,\d{2})`)
)

// ParseSalary reads a salary blob like "R$ 2.000,00 a R$ 3.500,00".
// advertised is false only when the text says the salary is undisclosed.
// With a single amount lower == upper; with more than two only the first two count
// and they are returned in the order they appear.
func ParseSalary(text string) (advertised bool, lower, upper float64) {
	if undisclosedRegex.MatchString(normalizeText(text)) {
		return false, 0, 0
	}

	var amounts []float64
	for _, m := range amountRegex.FindAllStringSubmatch(text, -1) {
		v, err := parseAmount(m[1])
		if err != nil {
			continue
		}
		amounts = append(amounts, v)
	}

	switch len(amounts) {
	case 0:
		//nothing numeric but not flagged undisclosed either: still "advertised"
		return true, 0, 0
	case 1:
		return true, amounts[0], amounts[0]
	default:
		return true, amounts[0], amounts[1]
	}
}

// parseAmount converts "1.234,56" to 1234.56
func parseAmount(s string) (float64, error) {
	s = strings.ReplaceAll(s, ".", "")
	s = strings.Replace(s, ",", ".", 1)
	return strconv.ParseFloat(s, 64)
}

// normalizeText strips diacritics and lowercases: "Não Informado" -> "nao informado"
func normalizeText(str string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, str)
	if err != nil {
		result = str
	}
	return strings.ToLower(result)
}
