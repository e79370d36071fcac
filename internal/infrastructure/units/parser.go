package units

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cartcompare/backend/internal/domain"
)

// Base units reported in domain.Measure
const (
	UnitKilogram = "kg"
	UnitLiter    = "L"
	UnitEach     = "un"
)

var (
	// 1,5 -> 1.5
	decimalCommaRegex = regexp.MustCompile(`(\d),(\d)`)

	// Optional "6 x" count, quantity, unit, optional "x 6" count.
	// Longer unit spellings come before their prefixes so "kg" wins over "g".
	measureRegex = regexp.MustCompile(
		`(?:(\d+)\s*x\s*)?(\d+(?:\.\d+)?)\s*(kilogramos?|kilos?|kgs?|gramos?|grs?|g|litros?|lts?|lt|l|mililitros?|ml|cc|cm3|unidades|unid|un|u)\b(?:\s*x\s*(\d+)\b)?`,
	)

	// "pack x 6", "pack 6", "x6 un"
	packCountRegex = regexp.MustCompile(`\bpack\s*(?:x\s*)?(\d+)\b`)
)

// unitScale maps a spelled unit to its base unit and multiplier
var unitScale = map[string]struct {
	base  string
	scale float64
}{
	"kilogramo": {UnitKilogram, 1}, "kilogramos": {UnitKilogram, 1},
	"kilo": {UnitKilogram, 1}, "kilos": {UnitKilogram, 1},
	"kg": {UnitKilogram, 1}, "kgs": {UnitKilogram, 1},
	"gramo": {UnitKilogram, 0.001}, "gramos": {UnitKilogram, 0.001},
	"gr": {UnitKilogram, 0.001}, "grs": {UnitKilogram, 0.001}, "g": {UnitKilogram, 0.001},
	"litro": {UnitLiter, 1}, "litros": {UnitLiter, 1},
	"lt": {UnitLiter, 1}, "lts": {UnitLiter, 1}, "l": {UnitLiter, 1},
	"mililitro": {UnitLiter, 0.001}, "mililitros": {UnitLiter, 0.001},
	"ml": {UnitLiter, 0.001}, "cc": {UnitLiter, 0.001}, "cm3": {UnitLiter, 0.001},
	"unidades": {UnitEach, 1}, "unid": {UnitEach, 1}, "un": {UnitEach, 1}, "u": {UnitEach, 1},
}

// Parser extracts quantities like "1.5 L", "500 g" or "6 x 2,25 lts" from
// product names and search terms
type Parser struct{}

// NewParser creates a new unit parser
func NewParser() *Parser {
	return &Parser{}
}

// ParseUnit returns the first measure found in text, normalized to kg, L or
// units. Multipack counts multiply the quantity.
func (p *Parser) ParseUnit(text string) (domain.Measure, bool) {
	if text == "" {
		return domain.Measure{}, false
	}

	s := strings.ToLower(text)
	s = decimalCommaRegex.ReplaceAllString(s, "$1.$2")

	m := measureRegex.FindStringSubmatch(s)
	if m == nil {
		return domain.Measure{}, false
	}

	quantity, err := strconv.ParseFloat(m[2], 64)
	if err != nil || quantity <= 0 {
		return domain.Measure{}, false
	}

	unit, ok := unitScale[m[3]]
	if !ok {
		return domain.Measure{}, false
	}

	count := 1
	switch {
	case m[1] != "":
		count, _ = strconv.Atoi(m[1])
	case m[4] != "":
		count, _ = strconv.Atoi(m[4])
	default:
		if pm := packCountRegex.FindStringSubmatch(s); pm != nil && unit.base != UnitEach {
			count, _ = strconv.Atoi(pm[1])
		}
	}
	if count <= 0 {
		count = 1
	}

	return domain.Measure{
		Quantity: quantity * unit.scale * float64(count),
		Unit:     unit.base,
	}, true
}
