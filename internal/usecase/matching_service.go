package usecase

import (
	"slices"
	"sort"
	"strings"

	"github.com/cartcompare/backend/internal/domain"
	"github.com/rs/zerolog"
)

// Scoring weights
const (
	tokenMatchWeight  = 0.7 // share of term tokens found in the listing name
	lengthRatioWeight = 0.3 // term length relative to listing name length
	mismatchPenalty   = 0.5 // applied once when a blocklisted token is present
)

// Matching defaults
const (
	defaultMatchThreshold  = 0.35
	defaultMaxAlternatives = 3
)

// mismatchTokens flag listings from a neighbouring category that a plain
// token-overlap score would otherwise accept ("tomate" -> "ketchup de tomate").
var mismatchTokens = tokenSet(
	// Condiments & sauces
	"ketchup", "mayonesa", "mostaza", "salsa", "salsas", "aderezo", "barbacoa",
	"chimichurri", "vinagreta",
	// Pet food
	"perro", "perros", "gato", "gatos", "mascota", "mascotas", "cachorro", "felino", "canino",
	// Cleaning
	"detergente", "lavandina", "limpiador", "desinfectante", "suavizante",
	"desengrasante", "lustramuebles",
	// Personal care
	"shampoo", "acondicionador", "desodorante", "jabon", "dental", "corporal", "capilar",
	// Processed / reformulated variants
	"saborizado", "saborizada", "rebozado", "rebozadas", "deshidratado", "instantaneo",
	// Supplements
	"suplemento", "proteico", "vitaminas", "colageno", "whey",
)

func tokenSet(tokens ...string) map[string]bool {
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[t] = true
	}
	return set
}

// MatchConfig holds configuration for the matching service
type MatchConfig struct {
	Threshold          float64
	MaxAlternatives    int
	EnableDebugLogging bool
}

// MatchingService scores catalog listings against a search term and picks
// the best priced match for one store.
type MatchingService struct {
	units              domain.UnitParser
	threshold          float64
	maxAlternatives    int
	enableDebugLogging bool
	logger             zerolog.Logger
}

// searchQuery is a search term prepared for scoring
type searchQuery struct {
	raw        string
	normalized string
	tokens     []string
}

func newSearchQuery(term string) searchQuery {
	normalized := normalizeText(term)
	return searchQuery{
		raw:        term,
		normalized: normalized,
		tokens:     tokenize(normalized),
	}
}

// scoredCandidate is a listing with its score and unit info; it never leaves this file
type scoredCandidate struct {
	listing  domain.ProductListing
	score    float64
	unitInfo *domain.UnitInfo
}

// NewMatchingService creates a new matching service with the given configuration
func NewMatchingService(units domain.UnitParser, config MatchConfig, logger zerolog.Logger) *MatchingService {
	threshold := config.Threshold
	if threshold <= 0 {
		threshold = defaultMatchThreshold
	}

	maxAlternatives := config.MaxAlternatives
	if maxAlternatives <= 0 {
		maxAlternatives = defaultMaxAlternatives
	}

	return &MatchingService{
		units:              units,
		threshold:          threshold,
		maxAlternatives:    maxAlternatives,
		enableDebugLogging: config.EnableDebugLogging,
		logger:             logger,
	}
}

// Match selects the primary listing and up to MaxAlternatives runner-ups for
// one store's results. Returns false when nothing clears the threshold.
func (s *MatchingService) Match(term string, listings []domain.ProductListing) (*domain.TermMatch, bool) {
	if len(listings) == 0 {
		return nil, false
	}

	query := newSearchQuery(term)
	if len(query.tokens) == 0 {
		return nil, false
	}

	candidates := make([]scoredCandidate, 0, len(listings))
	for _, listing := range listings {
		// Malformed listings are dropped here instead of failing the comparison
		if listing.Price <= 0 || strings.TrimSpace(listing.Name) == "" {
			continue
		}

		score := s.calculateMatchScore(query, listing.Name)

		if s.enableDebugLogging {
			s.logger.Debug().
				Str("term", term).
				Str("listing", listing.Name).
				Float64("price", listing.Price).
				Float64("score", score).
				Msg("match candidate")
		}

		if score < s.threshold {
			continue
		}

		candidates = append(candidates, scoredCandidate{
			listing:  listing,
			score:    score,
			unitInfo: s.unitInfo(listing.Name, listing.Price),
		})
	}

	if len(candidates) == 0 {
		return nil, false
	}

	s.sortCandidates(query, candidates)

	primary := candidates[0]
	match := &domain.TermMatch{
		Product:      primary.listing,
		UnitInfo:     primary.unitInfo,
		Alternatives: make([]domain.Alternative, 0, s.maxAlternatives),
	}
	for _, c := range candidates[1:] {
		if len(match.Alternatives) == s.maxAlternatives {
			break
		}
		match.Alternatives = append(match.Alternatives, domain.Alternative{
			Name:     c.listing.Name,
			Price:    c.listing.Price,
			Link:     c.listing.Link,
			UnitInfo: c.unitInfo,
		})
	}

	if s.enableDebugLogging {
		s.logger.Debug().
			Str("term", term).
			Str("selected", primary.listing.Name).
			Float64("score", primary.score).
			Int("alternatives", len(match.Alternatives)).
			Msg("match selected")
	}

	return match, true
}

// sortCandidates orders candidates by price per unit when the term names a
// quantity and at least one candidate shares its base unit, otherwise by
// absolute price. Candidates in another unit (kg vs L vs un) or without a
// unit sort after the comparable ones, by price.
// The sort is stable so equal keys keep catalog order.
func (s *MatchingService) sortCandidates(query searchQuery, candidates []scoredCandidate) {
	termMeasure, hasUnit := s.parseUnit(query.raw)
	sameUnit := func(c scoredCandidate) bool {
		return hasUnit && c.unitInfo != nil && c.unitInfo.Unit == termMeasure.Unit
	}

	perUnit := slices.ContainsFunc(candidates, sameUnit)

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if perUnit {
			ca, cb := sameUnit(a), sameUnit(b)
			switch {
			case ca && !cb:
				return true
			case !ca && cb:
				return false
			case ca && cb && a.unitInfo.PricePerUnit != b.unitInfo.PricePerUnit:
				return a.unitInfo.PricePerUnit < b.unitInfo.PricePerUnit
			}
		}
		return a.listing.Price < b.listing.Price
	})
}

// calculateMatchScore computes how well a listing name fits the search term:
//
//	0.7 * (term tokens contained in the name / term tokens)
//	+ 0.3 * min(1, term tokens / name tokens)
//
// halved once if the name carries a mismatch token the term does not.
func (s *MatchingService) calculateMatchScore(query searchQuery, productName string) float64 {
	if len(query.tokens) == 0 {
		return 0
	}

	name := normalizeText(productName)
	nameTokens := tokenize(name)
	if len(nameTokens) == 0 {
		return 0
	}

	matched := 0
	for _, token := range query.tokens {
		if strings.Contains(name, token) {
			matched++
		}
	}
	tokenMatchRatio := float64(matched) / float64(len(query.tokens))

	lengthRatio := min(1, float64(len(query.tokens))/float64(len(nameTokens)))

	score := tokenMatchWeight*tokenMatchRatio + lengthRatioWeight*lengthRatio

	if hasCategoryMismatch(words(query.normalized), words(name)) {
		score *= mismatchPenalty
	}

	return score
}

// hasCategoryMismatch reports whether the listing name contains a mismatch
// word that the search term does not. Words are split on punctuation as well
// as whitespace, so "perros/gatos" and "(ketchup)" count while "gato" still
// does not fire on "gatorade".
func hasCategoryMismatch(termWords, nameWords []string) bool {
	for _, word := range nameWords {
		if mismatchTokens[word] && !slices.Contains(termWords, word) {
			return true
		}
	}
	return false
}

// unitInfo resolves the measure of a listing name and derives its price per unit
func (s *MatchingService) unitInfo(name string, price float64) *domain.UnitInfo {
	measure, ok := s.parseUnit(name)
	if !ok {
		return nil
	}
	return domain.NewUnitInfo(measure, price)
}

// parseUnit calls the unit parser, treating a panic as "no unit"
func (s *MatchingService) parseUnit(text string) (measure domain.Measure, ok bool) {
	if s.units == nil {
		return domain.Measure{}, false
	}
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn().Str("text", text).Interface("panic", r).Msg("unit parser failed")
			measure, ok = domain.Measure{}, false
		}
	}()
	return s.units.ParseUnit(text)
}
