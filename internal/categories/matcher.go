package categories

import (
	"strings"
	"unicode/utf8"
)

// Weights tunes keyword scoring. A containing keyword adds
// Contains*len(keyword)/len(text); prefix and suffix matches add flat bonuses.
// Detections at or below Threshold are discarded.
type Weights struct {
	Contains  float64
	Prefix    float64
	Suffix    float64
	Threshold float64
}

// DefaultWeights returns the production scoring constants.
func DefaultWeights() Weights {
	return Weights{Contains: 0.7, Prefix: 0.2, Suffix: 0.1, Threshold: 0.3}
}

// Detection is the outcome of AutoDetect. SubcategoryID is empty for a
// category-level match.
type Detection struct {
	CategoryID    string  `json:"categoryId"`
	SubcategoryID string  `json:"subcategoryId,omitempty"`
	Confidence    float64 `json:"confidence"`
}

// Matcher assigns categories to transaction titles. It is safe for
// concurrent use.
type Matcher struct {
	table   *Table
	weights Weights
}

func NewMatcher(table *Table, weights Weights) *Matcher {
	if table == nil {
		table = Default()
	}
	return &Matcher{table: table, weights: weights}
}

// Table returns the reference table the matcher scores against.
func (m *Matcher) Table() *Table {
	return m.table
}

// AutoDetect returns the best scoring category/subcategory for title, or
// nil when nothing scores above the threshold.
//
// Categories are visited in table order and a later candidate only replaces
// the current best with a strictly higher score, except that a subcategory
// replaces its own parent category on an equal score.
func (m *Matcher) AutoDetect(title string) *Detection {
	text := strings.ToLower(strings.TrimSpace(title))
	if text == "" {
		return nil
	}

	var best *Detection
	for _, c := range m.table.ordered {
		score := m.Score(text, c.Keywords)
		if score > 0 && (best == nil || score > best.Confidence) {
			best = &Detection{CategoryID: c.ID, Confidence: score}
		}
		for _, s := range c.Subcategories {
			score := m.Score(text, s.Keywords)
			if score <= 0 {
				continue
			}
			parentTie := best != nil && score == best.Confidence &&
				best.CategoryID == c.ID && best.SubcategoryID == ""
			if best == nil || score > best.Confidence || parentTie {
				best = &Detection{CategoryID: c.ID, SubcategoryID: s.ID, Confidence: score}
			}
		}
	}

	if best == nil || best.Confidence <= m.weights.Threshold {
		return nil
	}
	return best
}

// Score rates normalized text against a keyword list in [0, 1]. An exact
// keyword match short-circuits to 1.
func (m *Matcher) Score(text string, keywords []string) float64 {
	textLen := utf8.RuneCountInString(text)
	if textLen == 0 {
		return 0
	}

	var score float64
	matches := 0
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if text == kw {
			return 1
		}
		if strings.Contains(text, kw) {
			matches++
			score += m.weights.Contains * float64(utf8.RuneCountInString(kw)) / float64(textLen)
		}
		if strings.HasPrefix(text, kw) {
			score += m.weights.Prefix
		}
		if strings.HasSuffix(text, kw) {
			score += m.weights.Suffix
		}
	}

	if matches == 0 {
		return 0
	}
	return min(score/float64(matches), 1)
}
