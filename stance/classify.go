// Package stance buckets editorial stance signals and aggregates them into
// the three-segment distribution rendered by the spectrum bars.
package stance

import "strings"

type Bucket string

const (
	Supportive Bucket = "supportive"
	Factual    Bucket = "factual"
	Critical   Bucket = "critical"
)

// Buckets lists the buckets in display order.
var Buckets = []Bucket{Supportive, Factual, Critical}

var (
	positiveLabels   = []string{"POSITIVE", "SUPPORTIVE", "PRO"}
	negativeLabels   = []string{"NEGATIVE", "CRITICAL", "CON"}
	positiveKeywords = []string{"긍정", "지지", "환영", "기대", "성장", "우호"}
	negativeKeywords = []string{"부정", "비판", "반대", "우려", "경고", "규탄"}
)

// Classify maps a raw stance label to its bucket. Enum labels are matched
// case-insensitively after trimming; keywords are matched as substrings of
// the raw label. Positive rules are checked before negative ones, so a label
// carrying both kinds of keyword is Supportive. Anything else, including an
// empty label, is Factual.
func Classify(label string) Bucket {
	upper := strings.ToUpper(strings.TrimSpace(label))

	if oneOf(upper, positiveLabels) || containsAny(label, positiveKeywords) {
		return Supportive
	}
	if oneOf(upper, negativeLabels) || containsAny(label, negativeKeywords) {
		return Critical
	}
	return Factual
}

// WireLabel is the label used by endpoints that emit per-article stance
// objects.
func (b Bucket) WireLabel() string {
	switch b {
	case Supportive:
		return "POSITIVE"
	case Critical:
		return "NEGATIVE"
	default:
		return "NEUTRAL"
	}
}

func oneOf(s string, set []string) bool {
	for _, v := range set {
		if s == v {
			return true
		}
	}
	return false
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
