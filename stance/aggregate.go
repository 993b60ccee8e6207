package stance

// DefaultMinVisiblePercent is the smallest width a non-empty segment is
// given on a spectrum bar.
const DefaultMinVisiblePercent = 3.0

// UnknownCountry keys signals that carry no country code.
const UnknownCountry = "Unknown"

// Signal is one stance observation.
type Signal struct {
	Label       string
	CountryCode string
}

type Counts struct {
	Supportive int `json:"supportive"`
	Factual    int `json:"factual"`
	Critical   int `json:"critical"`
}

func (c Counts) Total() int {
	return c.Supportive + c.Factual + c.Critical
}

// Add returns the bucket-wise sum of c and o.
func (c Counts) Add(o Counts) Counts {
	return Counts{
		Supportive: c.Supportive + o.Supportive,
		Factual:    c.Factual + o.Factual,
		Critical:   c.Critical + o.Critical,
	}
}

func (c *Counts) inc(b Bucket) {
	switch b {
	case Supportive:
		c.Supportive++
	case Critical:
		c.Critical++
	default:
		c.Factual++
	}
}

func (c Counts) get(b Bucket) int {
	switch b {
	case Supportive:
		return c.Supportive
	case Critical:
		return c.Critical
	default:
		return c.Factual
	}
}

// Shares holds one percentage (0-100) per bucket.
type Shares struct {
	Supportive float64 `json:"supportive"`
	Factual    float64 `json:"factual"`
	Critical   float64 `json:"critical"`
}

func (s *Shares) set(b Bucket, v float64) {
	switch b {
	case Supportive:
		s.Supportive = v
	case Critical:
		s.Critical = v
	default:
		s.Factual = v
	}
}

// Distribution is the aggregate of a set of signals. Percentages are the
// true proportions; DisplayWidths apply the minimum-visibility rule and are
// renormalized to 100.
type Distribution struct {
	Counts
	Total         int    `json:"total"`
	Percentages   Shares `json:"percentages"`
	DisplayWidths Shares `json:"display_widths"`
}

// CountryDistribution is one partition of AggregateByCountry.
type CountryDistribution struct {
	CountryCode  string       `json:"country_code"`
	Distribution Distribution `json:"distribution"`
}

// Aggregate classifies every signal and returns the resulting distribution.
func Aggregate(signals []Signal, minVisiblePercent float64) Distribution {
	var c Counts
	for _, s := range signals {
		c.inc(Classify(s.Label))
	}
	return FromCounts(c, minVisiblePercent)
}

// FromCounts builds a distribution from already bucketed counts. Negative
// counts are treated as zero.
func FromCounts(c Counts, minVisiblePercent float64) Distribution {
	c = Counts{
		Supportive: max(c.Supportive, 0),
		Factual:    max(c.Factual, 0),
		Critical:   max(c.Critical, 0),
	}
	d := Distribution{Counts: c, Total: c.Total()}
	if d.Total == 0 {
		return d
	}

	visible := make(map[Bucket]float64, len(Buckets))
	var visibleSum float64
	for _, b := range Buckets {
		n := c.get(b)
		pct := 100 * float64(n) / float64(d.Total)
		d.Percentages.set(b, pct)
		if n > 0 {
			visible[b] = max(pct, minVisiblePercent)
			visibleSum += visible[b]
		}
	}
	for _, b := range Buckets {
		d.DisplayWidths.set(b, 100*visible[b]/visibleSum)
	}
	return d
}

// AggregateByCountry partitions signals by country code and aggregates each
// partition. Partitions are returned in order of first occurrence.
func AggregateByCountry(signals []Signal, minVisiblePercent float64) []CountryDistribution {
	var order []string
	groups := make(map[string][]Signal)
	for _, s := range signals {
		key := s.CountryCode
		if key == "" {
			key = UnknownCountry
		}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], s)
	}

	out := make([]CountryDistribution, 0, len(order))
	for _, key := range order {
		out = append(out, CountryDistribution{
			CountryCode:  key,
			Distribution: Aggregate(groups[key], minVisiblePercent),
		})
	}
	return out
}
