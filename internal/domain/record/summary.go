package record

// Summary holds the counts shown on the metric tiles and embedded in the
// narrative prompt.
type Summary struct {
	Total    int `json:"total"`
	Resolved int `json:"resolved"`
	Pending  int `json:"pending"`
}

// Summarize counts exact sentinel matches only. Resolved+Pending equals
// Total only when every record holds one of the two sentinels.
func Summarize(set Set) Summary {
	s := Summary{Total: len(set.Records)}
	for _, r := range set.Records {
		switch r.Recovered {
		case RecoveryYes:
			s.Resolved++
		case RecoveryNo:
			s.Pending++
		}
	}
	return s
}

// Percent returns part as a percentage of Total, 0 when Total is 0.
func (s Summary) Percent(part int) float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(part) * 100 / float64(s.Total)
}
