package layout

import "math"

// Stats aggregates counts and areas over a layout. Areas are mm².
type Stats struct {
	TotalPages    int     `json:"total_pages" bson:"total_pages"`
	TotalCards    int     `json:"total_cards" bson:"total_cards"`
	TotalCardArea float64 `json:"total_card_area" bson:"total_card_area"`
	PageArea      float64 `json:"page_area" bson:"page_area"`
	UsableArea    float64 `json:"usable_area" bson:"usable_area"`
	// Utilization is the card area as a percentage of the usable area of
	// all pages, rounded to two decimals. Overflowing cards can push it
	// past 100.
	Utilization float64 `json:"utilization" bson:"utilization"`
}

// ComputeStats summarizes l under the page geometry of s.
func ComputeStats(l Layout, s Settings) (Stats, error) {
	if err := s.Validate(); err != nil {
		return Stats{}, err
	}
	dims, err := s.PageDimensions()
	if err != nil {
		return Stats{}, err
	}
	uw, uh := dims.Usable(s.Margin)

	st := Stats{
		TotalPages: l.NumPages(),
		PageArea:   dims.Area(),
		UsableArea: uw * uh,
	}
	for _, page := range l.Pages {
		for _, c := range page {
			st.TotalCardArea += c.Area()
			st.TotalCards++
		}
	}
	if st.TotalPages > 0 {
		u := st.TotalCardArea / (st.UsableArea * float64(st.TotalPages)) * 100
		st.Utilization = math.Round(u*100) / 100
	}
	return st, nil
}
