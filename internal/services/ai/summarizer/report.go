package summarizer

import (
	"encoding/json"
	"strings"
)

// noInformation marks keyword fields the model could not fill in.
const noInformation = "정보 없음"

// Keywords is the structured customer profile extracted from the chat.
type Keywords struct {
	EstimatedAge        string   `json:"estimated_age"`
	InterestedProducts  []string `json:"interested_products"`
	PurchasePurpose     string   `json:"purchase_purpose"`
	PreferredCategories []string `json:"preferred_categories"`
	Budget              string   `json:"budget"`
}

// Report is the normalized analysis result.
type Report struct {
	Keywords          Keywords `json:"keywords"`
	Summary           string   `json:"summary"`
	MarketingStrategy []string `json:"marketing_strategy"`
}

// ParseReport recovers a Report from raw provider text.
//
// It tries a strict JSON parse first, then the substring between the first
// "{" and the last "}" to strip explanatory text the model wrapped around
// the payload. When both fail it returns a minimal report carrying the raw
// text as the summary; this terminal path never fails.
func ParseReport(raw string) Report {
	var report Report
	if err := json.Unmarshal([]byte(raw), &report); err == nil {
		return report
	}

	first := strings.Index(raw, "{")
	last := strings.LastIndex(raw, "}")
	if first != -1 && last > first {
		var extracted Report
		if err := json.Unmarshal([]byte(raw[first:last+1]), &extracted); err == nil {
			return extracted
		}
	}

	return Report{
		Keywords: Keywords{
			EstimatedAge:        noInformation,
			InterestedProducts:  []string{},
			PurchasePurpose:     noInformation,
			PreferredCategories: []string{},
			Budget:              noInformation,
		},
		Summary:           strings.TrimSpace(raw),
		MarketingStrategy: []string{},
	}
}

// KeywordList flattens the keyword fields for dashboard display: age,
// purpose, budget, then interested products, then preferred categories,
// skipping empty entries.
func (r Report) KeywordList() []string {
	fields := make([]string, 0, 3+len(r.Keywords.InterestedProducts)+len(r.Keywords.PreferredCategories))
	for _, field := range []string{r.Keywords.EstimatedAge, r.Keywords.PurchasePurpose, r.Keywords.Budget} {
		if strings.TrimSpace(field) != "" {
			fields = append(fields, field)
		}
	}
	for _, product := range r.Keywords.InterestedProducts {
		if strings.TrimSpace(product) != "" {
			fields = append(fields, product)
		}
	}
	for _, category := range r.Keywords.PreferredCategories {
		if strings.TrimSpace(category) != "" {
			fields = append(fields, category)
		}
	}
	return fields
}

// DebugLine joins the flattened keyword fields into one human-readable
// string for the dashboard's debug panel.
func (r Report) DebugLine() string {
	return strings.Join(r.KeywordList(), " / ")
}
