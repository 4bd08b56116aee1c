package models

// BrandInput carries every questionnaire field as submitted by the user.
// Values are raw until the validator produces a sanitized copy; only the
// sanitized copy may be embedded into prompts or documents.
type BrandInput struct {
	BrandName        string   `json:"brandName"`
	Industry         string   `json:"industry"`
	Website          string   `json:"website,omitempty"`
	TargetAudience   string   `json:"targetAudience"`
	BusinessGoals    []string `json:"businessGoals"`
	ActiveChannels   []string `json:"activeChannels,omitempty"`
	PrimaryChannels  []string `json:"primaryChannels,omitempty"`
	BrandTone        string   `json:"brandTone,omitempty"`
	MonthlyBudget    string   `json:"monthlyBudget,omitempty"`
	TimeCommitment   string   `json:"timeCommitment,omitempty"`
	Resources        []string `json:"resources,omitempty"`
	UniqueValueProp  string   `json:"uniqueValueProp,omitempty"`
	ProductsServices string   `json:"productsServices,omitempty"`
	Competitors      string   `json:"competitors,omitempty"`
	PastSuccesses    string   `json:"pastSuccesses,omitempty"`
	AdditionalNotes  string   `json:"additionalNotes,omitempty"`
}
