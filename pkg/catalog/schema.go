// pkg/catalog/schema.go
package catalog

// FieldCatalog lists every controlled vocabulary the questionnaire offers.
// The validator's whitelist rules are built from it, so a catalog edit is a
// product decision, not a code change.
type FieldCatalog struct {
	Version string         `json:"version"`
	Options CatalogOptions `json:"options"`
}

type CatalogOptions struct {
	Industries      []string `json:"industries"`
	Channels        []string `json:"channels"`
	Tones           []string `json:"tones"`
	Budgets         []string `json:"budgets"`
	TimeCommitments []string `json:"timeCommitments"`
	BusinessGoals   []string `json:"businessGoals"`
	Resources       []string `json:"resources"`
}
