package domain

// Address category tags.
const (
	CategoryHome   = "HOME"
	CategoryOffice = "OFFICE"
	CategoryOther  = "OTHER"
)

// Address is a saved shipping address. The field set is canonical: the
// address-service adapter translates legacy wire names (name/recipient_name,
// zip_code/postal_code) at the boundary so the core never sees the drift.
//
// Within a user's address set at most one address carries IsDefault.
type Address struct {
	ID            string `json:"id"`
	RecipientName string `json:"recipient_name"`
	Phone         string `json:"phone"`
	Email         string `json:"email,omitempty"`
	Line1         string `json:"line1"`
	Line2         string `json:"line2,omitempty"`
	Street        string `json:"street"`
	City          string `json:"city"`
	State         string `json:"state"`
	PostalCode    string `json:"postal_code"`
	Country       string `json:"country"`
	Landmark      string `json:"landmark,omitempty"`
	Category      string `json:"category"`
	IsDefault     bool   `json:"is_default"`
}

// ValidCategories returns the accepted address category tags.
func ValidCategories() []string {
	return []string{CategoryHome, CategoryOffice, CategoryOther}
}

// IsValidCategory checks whether the given tag is an accepted category.
func IsValidCategory(category string) bool {
	for _, c := range ValidCategories() {
		if c == category {
			return true
		}
	}
	return false
}

// DefaultOrFirst returns the id of the default address, falling back to the
// first address when no default exists. Returns "" for an empty set.
func DefaultOrFirst(addresses []Address) string {
	for _, a := range addresses {
		if a.IsDefault {
			return a.ID
		}
	}
	if len(addresses) > 0 {
		return addresses[0].ID
	}
	return ""
}

// FindAddress returns the index of the address with the given id, or -1.
func FindAddress(addresses []Address, id string) int {
	for i := range addresses {
		if addresses[i].ID == id {
			return i
		}
	}
	return -1
}
