package entity

// SourcifyHealth is the body returned by the mirror's health endpoint.
type SourcifyHealth struct {
	Status string `json:"status"`
}

// SourcifyMatch is one element of the check-by-addresses response.
type SourcifyMatch struct {
	Address  string `json:"address"`
	Status   string `json:"status"` // "perfect", "partial" or "false"
	ChainIDs []struct {
		ChainID string `json:"chainId"`
		Status  string `json:"status"`
	} `json:"chainIds,omitempty"`
}

// Verified reports whether the contract has a full or partial source match.
func (m SourcifyMatch) Verified() bool {
	if m.Status == "perfect" || m.Status == "partial" {
		return true
	}
	for _, c := range m.ChainIDs {
		if c.Status == "perfect" || c.Status == "partial" {
			return true
		}
	}
	return false
}
