package domain

// ProjectRecord is one campaign: backend metadata merged with on-chain state.
// Amounts are decimal strings of smallest-unit integers. FundsRaised may exceed FundingGoal.
type ProjectRecord struct {
	ProjectID      string   `json:"projectId"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Images         []string `json:"images"`
	Location       string   `json:"location"`
	Category       string   `json:"category"`
	Admin          string   `json:"admin"`
	Creator        string   `json:"creator"`
	FundingGoal    string   `json:"fundingGoal"`
	FundsRaised    string   `json:"fundsRaised"`
	Status         uint8    `json:"status"`
	DonorCount     int      `json:"donorCount"`
	DonationCount  int      `json:"donationCount"`
	CreatedAt      string   `json:"createdAt"`
	UpdatedAt      string   `json:"updatedAt"`
	ProjectAddress string   `json:"projectAddress,omitempty"`
}

// DonationRecord is a donor's cumulative contribution to one project.
// Currency is a label: the chain only reports a total per donor.
type DonationRecord struct {
	Donor    string `json:"donor"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}
