package model

// LoanOfficer holds the contact block shown alongside a tenant's tools.
type LoanOfficer struct {
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
	Phone string `json:"phone" yaml:"phone"`
	NMLS  string `json:"nmls" yaml:"nmls"`
}

// Tenant is one client namespace: branding fields, a default FICO used
// when a scenario omits one, and an optional client-specific rate sheet.
type Tenant struct {
	Slug        string      `json:"slug" yaml:"slug"`
	ClientName  string      `json:"client_name" yaml:"client_name"`
	ClientFico  int         `json:"client_fico" yaml:"client_fico"`
	RateSheet   *RateSheet  `json:"rate_sheet,omitempty" yaml:"rate_sheet,omitempty"`
	LoanOfficer LoanOfficer `json:"loan_officer" yaml:"loan_officer"`
}
