package domain

// InstitutionSummary is recomputed per region selection, never stored.
type InstitutionSummary struct {
	Institution       string `json:"institution" db:"institution"`
	TotalDeclarations int64  `json:"total_declarations" db:"total_declarations"`
}

// Declaration is one officeholder's income record as projected from the
// unified view. MonthlyNetIncome already carries the annual/12 fallback
// applied in-query, so it is always the effective monthly income.
type Declaration struct {
	GivenName           string  `json:"given_name" db:"given_name"`
	FirstSurname        string  `json:"first_surname" db:"first_surname"`
	SecondSurname       string  `json:"second_surname" db:"second_surname"`
	Institution         string  `json:"institution" db:"institution"`
	Position            string  `json:"position" db:"position"`
	MonthlyNetIncome    float64 `json:"monthly_net_income" db:"monthly_net_income"`
	AnnualRemuneration  float64 `json:"annual_remuneration" db:"annual_remuneration"`
}

func (d *Declaration) FullName() string {
	name := d.GivenName
	if d.FirstSurname != "" {
		name += " " + d.FirstSurname
	}
	if d.SecondSurname != "" {
		name += " " + d.SecondSurname
	}
	return name
}
