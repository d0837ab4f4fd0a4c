package domain

// Plan is a VDS hosting tariff offered in the catalogue.
type Plan struct {
	Name         string   `json:"name"`
	MonthlyPrice int      `json:"monthly_price"`
	Currency     string   `json:"currency"`
	Description  string   `json:"description"`
	Features     []string `json:"features"`
	Popular      bool     `json:"popular"`
}

// Plans is the fixed tariff catalogue.
var Plans = []Plan{
	{
		Name:         "Basic",
		MonthlyPrice: 499,
		Currency:     "RUB",
		Description:  "For personal projects",
		Features:     []string{"1 vCPU", "1 GB RAM", "20 GB NVMe", "1 Gbit/s", "24/7 support"},
	},
	{
		Name:         "Pro",
		MonthlyPrice: 999,
		Currency:     "RUB",
		Description:  "For small and medium business",
		Features:     []string{"2 vCPU", "4 GB RAM", "80 GB NVMe", "1 Gbit/s", "24/7 support", "Free backups"},
		Popular:      true,
	},
	{
		Name:         "Business",
		MonthlyPrice: 1699,
		Currency:     "RUB",
		Description:  "For growing business",
		Features:     []string{"4 vCPU", "8 GB RAM", "120 GB NVMe", "1 Gbit/s", "24/7 support", "Free backups", "SSL certificate"},
	},
	{
		Name:         "Enterprise",
		MonthlyPrice: 2499,
		Currency:     "RUB",
		Description:  "For large projects",
		Features:     []string{"8 vCPU", "16 GB RAM", "240 GB NVMe", "1 Gbit/s", "24/7 support", "Free backups", "Dedicated IP", "Managed service"},
	},
}

// FindPlan looks up a plan by name.
func FindPlan(name string) (*Plan, error) {
	for i := range Plans {
		if Plans[i].Name == name {
			return &Plans[i], nil
		}
	}
	return nil, ErrPlanNotFound
}
