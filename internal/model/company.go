package model

// CompanyData is the loosely-typed company profile read by the hydration adapter
// and by the cash-flow projection fallback. Every field is optional; the engine
// only reads fields that are present.
type CompanyData struct {
	RevenueModel      string             `json:"revenueModel,omitempty" bson:"revenueModel,omitempty"` // "subscription" or "transactional"
	AvgOrderValue     *float64           `json:"avgOrderValue,omitempty" bson:"avgOrderValue,omitempty"`
	ARPU              *float64           `json:"arpu,omitempty" bson:"arpu,omitempty"`
	AvgMonthlyOrders  *float64           `json:"avgMonthlyOrders,omitempty" bson:"avgMonthlyOrders,omitempty"`
	ActiveSubscribers *float64           `json:"activeSubscribers,omitempty" bson:"activeSubscribers,omitempty"`
	SalesCycleDays    *float64           `json:"salesCycleDays,omitempty" bson:"salesCycleDays,omitempty"`
	ChurnRatePct      *float64           `json:"churnRatePct,omitempty" bson:"churnRatePct,omitempty"`
	CogsPct           *float64           `json:"cogsPct,omitempty" bson:"cogsPct,omitempty"`
	CogsPerUnit       *float64           `json:"cogsPerUnit,omitempty" bson:"cogsPerUnit,omitempty"`
	Headcount         *float64           `json:"headcount,omitempty" bson:"headcount,omitempty"`
	FTEByFunction     map[string]float64 `json:"fteByFunction,omitempty" bson:"fteByFunction,omitempty"`
	PayrollMonthly    *float64           `json:"payrollMonthly,omitempty" bson:"payrollMonthly,omitempty"`
	OpexMonthly       *float64           `json:"opexMonthly,omitempty" bson:"opexMonthly,omitempty"`
	DSODays           *float64           `json:"dsoDays,omitempty" bson:"dsoDays,omitempty"`
	DPODays           *float64           `json:"dpoDays,omitempty" bson:"dpoDays,omitempty"`
	InventoryDays     *float64           `json:"inventoryDays,omitempty" bson:"inventoryDays,omitempty"`
}

// Clone returns a deep copy of the profile.
func (c CompanyData) Clone() CompanyData {
	out := c
	out.AvgOrderValue = cloneFloat(c.AvgOrderValue)
	out.ARPU = cloneFloat(c.ARPU)
	out.AvgMonthlyOrders = cloneFloat(c.AvgMonthlyOrders)
	out.ActiveSubscribers = cloneFloat(c.ActiveSubscribers)
	out.SalesCycleDays = cloneFloat(c.SalesCycleDays)
	out.ChurnRatePct = cloneFloat(c.ChurnRatePct)
	out.CogsPct = cloneFloat(c.CogsPct)
	out.CogsPerUnit = cloneFloat(c.CogsPerUnit)
	out.Headcount = cloneFloat(c.Headcount)
	out.PayrollMonthly = cloneFloat(c.PayrollMonthly)
	out.OpexMonthly = cloneFloat(c.OpexMonthly)
	out.DSODays = cloneFloat(c.DSODays)
	out.DPODays = cloneFloat(c.DPODays)
	out.InventoryDays = cloneFloat(c.InventoryDays)
	if c.FTEByFunction != nil {
		out.FTEByFunction = make(map[string]float64, len(c.FTEByFunction))
		for k, v := range c.FTEByFunction {
			out.FTEByFunction[k] = v
		}
	}
	return out
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

// Float is a convenience constructor for optional numeric fields.
func Float(v float64) *float64 {
	return &v
}
