package params

// Param is a constraint parameter that may be given as a time series.
type Param string

const (
	R             Param = "r"
	RScale        Param = "r_scale"
	REff          Param = "r_eff"
	RBEff         Param = "rb_eff"
	ForceR        Param = "force_r"
	EEff          Param = "e_eff"
	EProd         Param = "e_prod"
	ECon          Param = "e_con"
	ECapMinUse    Param = "e_cap_min_use"
	SLoss         Param = "s_loss"
	UseSTime      Param = "use_s_time"
	RBStartupOnly Param = "rb_startup_only"
)

// Params lists every constraint parameter.
var Params = []Param{
	R, RScale, REff, RBEff, ForceR, EEff, EProd, ECon,
	ECapMinUse, SLoss, UseSTime, RBStartupOnly,
}

// CostParam is a unit cost, resolved per cost class.
type CostParam string

const (
	CostSCap    CostParam = "s_cap"
	CostRCap    CostParam = "r_cap"
	CostRArea   CostParam = "r_area"
	CostECap    CostParam = "e_cap"
	CostRBCap   CostParam = "rb_cap"
	CostOMFrac  CostParam = "om_frac"
	CostOMFixed CostParam = "om_fixed"
	CostOMVar   CostParam = "om_var"
	CostOMFuel  CostParam = "om_fuel"
	CostOMRB    CostParam = "om_rb"
	CostExport  CostParam = "export"
)

// CostParams lists every cost parameter.
var CostParams = []CostParam{
	CostSCap, CostRCap, CostRArea, CostECap, CostRBCap,
	CostOMFrac, CostOMFixed, CostOMVar, CostOMFuel, CostOMRB, CostExport,
}

// Capacity names a capacity variable family that carries a construction cost.
type Capacity string

const (
	SCap  Capacity = "s_cap"
	RCap  Capacity = "r_cap"
	RArea Capacity = "r_area"
	ECap  Capacity = "e_cap"
	RBCap Capacity = "rb_cap"
)

// CostParam returns the unit construction cost parameter of a capacity.
func (c Capacity) CostParam() CostParam {
	return CostParam(c)
}
