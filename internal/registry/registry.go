// Package registry holds the canonical ADM1 parameter tables: feedstock
// state variables, kinetic parameters, and the reactor seed state. The
// tables are fixed at process start; everything downstream (prompt schema,
// resolver, simulation adapter) is driven by them.
package registry

// ParameterSpec describes one named model parameter. Description doubles as
// the explanation text embedded in the AI prompt schema.
type ParameterSpec struct {
	Name        string
	Unit        string
	Default     float64
	Description string
}

// Molar masses used for the composite feedstock defaults
// (S_IC = 0.04 mol/L of carbon, S_IN = 0.01 mol/L of nitrogen).
const (
	molarMassC = 12.011 // g/mol
	molarMassN = 14.007 // g/mol
)

// feedstockSpecs are the 26 ADM1 influent state variables. Solute species
// with no initial presence default to tiny positive values, never zero:
// several downstream rate expressions divide by these concentrations.
var feedstockSpecs = []ParameterSpec{
	{Name: "S_su", Unit: "kg COD/m3", Default: 0.01, Description: "Monosaccharides"},
	{Name: "S_aa", Unit: "kg COD/m3", Default: 1e-3, Description: "Amino acids"},
	{Name: "S_fa", Unit: "kg COD/m3", Default: 1e-3, Description: "Total long-chain fatty acids"},
	{Name: "S_va", Unit: "kg COD/m3", Default: 1e-3, Description: "Total valerate"},
	{Name: "S_bu", Unit: "kg COD/m3", Default: 1e-3, Description: "Total butyrate"},
	{Name: "S_pro", Unit: "kg COD/m3", Default: 1e-3, Description: "Total propionate"},
	{Name: "S_ac", Unit: "kg COD/m3", Default: 1e-3, Description: "Total acetate"},
	{Name: "S_h2", Unit: "kg COD/m3", Default: 1e-8, Description: "Hydrogen gas"},
	{Name: "S_ch4", Unit: "kg COD/m3", Default: 1e-5, Description: "Methane gas"},
	{Name: "S_IC", Unit: "kg C/m3", Default: 0.04 * molarMassC, Description: "Inorganic carbon"},
	{Name: "S_IN", Unit: "kg N/m3", Default: 0.01 * molarMassN, Description: "Inorganic nitrogen"},
	{Name: "S_I", Unit: "kg COD/m3", Default: 0.02, Description: "Soluble inerts (recalcitrant soluble COD)"},
	{Name: "X_c", Unit: "kg COD/m3", Default: 2.0, Description: "Composites"},
	{Name: "X_ch", Unit: "kg COD/m3", Default: 5.0, Description: "Carbohydrates"},
	{Name: "X_pr", Unit: "kg COD/m3", Default: 20.0, Description: "Proteins"},
	{Name: "X_li", Unit: "kg COD/m3", Default: 5.0, Description: "Lipids"},
	{Name: "X_su", Unit: "kg COD/m3", Default: 1e-2, Description: "Biomass uptaking sugars"},
	{Name: "X_aa", Unit: "kg COD/m3", Default: 1e-2, Description: "Biomass uptaking amino acids"},
	{Name: "X_fa", Unit: "kg COD/m3", Default: 1e-2, Description: "Biomass uptaking long-chain fatty acids"},
	{Name: "X_c4", Unit: "kg COD/m3", Default: 1e-2, Description: "Biomass uptaking c4 fatty acids (valerate and butyrate)"},
	{Name: "X_pro", Unit: "kg COD/m3", Default: 1e-2, Description: "Biomass uptaking propionate"},
	{Name: "X_ac", Unit: "kg COD/m3", Default: 1e-2, Description: "Biomass uptaking acetate"},
	{Name: "X_h2", Unit: "kg COD/m3", Default: 1e-2, Description: "Biomass uptaking hydrogen"},
	{Name: "X_I", Unit: "kg COD/m3", Default: 25.0, Description: "Particulate inerts (recalcitrant particulate COD)"},
	{Name: "S_cat", Unit: "kg/m3", Default: 0.04, Description: "Other cations"},
	{Name: "S_an", Unit: "kg/m3", Default: 0.02, Description: "Other anions"},
}

// kineticSpecs are the substrate-dependent ADM1 kinetic parameters:
// disintegration/hydrolysis rates, uptake rates, decay rates,
// half-saturation and inhibition coefficients, yields, and fractionation.
var kineticSpecs = []ParameterSpec{
	{Name: "q_dis", Unit: "d^-1", Default: 0.5, Description: "Composite disintegration rate constant"},
	{Name: "q_ch_hyd", Unit: "d^-1", Default: 10.0, Description: "Carbohydrate (sugar) hydrolysis rate constant"},
	{Name: "q_pr_hyd", Unit: "d^-1", Default: 10.0, Description: "Protein hydrolysis rate constant"},
	{Name: "q_li_hyd", Unit: "d^-1", Default: 10.0, Description: "Lipid hydrolysis rate constant"},
	{Name: "k_su", Unit: "d^-1", Default: 30.0, Description: "Sugar uptake rate constant"},
	{Name: "k_aa", Unit: "d^-1", Default: 50.0, Description: "Amino acid uptake rate constant"},
	{Name: "k_fa", Unit: "d^-1", Default: 6.0, Description: "LCFA (long-chain fatty acid) uptake rate constant"},
	{Name: "k_c4", Unit: "d^-1", Default: 20.0, Description: "C4 fatty acid (butyrate/valerate) uptake rate constant"},
	{Name: "k_pro", Unit: "d^-1", Default: 13.0, Description: "Propionate uptake rate constant"},
	{Name: "k_ac", Unit: "d^-1", Default: 8.0, Description: "Acetate uptake rate constant"},
	{Name: "k_h2", Unit: "d^-1", Default: 35.0, Description: "Hydrogen uptake rate constant"},
	{Name: "b_su", Unit: "d^-1", Default: 0.02, Description: "Decay rate constant for sugar-degrading biomass"},
	{Name: "b_aa", Unit: "d^-1", Default: 0.02, Description: "Decay rate constant for amino acid-degrading biomass"},
	{Name: "b_fa", Unit: "d^-1", Default: 0.02, Description: "Decay rate constant for LCFA-degrading biomass"},
	{Name: "b_c4", Unit: "d^-1", Default: 0.02, Description: "Decay rate constant for butyrate/valerate-degrading biomass"},
	{Name: "b_pro", Unit: "d^-1", Default: 0.02, Description: "Decay rate constant for propionate-degrading biomass"},
	{Name: "b_ac", Unit: "d^-1", Default: 0.02, Description: "Decay rate constant for acetate-degrading biomass"},
	{Name: "b_h2", Unit: "d^-1", Default: 0.02, Description: "Decay rate constant for hydrogen-degrading biomass"},
	{Name: "K_su", Unit: "kg COD/m3", Default: 0.5, Description: "Half-saturation coefficient for sugar uptake"},
	{Name: "K_aa", Unit: "kg COD/m3", Default: 0.3, Description: "Half-saturation coefficient for amino acid uptake"},
	{Name: "K_fa", Unit: "kg COD/m3", Default: 0.4, Description: "Half-saturation coefficient for LCFA uptake"},
	{Name: "K_c4", Unit: "kg COD/m3", Default: 0.2, Description: "Half-saturation coefficient for butyrate/valerate uptake"},
	{Name: "K_pro", Unit: "kg COD/m3", Default: 0.1, Description: "Half-saturation coefficient for propionate uptake"},
	{Name: "K_ac", Unit: "kg COD/m3", Default: 0.15, Description: "Half-saturation coefficient for acetate uptake"},
	{Name: "K_h2", Unit: "kg COD/m3", Default: 7e-6, Description: "Half-saturation coefficient for hydrogen uptake"},
	{Name: "KI_h2_fa", Unit: "kg COD/m3", Default: 5e-6, Description: "Hydrogen inhibition coefficient for LCFA uptake"},
	{Name: "KI_h2_c4", Unit: "kg COD/m3", Default: 1e-5, Description: "Hydrogen inhibition coefficient for butyrate/valerate uptake"},
	{Name: "KI_h2_pro", Unit: "kg COD/m3", Default: 3.5e-6, Description: "Hydrogen inhibition coefficient for propionate uptake"},
	{Name: "KI_nh3", Unit: "M", Default: 1.8e-3, Description: "Free ammonia inhibition coefficient for acetate uptake"},
	{Name: "KS_IN", Unit: "M", Default: 1e-4, Description: "Inorganic nitrogen inhibition coefficient for substrate uptake"},
	{Name: "Y_su", Unit: "kg COD/kg COD", Default: 0.1, Description: "Biomass yield for sugar uptake"},
	{Name: "Y_aa", Unit: "kg COD/kg COD", Default: 0.08, Description: "Biomass yield for amino acid uptake"},
	{Name: "Y_fa", Unit: "kg COD/kg COD", Default: 0.06, Description: "Biomass yield for LCFA uptake"},
	{Name: "Y_c4", Unit: "kg COD/kg COD", Default: 0.06, Description: "Biomass yield for butyrate/valerate uptake"},
	{Name: "Y_pro", Unit: "kg COD/kg COD", Default: 0.04, Description: "Biomass yield for propionate uptake"},
	{Name: "Y_ac", Unit: "kg COD/kg COD", Default: 0.05, Description: "Biomass yield for acetate uptake"},
	{Name: "Y_h2", Unit: "kg COD/kg COD", Default: 0.06, Description: "Biomass yield for hydrogen uptake"},
	{Name: "f_bu_su", Unit: "kg COD/kg COD", Default: 0.13, Description: "Fraction of sugars converted to butyrate"},
	{Name: "f_pro_su", Unit: "kg COD/kg COD", Default: 0.27, Description: "Fraction of sugars converted to propionate"},
	{Name: "f_ac_su", Unit: "kg COD/kg COD", Default: 0.41, Description: "Fraction of sugars converted to acetate"},
	{Name: "f_va_aa", Unit: "kg COD/kg COD", Default: 0.23, Description: "Fraction of amino acids converted to valerate"},
	{Name: "f_bu_aa", Unit: "kg COD/kg COD", Default: 0.26, Description: "Fraction of amino acids converted to butyrate"},
	{Name: "f_pro_aa", Unit: "kg COD/kg COD", Default: 0.05, Description: "Fraction of amino acids converted to propionate"},
	{Name: "f_ac_aa", Unit: "kg COD/kg COD", Default: 0.40, Description: "Fraction of amino acids converted to acetate"},
	{Name: "f_ac_fa", Unit: "kg COD/kg COD", Default: 0.7, Description: "Fraction of LCFAs converted to acetate"},
	{Name: "f_pro_va", Unit: "kg COD/kg COD", Default: 0.54, Description: "Fraction of valerate converted to propionate"},
	{Name: "f_ac_va", Unit: "kg COD/kg COD", Default: 0.31, Description: "Fraction of valerate converted to acetate"},
	{Name: "f_ac_bu", Unit: "kg COD/kg COD", Default: 0.8, Description: "Fraction of butyrate converted to acetate"},
	{Name: "f_ac_pro", Unit: "kg COD/kg COD", Default: 0.57, Description: "Fraction of propionate converted to acetate"},
}

// Feedstock returns the influent state-variable registry. The returned slice
// is a copy; callers may not mutate the canonical tables.
func Feedstock() []ParameterSpec {
	out := make([]ParameterSpec, len(feedstockSpecs))
	copy(out, feedstockSpecs)
	return out
}

// Kinetics returns the kinetic-parameter registry as a copy.
func Kinetics() []ParameterSpec {
	out := make([]ParameterSpec, len(kineticSpecs))
	copy(out, kineticSpecs)
	return out
}

// FeedstockNames reports the fixed feedstock key set.
func FeedstockNames() map[string]bool {
	return nameSet(feedstockSpecs)
}

// KineticNames reports the fixed kinetic key set.
func KineticNames() map[string]bool {
	return nameSet(kineticSpecs)
}

func nameSet(specs []ParameterSpec) map[string]bool {
	set := make(map[string]bool, len(specs))
	for _, s := range specs {
		set[s.Name] = true
	}
	return set
}
