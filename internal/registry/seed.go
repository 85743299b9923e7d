package registry

// seedState is the reactor's initial liquid-phase composition. It is a
// steady-state-like operating point for a mesophilic digester, used only to
// give the integrator a numerically stable starting point. It is independent
// of the chosen feedstock and is NOT the feedstock default table.
var seedState = map[string]float64{
	"S_su":  0.012,
	"S_aa":  0.005,
	"S_fa":  0.099,
	"S_va":  0.012,
	"S_bu":  0.013,
	"S_pro": 0.016,
	"S_ac":  0.20,
	"S_h2":  2.3e-7,
	"S_ch4": 0.055,
	"S_IC":  1.80,
	"S_IN":  1.30,
	"S_I":   3.30,
	"X_c":   0.31,
	"X_ch":  0.028,
	"X_pr":  0.10,
	"X_li":  0.029,
	"X_su":  0.42,
	"X_aa":  1.18,
	"X_fa":  0.24,
	"X_c4":  0.43,
	"X_pro": 0.14,
	"X_ac":  0.76,
	"X_h2":  0.32,
	"X_I":   25.6,
	"S_cat": 0.04,
	"S_an":  0.02,
}

// SeedState returns a copy of the hard-coded reactor seed concentrations.
func SeedState() map[string]float64 {
	out := make(map[string]float64, len(seedState))
	for k, v := range seedState {
		out[k] = v
	}
	return out
}
