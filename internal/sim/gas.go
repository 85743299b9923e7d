package sim

// Molar masses, g/mol.
const (
	MolarMassCH4 = 16.04
	MolarMassCO2 = 44.01
	MolarMassH2  = 2.016
)

// Gas densities at standard conditions, kg/m3. Used to convert volumetric
// flows to mass rates in exports.
const (
	DensityCH4 = 0.716
	DensityCO2 = 1.977
	DensityH2  = 0.0899
)

// GasComposition is the headspace composition at one sample: the two major
// components as volume percentages and hydrogen in ppmv.
type GasComposition struct {
	MethanePct float64
	CO2Pct     float64
	H2PPMV     float64
}

// CompositionAt derives the composition from volumetric component flows. A
// non-positive total means no gas is being produced; the composition is then
// all zeros rather than a division artifact.
func CompositionAt(ch4, co2, h2 float64) GasComposition {
	total := ch4 + co2 + h2
	if total <= 0 {
		return GasComposition{}
	}
	return GasComposition{
		MethanePct: 100 * ch4 / total,
		CO2Pct:     100 * co2 / total,
		H2PPMV:     1e6 * h2 / total,
	}
}
