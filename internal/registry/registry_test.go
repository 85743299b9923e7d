package registry

import (
	"testing"
)

func TestRegistrySizes(t *testing.T) {
	if got := len(Feedstock()); got != 26 {
		t.Errorf("feedstock registry has %d entries, want 26", got)
	}
	if got := len(Kinetics()); got != 49 {
		t.Errorf("kinetics registry has %d entries, want 49", got)
	}
}

func TestRegistryNamesUnique(t *testing.T) {
	for _, specs := range [][]ParameterSpec{Feedstock(), Kinetics()} {
		seen := make(map[string]bool)
		for _, s := range specs {
			if seen[s.Name] {
				t.Errorf("duplicate name %q", s.Name)
			}
			seen[s.Name] = true
		}
	}
}

func TestFeedstockDefaultsStrictlyPositive(t *testing.T) {
	// Near-zero-not-zero policy: solute species with no initial presence use
	// tiny positive defaults, never exact zero.
	for _, s := range Feedstock() {
		if s.Default <= 0 {
			t.Errorf("%s default = %g, want > 0", s.Name, s.Default)
		}
		if s.Unit == "" || s.Description == "" {
			t.Errorf("%s missing unit or description", s.Name)
		}
	}
}

func TestCompositeDefaults(t *testing.T) {
	specs := Feedstock()
	byName := make(map[string]ParameterSpec, len(specs))
	for _, s := range specs {
		byName[s.Name] = s
	}
	if got, want := byName["S_IC"].Default, 0.04*12.011; got != want {
		t.Errorf("S_IC default = %g, want %g", got, want)
	}
	if got, want := byName["S_IN"].Default, 0.01*14.007; got != want {
		t.Errorf("S_IN default = %g, want %g", got, want)
	}
	if got := byName["S_h2"].Default; got != 1e-8 {
		t.Errorf("S_h2 default = %g, want 1e-8", got)
	}
}

func TestSeedStateCoversFeedstockComponents(t *testing.T) {
	seed := SeedState()
	for _, s := range Feedstock() {
		if _, ok := seed[s.Name]; !ok {
			t.Errorf("seed state missing component %s", s.Name)
		}
	}
	// Copy semantics: mutating the returned map must not leak.
	seed["S_su"] = -1
	if SeedState()["S_su"] == -1 {
		t.Error("SeedState returned shared storage")
	}
}
