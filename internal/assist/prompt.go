package assist

import (
	"fmt"
	"strings"

	"digestsim/internal/registry"
)

// The prompt embeds an expectation schema (key, unit, description) rendered
// from the parameter registries, so the schema can be validated independently
// of the surrounding wording.

// schemaLines renders one `"key": [value, "unit", "explanation"],` line per
// registry entry, for inclusion inside the JSON skeleton shown to the model.
func schemaLines(specs []registry.ParameterSpec) string {
	var b strings.Builder
	for i, s := range specs {
		fmt.Fprintf(&b, "    %q: [value, %q, \"explanation\"]", s.Name, s.Unit)
		if i < len(specs)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// glossaryLines renders one `key: description` line per registry entry.
func glossaryLines(specs []registry.ParameterSpec) string {
	var b strings.Builder
	for _, s := range specs {
		fmt.Fprintf(&b, "%s: %s\n", s.Name, s.Description)
	}
	return b.String()
}

// BuildPrompt assembles the recommendation prompt for a free-text feedstock
// description. With includeKinetics the model is asked for both feedstock
// state variables and kinetic parameters; otherwise feedstock only.
func BuildPrompt(description string, includeKinetics bool) string {
	feedstock := registry.Feedstock()

	var b strings.Builder
	b.WriteString("You are an expert in anaerobic digestion modeling and specifically the ADM1 model.\n\n")

	if includeKinetics {
		kinetics := registry.Kinetics()
		b.WriteString("I need you to recommend:\n")
		b.WriteString("1) Feedstock state variable values for the ADM1 influent.\n")
		b.WriteString("2) Substrate-dependent kinetic parameters (disintegration, hydrolysis, uptake, decay, yields, and fractionation).\n\n")
		b.WriteString("Provide one single JSON object containing both sets of keys, exactly these and no others:\n\n{\n")
		b.WriteString(schemaLines(feedstock))
		b.WriteString(",\n")
		b.WriteString(schemaLines(kinetics))
		b.WriteString("}\n\nIn which:\n")
		b.WriteString(glossaryLines(feedstock))
		b.WriteString(glossaryLines(kinetics))
	} else {
		b.WriteString("I need you to recommend feedstock state variable values for the ADM1 influent.\n\n")
		b.WriteString("Provide your recommendations in JSON format with exactly these keys and no others:\n\n{\n")
		b.WriteString(schemaLines(feedstock))
		b.WriteString("}\n\nIn which:\n")
		b.WriteString(glossaryLines(feedstock))
	}

	b.WriteString("\nUnits of S_IC are kg C/m3, units of S_IN are kg N/m3, units of S_cat and S_an are kg/m3 ")
	b.WriteString("as cations and anions respectively; all remaining state variables are kg COD/m3.\n\n")
	b.WriteString("Explain why each value was chosen (typical ranges for this kind of feedstock). ")
	b.WriteString("If a COD concentration is given in the feedstock description, make sure the COD implied ")
	b.WriteString("by your state variable estimates is consistent with it.\n\n")
	b.WriteString("Here is the feedstock description:\n\n")
	b.WriteString(description)
	b.WriteString("\n\nReturn ONLY this JSON object.\n")

	return b.String()
}
