package quiz

// Persona is the ordinal maturity label derived from the overall score.
// Tier 0 is the lowest.
type Persona struct {
	Name  string `json:"name"`
	Blurb string `json:"blurb"`
	Tier  int    `json:"tier"`
}

var (
	PersonaResponder  = Persona{Name: "Responder", Blurb: "Living in callbacks; stop the bleeding with triage + kits.", Tier: 0}
	PersonaStabiliser = Persona{Name: "Stabiliser", Blurb: "Basics in place; unlock remote triage + ETA SLAs.", Tier: 1}
	PersonaOptimizer  = Persona{Name: "Optimizer", Blurb: "Solid foundation; push FTF >85% and kit coverage.", Tier: 2}
	PersonaPredictor  = Persona{Name: "Predictor", Blurb: "Strong ops; scale predictive + continuous coaching.", Tier: 3}
)

// personaBands is evaluated high to low; lower bounds are inclusive.
var personaBands = []struct {
	min     float64
	persona Persona
}{
	{85, PersonaPredictor},
	{70, PersonaOptimizer},
	{40, PersonaStabiliser},
}

// Classify maps an overall score to its persona.
func Classify(score float64) Persona {
	for _, b := range personaBands {
		if score >= b.min {
			return b.persona
		}
	}
	return PersonaResponder
}

// Personas lists every tier from lowest to highest.
func Personas() []Persona {
	return []Persona{PersonaResponder, PersonaStabiliser, PersonaOptimizer, PersonaPredictor}
}
