package configuration

type PlantConfig struct {
	ID     string                 `json:"id"`
	Type   string                 `json:"type"`
	Params map[string]interface{} `json:"params"`
}

const (
	PlantTypeFirstOrder = "first-order"
	PlantTypeIntegrator = "integrator"
	PlantTypeSpringMass = "spring-mass"
)

var PlantTypes = []string{PlantTypeFirstOrder, PlantTypeIntegrator, PlantTypeSpringMass}
