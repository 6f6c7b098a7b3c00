package loops

import (
	"fmt"

	"github.com/looplab/tarjan"
	"github.com/markusressel/pid2go/internal/configuration"
)

// Order sorts the given loop configurations so that every loop comes after the
// loop its reference depends on. A reference cycle results in an error.
func Order(configs []configuration.LoopConfig) ([]configuration.LoopConfig, error) {
	byId := map[string]configuration.LoopConfig{}
	graph := make(map[interface{}][]interface{})
	for _, config := range configs {
		byId[config.ID] = config
		var edges []interface{}
		if len(config.Reference.Loop) > 0 {
			edges = append(edges, config.Reference.Loop)
		}
		graph[config.ID] = edges
	}

	// strongly connected components are emitted dependencies first
	var result []configuration.LoopConfig
	for _, items := range tarjan.Connections(graph) {
		if len(items) > 1 {
			return nil, fmt.Errorf("you have created a loop reference cycle: %v", items)
		}
		id := items[0].(string)
		config, ok := byId[id]
		if !ok {
			continue
		}
		if config.Reference.Loop == id {
			return nil, fmt.Errorf("loop %s references itself", id)
		}
		result = append(result, config)
	}
	return result, nil
}

// CreateLoops creates all given loops in dependency order and registers them in LoopMap
func CreateLoops(configs []configuration.LoopConfig, defaultTimeStep float64) ([]*Loop, error) {
	ordered, err := Order(configs)
	if err != nil {
		return nil, err
	}

	var result []*Loop
	for _, config := range ordered {
		loop, err := NewLoop(config, defaultTimeStep)
		if err != nil {
			return nil, err
		}
		LoopMap.Set(config.ID, loop)
		result = append(result, loop)
	}
	return result, nil
}
