package system

import (
	"fmt"
	"log"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/particles/particles"
	"github.com/milk9111/particles/prefabs"
)

// velocityDispatchScript calls the script's velocity function; the result is
// read back from __result.
const velocityDispatchScript = `
__result = velocity(__engine)
`

type velocityScript struct {
	path     string
	compiled *tengo.Compiled
	rng      particles.Random
	clock    *Clock
	logger   *log.Logger
	failed   bool
}

// CompileVelocityScript loads a tengo script defining velocity(engine) and
// returns it as a particle velocity callback. The engine map exposes time
// (seconds) and rand() in [0, 1).
func CompileVelocityScript(path string, rng particles.Random, clock *Clock, logger *log.Logger) (func() particles.Vector, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("velocity script: empty path")
	}
	src, err := prefabs.LoadScript(path)
	if err != nil {
		return nil, fmt.Errorf("velocity script %s: %w", path, err)
	}
	return compileVelocitySource(path, src, rng, clock, logger)
}

func compileVelocitySource(path string, src []byte, rng particles.Random, clock *Clock, logger *log.Logger) (func() particles.Vector, error) {
	if rng == nil {
		rng = particles.NewRandom(1)
	}
	if logger == nil {
		logger = log.Default()
	}

	full := string(src) + "\n" + velocityDispatchScript
	script := tengo.NewScript([]byte(full))
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__result", nil)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("velocity script %s: %w", path, err)
	}

	vs := &velocityScript{path: path, compiled: compiled, rng: rng, clock: clock, logger: logger}
	// surface runtime errors at load time rather than on the first particle
	if _, err := vs.eval(); err != nil {
		return nil, fmt.Errorf("velocity script %s: %w", path, err)
	}
	return vs.velocity, nil
}

func (vs *velocityScript) engine() *tengo.ImmutableMap {
	return &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"time": &tengo.Float{Value: vs.clock.Now()},
		"rand": &tengo.UserFunction{Name: "rand", Value: func(args ...tengo.Object) (tengo.Object, error) {
			return &tengo.Float{Value: vs.rng.Float01()}, nil
		}},
	}}
}

func (vs *velocityScript) eval() (particles.Vector, error) {
	if err := vs.compiled.Set("__engine", vs.engine()); err != nil {
		return particles.Vector{}, err
	}
	if err := vs.compiled.Run(); err != nil {
		return particles.Vector{}, err
	}
	return objectAsVector(vs.compiled.Get("__result").Object())
}

// velocity logs the first failure and then returns the zero vector.
func (vs *velocityScript) velocity() particles.Vector {
	v, err := vs.eval()
	if err != nil {
		if !vs.failed {
			vs.logger.Printf("velocity script %s: %v", vs.path, err)
			vs.failed = true
		}
		return particles.Vector{}
	}
	return v
}

func objectAsVector(obj tengo.Object) (particles.Vector, error) {
	var items []tengo.Object
	switch o := obj.(type) {
	case *tengo.Array:
		items = o.Value
	case *tengo.ImmutableArray:
		items = o.Value
	case *tengo.Map:
		return particles.Vector{X: objectAsFloat(o.Value["x"]), Y: objectAsFloat(o.Value["y"])}, nil
	case *tengo.ImmutableMap:
		return particles.Vector{X: objectAsFloat(o.Value["x"]), Y: objectAsFloat(o.Value["y"])}, nil
	default:
		return particles.Vector{}, fmt.Errorf("velocity must return [x, y], got %s", obj.TypeName())
	}
	if len(items) != 2 {
		return particles.Vector{}, fmt.Errorf("velocity must return 2 values, got %d", len(items))
	}
	return particles.Vector{X: objectAsFloat(items[0]), Y: objectAsFloat(items[1])}, nil
}

func objectAsFloat(obj tengo.Object) float64 {
	switch o := obj.(type) {
	case *tengo.Float:
		return o.Value
	case *tengo.Int:
		return float64(o.Value)
	}
	return 0
}
