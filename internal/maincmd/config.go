package maincmd

import "github.com/caarlos0/env/v6"

// RuntimeConfig holds the environment-tunable knobs for the GC and VM,
// read once per run. Using caarlos0/env keeps this declarative the same
// way the example corpus's mainer.Parser declares CLI flags via struct
// tags, just for environment variables instead.
type RuntimeConfig struct {
	GCInitialBytes int     `env:"HOLO_GC_INITIAL_BYTES" envDefault:"1048576"`
	GCGrowthFactor float64 `env:"HOLO_GC_GROWTH_FACTOR" envDefault:"2.0"`
	// StackMax bounds the number of live values the VM's value stack may
	// hold at once; pushing past it is a runtime "Stack overflow." error.
	StackMax int `env:"HOLO_STACK_MAX" envDefault:"256"`
}

// LoadRuntimeConfig reads RuntimeConfig from the process environment,
// falling back to its struct defaults for anything unset.
func LoadRuntimeConfig() (RuntimeConfig, error) {
	var cfg RuntimeConfig
	if err := env.Parse(&cfg); err != nil {
		return RuntimeConfig{}, err
	}
	return cfg, nil
}
