package env

import (
	"strings"
)

const Prefix = "SETTINGS_GENERATOR_"

type NamingConvention struct{}

func NewNamingConvention() *NamingConvention {
	return &NamingConvention{}
}

// FlagToEnv converts flag name to ENV variable name,
// for example "fetch-workers" -> "SETTINGS_GENERATOR_FETCH_WORKERS".
func (*NamingConvention) FlagToEnv(flagName string) string {
	if len(flagName) == 0 {
		panic("flag name cannot be empty")
	}

	return Prefix + strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))
}

// Files returns names of the env files, the first found value wins.
func Files() []string {
	return []string{
		".env.local",
		".env",
	}
}
