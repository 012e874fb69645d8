package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Component returns the global logger tagged with cmp=name. Every jtl
// package that logs takes its logger from here.
func Component(name string) zerolog.Logger {
	return log.With().Str("cmp", name).Logger()
}
