package casement

import (
	"github.com/1broseidon/casement/backend"
	"github.com/1broseidon/casement/internal/config"
)

type options struct {
	backend               backend.Backend
	kind                  backend.Kind
	configPath            string
	exitOnLastWindowClose *bool
	coordinates           *config.CoordinateSpace
}

// Option configures a loop at construction time. Options override
// values from the policy config file.
type Option func(*options)

// WithBackend supplies an already-constructed backend instance. It
// takes precedence over WithKind.
func WithBackend(b backend.Backend) Option {
	return func(o *options) { o.backend = b }
}

// WithKind instantiates the registered backend of the given kind. The
// choice of kind — environment variables, fallback chains — is the
// caller's policy.
func WithKind(kind backend.Kind) Option {
	return func(o *options) { o.kind = kind }
}

// WithConfigPath loads the policy config from path instead of the
// standard location.
func WithConfigPath(path string) Option {
	return func(o *options) { o.configPath = path }
}

// WithExitOnLastWindowClose makes the loop request exit once the last
// live window is destroyed.
func WithExitOnLastWindowClose(v bool) Option {
	return func(o *options) { o.exitOnLastWindowClose = &v }
}

// WithPhysicalCoordinates reports positions and sizes in physical
// pixels instead of the default scale-adjusted logical space.
func WithPhysicalCoordinates() Option {
	return func(o *options) {
		c := config.CoordinatesPhysical
		o.coordinates = &c
	}
}
