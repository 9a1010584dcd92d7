package locate

import "github.com/milantony05/smart-kissan/internal/geo"

// Backend names accepted in configuration.
const (
	BackendIPAPI  = "ipapi"
	BackendStatic = "static"
	BackendNone   = "none"
)

// New builds the configured provider. A nil Provider (with nil error) means
// the geolocation capability is absent; callers must check before invoking.
func New(backend string, static geo.Coordinate) Provider {
	switch backend {
	case BackendIPAPI:
		return NewIPAPIProvider()
	case BackendStatic:
		return &StaticProvider{Position: static}
	default:
		return nil
	}
}
