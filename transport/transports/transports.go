// Package transports imports all built-in transports for auto-registration.
// Import this package to have all transports registered with the default
// registry, including the ones that do not self-register.
package transports

import (
	// Import all transports for side-effect registration
	_ "github.com/wrenware/crawlbus/transport/aws"
	_ "github.com/wrenware/crawlbus/transport/channel"
	_ "github.com/wrenware/crawlbus/transport/http"
	_ "github.com/wrenware/crawlbus/transport/kafka"

	"github.com/wrenware/crawlbus/transport/nats"
	"github.com/wrenware/crawlbus/transport/rabbitmq"
)

func init() {
	// These transports register explicitly so that importing their package
	// alone does not mutate the default registry.
	nats.Register()
	rabbitmq.Register()
}
