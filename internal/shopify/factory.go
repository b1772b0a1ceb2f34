package shopify

import "go.uber.org/zap"

// DefaultGatewayFactory returns a factory producing REST clients pinned to
// the given Admin API version.
func DefaultGatewayFactory(apiVersion string, logger *zap.Logger) GatewayFactory {
	return func(shopDomain, accessToken string) Gateway {
		return NewClient(shopDomain, accessToken, apiVersion, logger)
	}
}
