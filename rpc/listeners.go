package rpc

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/wrpcd/wrpcd/config"
	"github.com/wrpcd/wrpcd/pkg/netaddr"
	"github.com/wrpcd/wrpcd/rpc/wrpc"
)

const meterName = "github.com/wrpcd/wrpcd/rpc"

// Listener is a wRPC listener whose address has been resolved
type Listener struct {
	Encoding   wrpc.Encoding
	Configured wrpc.NetAddress
	Address    netaddr.ContextualNetAddress
}

// Listeners resolves the listen addresses of the configured wRPC encodings
type Listeners struct {
	config *config.Config
	meter  metric.Meter
	logger *zap.SugaredLogger
}

// NewListeners returns Listeners
func NewListeners(logger *zap.SugaredLogger, conf *config.Config) *Listeners {
	return &Listeners{
		config: conf,
		meter:  otel.Meter(meterName),
		logger: logger,
	}
}

// Resolve returns one Listener per enabled encoding, in wrpc.Encodings order.
// Disabled encodings are skipped.
func (l *Listeners) Resolve(ctx context.Context) []Listener {
	c, err := l.meter.Int64Counter("wrpc_listen_address_resolutions")
	if err != nil {
		l.logger.Warnf("failed to create wrpc_listen_address_resolutions counter: %s", err)
	}

	var listeners []Listener
	for _, encoding := range wrpc.Encodings() {
		value := l.config.WRPC.Listen(encoding)
		if !value.IsSet() {
			l.logger.Debugf("wrpc %s listener disabled", encoding)
			continue
		}

		address := wrpc.ToAddress(value.NetAddress, l.config.Network, encoding)
		l.logger.Infof("wrpc %s listener on %s (%s, configured as %q)", encoding, address, l.config.Network, value)

		if c != nil {
			c.Add(ctx, 1, metric.WithAttributes(
				attribute.String("encoding", encoding.String()),
				attribute.String("network", l.config.Network.String()),
				attribute.String("kind", kind(value.NetAddress)),
			))
		}

		listeners = append(listeners, Listener{
			Encoding:   encoding,
			Configured: value.NetAddress,
			Address:    address,
		})
	}

	return listeners
}

func kind(a wrpc.NetAddress) string {
	switch a.(type) {
	case wrpc.DefaultNetAddress:
		return "default"
	case wrpc.PublicNetAddress:
		return "public"
	default:
		return "custom"
	}
}
