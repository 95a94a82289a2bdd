package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"

	"railway/gateway"
	"railway/reseller"
	"railway/tracing"
)

type options struct {
	HTTPAddr       string `long:"http-addr" env:"HTTP_ADDR" default:":8081" description:"HTTP listen address"`
	ProviderURL    string `long:"provider-url" env:"PROVIDER_URL" required:"true" description:"Base URL of the booking authority"`
	JaegerEndpoint string `long:"jaeger-endpoint" env:"JAEGER_ENDPOINT" description:"Jaeger collector endpoint"`
}

func main() {
	logrus.SetLevel(logrus.InfoLevel)

	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	traceProvider := tracing.ConfigureTraceProvider(opts.JaegerEndpoint, "reseller")
	defer func() {
		if err := traceProvider.Shutdown(context.Background()); err != nil {
			logrus.WithError(err).Error("failed to shutdown trace provider")
		}
	}()

	providerClient := gateway.NewProviderClient(opts.ProviderURL)

	server := reseller.NewServer(opts.HTTPAddr, providerClient)
	if err := server.Run(ctx); err != nil {
		logrus.WithError(err).Fatal("server stopped with error")
	}
}
