// Copyright 2024 The Orbit Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/getsentry/sentry-go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/orbitsocial/orbit/internal/caching"
	"github.com/orbitsocial/orbit/notifserver"
	"github.com/orbitsocial/orbit/setup/config"
	"github.com/orbitsocial/orbit/setup/jetstream"
	"github.com/orbitsocial/orbit/setup/process"
	"github.com/orbitsocial/orbit/streamserver"
)

var version = "0.1.0"

var (
	configPath      = flag.String("config", "orbit.yaml", "The path to the config file")
	warmCache       = flag.Bool("warm-cache", false, "Run all cache loaders at startup")
	metricsBindAddr = flag.String("metrics-bind-address", ":9090", "The listen address for Prometheus metrics")
	showVersion     = flag.Bool("version", false, "Show the version and exit")
)

func main() {
	flag.Parse()
	if *showVersion {
		fmt.Println(version)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.WithError(err).Fatalf("Failed to load config from %q", *configPath)
	}

	if cfg.Global.Sentry.Enabled {
		logrus.Info("Setting up Sentry for debugging")
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Global.Sentry.DSN,
			Environment: cfg.Global.Sentry.Environment,
			Release:     "orbit@" + version,
		}); err != nil {
			logrus.WithError(err).Panic("failed to start Sentry")
		}
	}

	processCtx := process.NewProcessContext()

	cacheClient, err := setupCache(cfg)
	if err != nil {
		logrus.WithError(err).Panic("failed to set up cache")
	}

	js, natsClient := jetstream.Prepare(&cfg.Global.JetStream)

	streamAPI := streamserver.NewInternalAPI(processCtx, &cfg.StreamServer, cacheClient, js)
	notifserver.NewInternalAPI(processCtx, &cfg.NotifServer, cacheClient, js, streamAPI)

	if *warmCache || cfg.StreamServer.WarmCacheOnStartup {
		logrus.Info("Warming caches")
		if err := streamAPI.WarmCaches(processCtx.Context()); err != nil {
			logrus.WithError(err).Error("Cache warm-up failed")
			processCtx.Degraded()
		}
	}

	if cfg.Global.Metrics.Enabled {
		go func() {
			logrus.WithField("address", *metricsBindAddr).Info("Starting metrics listener")
			if err := http.ListenAndServe(*metricsBindAddr, promhttp.Handler()); err != nil {
				logrus.WithError(err).Error("Metrics listener failed")
			}
		}()
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs

	logrus.Info("Shutdown signal received")
	processCtx.ShutdownServer()
	processCtx.WaitForComponentsToFinish()
	natsClient.Close()
	logrus.Info("Exiting")
}

// setupCache picks the distributed Redis client when addresses are
// configured, or the in-process cache for single node deployments.
func setupCache(cfg *config.Orbit) (caching.Cache, error) {
	if len(cfg.Global.Cache.Addresses) > 0 {
		logrus.WithField("addresses", cfg.Global.Cache.Addresses).Info("Connecting to Redis cache")
		return caching.NewRedisCache(cfg.Global.Cache.Addresses, cfg.Global.Cache.Password), nil
	}
	logrus.Info("Using in-process cache")
	return caching.NewMemoryCache(cfg.Global.Cache.MaxEntries)
}
