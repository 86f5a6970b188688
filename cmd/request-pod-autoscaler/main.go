/*
Copyright 2025 The Request Pod Autoscaler Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Request Pod Autoscaler is a controller that scales a Kubernetes workload on its observed HTTP request rate rather
// than CPU or memory. It runs a fixed interval control loop that lists the ready pods of the scale target, queries a
// Prometheus compatible traffic layer for each pod's requests per second, reduces the samples into a utilization
// ratio against a configured per pod target and applies a proportional scaling decision through the Kubernetes scale
// API. The program handles parsing user configuration to specify polling intervals, replica bounds, stabilization
// windows etc. and exposes a simple HTTP REST API for viewing metrics, triggering evaluations and inspecting scaling
// events. The Request Pod Autoscaler must be run inside a Kubernetes cluster.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/golang/glog"
	promapi "github.com/prometheus/client_golang/api"
	promv1 "github.com/prometheus/client_golang/api/prometheus/v1"
	"github.com/request-pod-autoscaler/request-pod-autoscaler/internal/aggregate"
	apiv1 "github.com/request-pod-autoscaler/request-pod-autoscaler/internal/api/v1"
	"github.com/request-pod-autoscaler/request-pod-autoscaler/internal/collector"
	"github.com/request-pod-autoscaler/request-pod-autoscaler/internal/confload"
	"github.com/request-pod-autoscaler/request-pod-autoscaler/internal/controller"
	"github.com/request-pod-autoscaler/request-pod-autoscaler/internal/decide"
	"github.com/request-pod-autoscaler/request-pod-autoscaler/internal/events"
	"github.com/request-pod-autoscaler/request-pod-autoscaler/internal/podclient"
	"github.com/request-pod-autoscaler/request-pod-autoscaler/internal/ratesource"
	"github.com/request-pod-autoscaler/request-pod-autoscaler/internal/reconcile"
	"k8s.io/client-go/discovery"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/restmapper"
	k8sscale "k8s.io/client-go/scale"
)

const configEnvName = "configPath"

const defaultConfig = "/config.yaml"

func main() {
	// Read in environment variables
	configPath, exists := os.LookupEnv(configEnvName)
	if !exists {
		configPath = defaultConfig
	}
	configEnvs := readEnvVars()

	// Read in config file, no file means defaults and env vars only
	configFileData, err := os.ReadFile(configPath)
	if err != nil && !os.IsNotExist(err) {
		glog.Fatalf("Fail to read configuration file: %s", err)
	}

	// Load Request Pod Autoscaler config, an invalid configuration refuses to start
	loadedConfig, err := confload.Load(configFileData, configEnvs)
	if err != nil {
		glog.Fatalf("Fail to parse configuration: %s", err)
	}

	// Set up logging
	err = flag.Set("v", strconv.FormatInt(int64(loadedConfig.LogVerbosity), 10))
	if err != nil {
		glog.Fatalf("Fail to set log verbosity: %s", err)
	}
	flag.Parse()

	// Create the in-cluster Kubernetes config
	clusterConfig, err := rest.InClusterConfig()
	if err != nil {
		glog.Fatalf("Fail to create in-cluster Kubernetes config: %s", err)
	}

	// Create the Kubernetes clientset
	clientset, err := kubernetes.NewForConfig(clusterConfig)
	if err != nil {
		glog.Fatalf("Fail to create Kubernetes clientset: %s", err)
	}

	// Set up a client for managing the scale subresource of arbitrary scalable resources
	discoveryClient, err := discovery.NewDiscoveryClientForConfig(clusterConfig)
	if err != nil {
		glog.Fatalf("Fail to create Kubernetes discovery client: %s", err)
	}
	groupResources, err := restmapper.GetAPIGroupResources(discoveryClient)
	if err != nil {
		glog.Fatalf("Fail to get Kubernetes API group resources: %s", err)
	}
	scaleClient, err := k8sscale.NewForConfig(
		clusterConfig,
		restmapper.NewDiscoveryRESTMapper(groupResources),
		dynamic.LegacyAPIPathResolverFunc,
		k8sscale.NewDiscoveryScaleKindResolver(discoveryClient),
	)
	if err != nil {
		glog.Fatalf("Fail to create Kubernetes scale client: %s", err)
	}

	// Set up the traffic layer client for querying per pod request rates
	promClient, err := promapi.NewClient(promapi.Config{
		Address: loadedConfig.PrometheusAddress,
	})
	if err != nil {
		glog.Fatalf("Fail to create Prometheus client: %s", err)
	}

	// Set up the scaling event stream
	eventStream := events.NewStream(events.DefaultCapacity)

	// Set up the control loop pipeline
	gatherer := &collector.Gatherer{
		PodLister: &podclient.OnDemandReadyLister{
			Clientset: clientset,
		},
		RateSource: &ratesource.PrometheusRateSource{
			API:    promv1.NewAPI(promClient),
			Metric: loadedConfig.RPSMetric,
		},
		Config: loadedConfig,
	}
	decider := &decide.ProportionalDecider{
		Config: loadedConfig,
	}
	scaler := &reconcile.Scale{
		Scaler:   scaleClient,
		Recorder: eventStream,
	}
	autoscaler := controller.New(gatherer, &aggregate.MeanAggregator{}, decider, scaler, loadedConfig)

	// Set up shutdown channel, which will listen for UNIX shutdown commands
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup

	// Delay start of the control loop to allow it to be aligned to an expected time
	delayTime := loadedConfig.StartTime - (time.Now().UTC().UnixNano()/int64(time.Millisecond))%loadedConfig.StartTime
	delayStartTimer := time.NewTimer(time.Duration(delayTime) * time.Millisecond)
	glog.V(0).Infof("Waiting %d milliseconds before starting the control loop", delayTime)

	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case <-ctx.Done():
			return
		case <-delayStartTimer.C:
		}
		autoscaler.Run(ctx)
	}()

	// Set up API
	var srv *http.Server
	if loadedConfig.APIConfig.Enabled {
		api := &apiv1.API{
			Router:        chi.NewRouter(),
			Config:        loadedConfig,
			MetricsGetter: autoscaler,
			Evaluator:     autoscaler,
			EventLister:   eventStream,
		}
		api.Routes()
		srv = &http.Server{
			Addr:    fmt.Sprintf("%s:%d", loadedConfig.APIConfig.Host, loadedConfig.APIConfig.Port),
			Handler: api.Router,
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			glog.V(0).Infof("Starting API on %s", srv.Addr)
			var err error
			if loadedConfig.APIConfig.UseHTTPS {
				err = srv.ListenAndServeTLS(loadedConfig.APIConfig.CertFile, loadedConfig.APIConfig.KeyFile)
			} else {
				err = srv.ListenAndServe()
			}
			if err != nil && err != http.ErrServerClosed {
				glog.Errorf("API server failed: %v", err)
			}
		}()
	}

	// Wait for a shutdown signal, then stop the loop between ticks and drain the API
	<-shutdown
	glog.V(0).Infoln("Shutting down...")
	cancel()
	if srv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			glog.Errorf("Failed to shut down API server: %v", err)
		}
	}
	wg.Wait()
	glog.Flush()
}

// readEnvVars loads in all relevant environment variables if they exist, putting them in a key-value map
func readEnvVars() map[string]string {
	configEnvsNames := []string{
		"scaleTargetRef",
		"namespace",
		"labelSelector",
		"targetRPSPerPod",
		"minReplicas",
		"maxReplicas",
		"interval",
		"sampleWindow",
		"podTimeout",
		"downscaleStabilization",
		"upscaleStabilization",
		"prometheusAddress",
		"rpsMetric",
		"startTime",
		"logVerbosity",
		"apiConfig",
	}
	configEnvs := map[string]string{}
	for _, envName := range configEnvsNames {
		value, exists := os.LookupEnv(envName)
		if exists {
			configEnvs[envName] = value
		}
	}
	return configEnvs
}
