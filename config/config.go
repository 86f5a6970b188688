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

// Package config defines the configuration options for the Request Pod Autoscaler, with a set of defaults that can be
// overridden by provided YAML and env vars.
package config

import (
	autoscaling "k8s.io/api/autoscaling/v2"
)

const (
	// APIRunType marks a pipeline run as triggered by an API request, the results will be used to scale
	APIRunType = "api"
	// APIDryRunRunType marks a pipeline run as triggered by an API request in dry run mode, the results will only be
	// viewed and never used to scale
	APIDryRunRunType = "api_dry_run"
	// ControllerRunType marks a pipeline run as triggered by the controller loop on its fixed interval
	ControllerRunType = "controller"
)

const (
	// DefaultInterval is the default time in milliseconds between controller ticks
	DefaultInterval = 15000
	// DefaultNamespace is the default namespace the scale target is looked up in
	DefaultNamespace = "default"
	// DefaultMinReplicas is the default minimum replica count
	DefaultMinReplicas = 1
	// DefaultMaxReplicas is the default maximum replica count
	DefaultMaxReplicas = 10
	// DefaultSampleWindow is the default window in seconds request rates are observed over
	DefaultSampleWindow = 15
	// DefaultPodTimeout is the default timeout in seconds for a single pod's request rate query
	DefaultPodTimeout = 5
	// DefaultDownscaleStabilization is the default time in seconds that must elapse after the last scale event
	// before a scale down is permitted
	DefaultDownscaleStabilization = 300
	// DefaultUpscaleStabilization is the default time in seconds that must elapse after the last scale event
	// before a scale up is permitted, zero so bursts are absorbed immediately
	DefaultUpscaleStabilization = 0
	// DefaultRPSMetric is the default Prometheus counter that request rates are derived from
	DefaultRPSMetric = "http_requests_total"
	// DefaultPrometheusAddress is the default address of the Prometheus instance queried for request rates
	DefaultPrometheusAddress = "http://prometheus.monitoring.svc.cluster.local:9090"
	// DefaultStartTime is the default start time alignment in milliseconds
	DefaultStartTime = 1
	// DefaultLogVerbosity is the default log verbosity
	DefaultLogVerbosity = 0
)

const (
	// DefaultAPIEnabled is the default value for the API being enabled
	DefaultAPIEnabled = true
	// DefaultUseHTTPS is the default value for the API using HTTPS
	DefaultUseHTTPS = false
	// DefaultHost is the default address for the API
	DefaultHost = "0.0.0.0"
	// DefaultPort is the default port for the API
	DefaultPort = 5000
	// DefaultCertFile is the default cert file for the API
	DefaultCertFile = ""
	// DefaultKeyFile is the default private key file for the API
	DefaultKeyFile = ""
)

// Config is the configuration options for the RPA
type Config struct {
	ScaleTargetRef         *autoscaling.CrossVersionObjectReference `json:"scaleTargetRef"`
	Namespace              string                                   `json:"namespace"`
	LabelSelector          string                                   `json:"labelSelector"`
	TargetRPSPerPod        float64                                  `json:"targetRPSPerPod"`
	MinReplicas            int32                                    `json:"minReplicas"`
	MaxReplicas            int32                                    `json:"maxReplicas"`
	Interval               int                                      `json:"interval"`
	SampleWindow           int                                      `json:"sampleWindow"`
	PodTimeout             int                                      `json:"podTimeout"`
	DownscaleStabilization int                                      `json:"downscaleStabilization"`
	UpscaleStabilization   int                                      `json:"upscaleStabilization"`
	PrometheusAddress      string                                   `json:"prometheusAddress"`
	RPSMetric              string                                   `json:"rpsMetric"`
	StartTime              int64                                    `json:"startTime"`
	LogVerbosity           int32                                    `json:"logVerbosity"`
	APIConfig              *APIConfig                               `json:"apiConfig"`
}

// APIConfig is configuration options specifically for the API exposed by the RPA
type APIConfig struct {
	Enabled  bool   `json:"enabled"`
	UseHTTPS bool   `json:"useHTTPS"`
	Port     int    `json:"port"`
	Host     string `json:"host"`
	CertFile string `json:"certFile"`
	KeyFile  string `json:"keyFile"`
}

// NewConfig returns a config set up with all default values
func NewConfig() *Config {
	return &Config{
		Namespace:              DefaultNamespace,
		MinReplicas:            DefaultMinReplicas,
		MaxReplicas:            DefaultMaxReplicas,
		Interval:               DefaultInterval,
		SampleWindow:           DefaultSampleWindow,
		PodTimeout:             DefaultPodTimeout,
		DownscaleStabilization: DefaultDownscaleStabilization,
		UpscaleStabilization:   DefaultUpscaleStabilization,
		PrometheusAddress:      DefaultPrometheusAddress,
		RPSMetric:              DefaultRPSMetric,
		StartTime:              DefaultStartTime,
		LogVerbosity:           DefaultLogVerbosity,
		APIConfig: &APIConfig{
			Enabled:  DefaultAPIEnabled,
			UseHTTPS: DefaultUseHTTPS,
			Port:     DefaultPort,
			Host:     DefaultHost,
			CertFile: DefaultCertFile,
			KeyFile:  DefaultKeyFile,
		},
	}
}
