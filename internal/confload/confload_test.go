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

package confload_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/request-pod-autoscaler/request-pod-autoscaler/config"
	"github.com/request-pod-autoscaler/request-pod-autoscaler/internal/confload"
	"github.com/request-pod-autoscaler/request-pod-autoscaler/rpatest"
	autoscalingv2 "k8s.io/api/autoscaling/v2"
)

func TestLoad(t *testing.T) {
	var tests = []struct {
		description string
		expected    *config.Config
		expectedErr error
		yaml        []byte
		envVars     map[string]string
	}{
		{
			"Invalid YAML",
			nil,
			errors.New("error unmarshaling JSON: while decoding JSON: json: cannot unmarshal string into Go value of type config.Config"),
			[]byte("invalid yaml"),
			nil,
		},
		{
			"Invalid int environment variable",
			nil,
			errors.New(`strconv.ParseInt: parsing "invalid": invalid syntax`),
			nil,
			map[string]string{
				"interval": "invalid",
			},
		},
		{
			"Invalid structured environment variable",
			nil,
			errors.New("error unmarshaling JSON: while decoding JSON: json: cannot unmarshal string into Go value of type v2.CrossVersionObjectReference"),
			nil,
			map[string]string{
				"scaleTargetRef": "invalid",
			},
		},
		{
			"No scale target ref provided",
			nil,
			errors.New("invalid configuration: no scaleTargetRef provided"),
			[]byte("targetRPSPerPod: 5"),
			nil,
		},
		{
			"Zero per pod target",
			nil,
			errors.New("invalid configuration: targetRPSPerPod must be greater than 0, is 0"),
			[]byte(`
scaleTargetRef:
  apiVersion: apps/v1
  kind: deployment
  name: test
`),
			nil,
		},
		{
			"Minimum replicas below 1",
			nil,
			errors.New("invalid configuration: minReplicas must be at least 1, is 0"),
			[]byte(`
scaleTargetRef:
  apiVersion: apps/v1
  kind: deployment
  name: test
targetRPSPerPod: 5
minReplicas: 0
`),
			nil,
		},
		{
			"Inverted replica bounds",
			nil,
			errors.New("invalid configuration: maxReplicas (2) must not be less than minReplicas (5)"),
			[]byte(`
scaleTargetRef:
  apiVersion: apps/v1
  kind: deployment
  name: test
targetRPSPerPod: 5
minReplicas: 5
maxReplicas: 2
`),
			nil,
		},
		{
			"Non-positive interval",
			nil,
			errors.New("invalid configuration: interval must be greater than 0, is -100"),
			[]byte(`
scaleTargetRef:
  apiVersion: apps/v1
  kind: deployment
  name: test
targetRPSPerPod: 5
interval: -100
`),
			nil,
		},
		{
			"Non-positive sample window",
			nil,
			errors.New("invalid configuration: sampleWindow must be greater than 0, is 0"),
			[]byte(`
scaleTargetRef:
  apiVersion: apps/v1
  kind: deployment
  name: test
targetRPSPerPod: 5
sampleWindow: 0
`),
			nil,
		},
		{
			"Negative downscale stabilization",
			nil,
			errors.New("invalid configuration: downscaleStabilization must not be negative, is -1"),
			[]byte(`
scaleTargetRef:
  apiVersion: apps/v1
  kind: deployment
  name: test
targetRPSPerPod: 5
downscaleStabilization: -1
`),
			nil,
		},
		{
			"Unparseable label selector",
			nil,
			errors.New("invalid configuration: failed to parse labelSelector: unable to parse requirement: found '!', expected: identifier"),
			[]byte(`
scaleTargetRef:
  apiVersion: apps/v1
  kind: deployment
  name: test
targetRPSPerPod: 5
labelSelector: "!!invalid"
`),
			nil,
		},
		{
			"Minimal YAML, defaults elsewhere",
			&config.Config{
				ScaleTargetRef: &autoscalingv2.CrossVersionObjectReference{
					APIVersion: "apps/v1",
					Kind:       "deployment",
					Name:       "test",
				},
				Namespace:              "default",
				TargetRPSPerPod:        6,
				MinReplicas:            1,
				MaxReplicas:            10,
				Interval:               15000,
				SampleWindow:           15,
				PodTimeout:             5,
				DownscaleStabilization: 300,
				UpscaleStabilization:   0,
				PrometheusAddress:      "http://prometheus.monitoring.svc.cluster.local:9090",
				RPSMetric:              "http_requests_total",
				StartTime:              1,
				LogVerbosity:           0,
				APIConfig: &config.APIConfig{
					Enabled:  true,
					UseHTTPS: false,
					Port:     5000,
					Host:     "0.0.0.0",
					CertFile: "",
					KeyFile:  "",
				},
			},
			nil,
			[]byte(`
scaleTargetRef:
  apiVersion: apps/v1
  kind: deployment
  name: test
targetRPSPerPod: 6
`),
			nil,
		},
		{
			"YAML overriding defaults",
			&config.Config{
				ScaleTargetRef: &autoscalingv2.CrossVersionObjectReference{
					APIVersion: "apps/v1",
					Kind:       "deployment",
					Name:       "test",
				},
				Namespace:              "production",
				LabelSelector:          "app=storefront",
				TargetRPSPerPod:        8.5,
				MinReplicas:            2,
				MaxReplicas:            20,
				Interval:               30000,
				SampleWindow:           60,
				PodTimeout:             10,
				DownscaleStabilization: 600,
				UpscaleStabilization:   30,
				PrometheusAddress:      "http://prometheus.example.com:9090",
				RPSMetric:              "istio_requests_total",
				StartTime:              15000,
				LogVerbosity:           3,
				APIConfig: &config.APIConfig{
					Enabled:  false,
					UseHTTPS: false,
					Port:     5000,
					Host:     "0.0.0.0",
					CertFile: "",
					KeyFile:  "",
				},
			},
			nil,
			[]byte(`
scaleTargetRef:
  apiVersion: apps/v1
  kind: deployment
  name: test
namespace: production
labelSelector: app=storefront
targetRPSPerPod: 8.5
minReplicas: 2
maxReplicas: 20
interval: 30000
sampleWindow: 60
podTimeout: 10
downscaleStabilization: 600
upscaleStabilization: 30
prometheusAddress: http://prometheus.example.com:9090
rpsMetric: istio_requests_total
startTime: 15000
logVerbosity: 3
apiConfig:
  enabled: false
  useHTTPS: false
  port: 5000
  host: 0.0.0.0
`),
			nil,
		},
		{
			"Environment variables overriding YAML and defaults",
			&config.Config{
				ScaleTargetRef: &autoscalingv2.CrossVersionObjectReference{
					APIVersion: "apps/v1",
					Kind:       "statefulset",
					Name:       "overridden",
				},
				Namespace:              "staging",
				TargetRPSPerPod:        12.5,
				MinReplicas:            3,
				MaxReplicas:            10,
				Interval:               5000,
				SampleWindow:           15,
				PodTimeout:             5,
				DownscaleStabilization: 300,
				UpscaleStabilization:   0,
				PrometheusAddress:      "http://prometheus.monitoring.svc.cluster.local:9090",
				RPSMetric:              "http_requests_total",
				StartTime:              1,
				LogVerbosity:           0,
				APIConfig: &config.APIConfig{
					Enabled:  true,
					UseHTTPS: false,
					Port:     8080,
					Host:     "127.0.0.1",
					CertFile: "",
					KeyFile:  "",
				},
			},
			nil,
			[]byte(`
scaleTargetRef:
  apiVersion: apps/v1
  kind: deployment
  name: test
namespace: default
targetRPSPerPod: 6
`),
			map[string]string{
				"scaleTargetRef":  `{"apiVersion": "apps/v1", "kind": "statefulset", "name": "overridden"}`,
				"namespace":       "staging",
				"targetRPSPerPod": "12.5",
				"minReplicas":     "3",
				"interval":        "5000",
				"apiConfig":       `{"enabled": true, "useHTTPS": false, "port": 8080, "host": "127.0.0.1"}`,
			},
		},
	}

	for _, test := range tests {
		t.Run(test.description, func(t *testing.T) {
			result, err := confload.Load(test.yaml, test.envVars)
			if !cmp.Equal(test.expectedErr, err, rpatest.EquateErrors()) {
				t.Errorf("error mismatch (-want +got):\n%s", cmp.Diff(test.expectedErr, err, rpatest.EquateErrors()))
				return
			}
			if !cmp.Equal(test.expected, result) {
				t.Errorf("config mismatch (-want +got):\n%s", cmp.Diff(test.expected, result))
			}
		})
	}
}
