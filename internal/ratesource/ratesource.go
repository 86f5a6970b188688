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

// Package ratesource abstracts the traffic layer that observes per pod request rates, implemented against the
// Prometheus HTTP API. The request rate of a pod is the per second rate of increase of a request counter over the
// sample window.
package ratesource

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/golang/glog"
	promv1 "github.com/prometheus/client_golang/api/prometheus/v1"
	"github.com/prometheus/common/model"
)

// RateSource provides per pod observed request rates over a sampling window
type RateSource interface {
	RequestRate(ctx context.Context, namespace string, pod string, window time.Duration) (float64, error)
}

// PrometheusRateSource queries a Prometheus instance for the request rate of a single pod
type PrometheusRateSource struct {
	API    promv1.API
	Metric string
}

// RequestRate returns the pod's observed requests per second over the window provided. An absent or unparseable
// series is an error, the pod's sample is expected to be omitted by the caller
func (p *PrometheusRateSource) RequestRate(ctx context.Context, namespace string, pod string, window time.Duration) (float64, error) {
	query := fmt.Sprintf("sum(rate(%s{namespace=%q,pod=%q}[%ds]))", p.Metric, namespace, pod, int(window.Seconds()))
	glog.V(4).Infof("Querying request rate with query '%s'", query)

	result, warnings, err := p.API.Query(ctx, query, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to query request rate for pod '%s': %w", pod, err)
	}
	for _, warning := range warnings {
		glog.Warningf("Warning querying request rate for pod '%s': %s", pod, warning)
	}

	vector, ok := result.(model.Vector)
	if !ok {
		return 0, fmt.Errorf("unexpected result type '%s' querying request rate for pod '%s'", result.Type(), pod)
	}
	if len(vector) == 0 {
		return 0, fmt.Errorf("no request rate series found for pod '%s'", pod)
	}

	rate := float64(vector[0].Value)
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate < 0 {
		return 0, fmt.Errorf("invalid request rate %f for pod '%s'", rate, pod)
	}
	return rate, nil
}
