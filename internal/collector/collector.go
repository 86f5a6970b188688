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

// Package collector provides functionality for gathering per pod request rate samples, listing the ready pods of the
// scale target and querying the traffic layer for each one concurrently. A pod whose query fails is omitted from the
// results rather than aborting collection, the failure is returned as a warning for the caller to surface.
package collector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/request-pod-autoscaler/request-pod-autoscaler/config"
	"github.com/request-pod-autoscaler/request-pod-autoscaler/internal/podclient"
	"github.com/request-pod-autoscaler/request-pod-autoscaler/internal/ratesource"
	"github.com/request-pod-autoscaler/request-pod-autoscaler/metric"
	"golang.org/x/sync/errgroup"
	"k8s.io/apimachinery/pkg/labels"
)

// SampleGatherer provides methods for gathering request rate samples for the scale target's ready pods
type SampleGatherer interface {
	Gather(ctx context.Context) ([]metric.Sample, []error, error)
}

// Gatherer handles listing the ready pods of the scale target and querying the traffic layer for each pod's observed
// request rate over the sample window
type Gatherer struct {
	PodLister  podclient.ReadyLister
	RateSource ratesource.RateSource
	Config     *config.Config
	Clock      func() time.Time
}

// Gather returns one sample per ready pod that the traffic layer could report on. Zero ready pods is a valid
// transient state and returns an empty sample set with no error. Per pod query failures are returned as warnings
// with the failing pods omitted, only a failure to list pods aborts collection
func (g *Gatherer) Gather(ctx context.Context) ([]metric.Sample, []error, error) {
	selector, err := labels.Parse(g.Config.LabelSelector)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse pod label selector: %w", err)
	}

	glog.V(3).Infoln("Attempting to list ready pods for the scale target")
	pods, err := g.PodLister.ListReady(ctx, g.Config.Namespace, selector)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list ready pods: %w", err)
	}
	glog.V(3).Infof("Found %d ready pods", len(pods))

	if len(pods) == 0 {
		return nil, nil, nil
	}

	window := time.Duration(g.Config.SampleWindow) * time.Second
	podTimeout := time.Duration(g.Config.PodTimeout) * time.Second

	var mu sync.Mutex
	var samples []metric.Sample
	var warnings []error

	// Per pod queries are independent and read only, fan out concurrently and wait for all of them to settle
	// before aggregation
	group, groupCtx := errgroup.WithContext(ctx)
	for _, pod := range pods {
		name := pod.GetName()
		group.Go(func() error {
			queryCtx, cancel := context.WithTimeout(groupCtx, podTimeout)
			defer cancel()

			rate, err := g.RateSource.RequestRate(queryCtx, g.Config.Namespace, name, window)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				// Omit the failing pod, a single pod's failure must not abort collection of the others
				warnings = append(warnings, fmt.Errorf("failed to collect request rate for pod '%s': %w", name, err))
				return nil
			}
			samples = append(samples, metric.Sample{
				Pod:       name,
				RPS:       rate,
				Timestamp: g.now(),
			})
			return nil
		})
	}
	// Per pod errors are collected as warnings, the group itself never fails
	_ = group.Wait()

	glog.V(3).Infof("Gathered %d samples with %d pods omitted", len(samples), len(warnings))
	return samples, warnings, nil
}

func (g *Gatherer) now() time.Time {
	if g.Clock == nil {
		return time.Now().UTC()
	}
	return g.Clock()
}
