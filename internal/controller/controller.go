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

// Package controller provides the driver for the autoscaling control loop, running the gather, aggregate, decide and
// reconcile pipeline in strict sequence on a fixed interval. A failure at any stage aborts only that tick, the loop
// continues at the next interval. Shutdown is cooperative, an in-flight tick finishes before the loop stops.
package controller

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/request-pod-autoscaler/request-pod-autoscaler/config"
	"github.com/request-pod-autoscaler/request-pod-autoscaler/evaluate"
	"github.com/request-pod-autoscaler/request-pod-autoscaler/internal/aggregate"
	"github.com/request-pod-autoscaler/request-pod-autoscaler/internal/collector"
	"github.com/request-pod-autoscaler/request-pod-autoscaler/internal/decide"
	"github.com/request-pod-autoscaler/request-pod-autoscaler/internal/reconcile"
	"github.com/request-pod-autoscaler/request-pod-autoscaler/metric"
	"github.com/request-pod-autoscaler/request-pod-autoscaler/scale"
)

// Controller drives the autoscaling control loop. It owns the controller state, which is only ever read and written
// with the tick mutex held, so ticks never overlap even when the API triggers an evaluation while the loop runs
type Controller struct {
	Gatherer   collector.SampleGatherer
	Aggregator aggregate.Aggregator
	Decider    decide.Decider
	Scaler     reconcile.Scaler
	Config     *config.Config
	Clock      func() time.Time

	mu    sync.Mutex
	state decide.State
}

// New returns a controller with its state initialized for a cold start
func New(gatherer collector.SampleGatherer, aggregator aggregate.Aggregator, decider decide.Decider,
	scaler reconcile.Scaler, cfg *config.Config) *Controller {
	clock := func() time.Time { return time.Now().UTC() }
	return &Controller{
		Gatherer:   gatherer,
		Aggregator: aggregator,
		Decider:    decider,
		Scaler:     scaler,
		Config:     cfg,
		Clock:      clock,
		state:      decide.NewState(clock()),
	}
}

// Run executes the control loop until the context is cancelled. Ticks are strictly sequential, a tick that overruns
// the interval delays the next one. Cancellation takes effect between ticks, an in-flight tick always completes
func (c *Controller) Run(ctx context.Context) {
	glog.V(0).Infof("Starting control loop with an interval of %d milliseconds", c.Config.Interval)
	ticker := time.NewTicker(time.Duration(c.Config.Interval) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			glog.V(0).Infoln("Control loop stopping")
			return
		case <-ticker.C:
			err := c.Tick(ctx)
			if err != nil {
				// Contained to this tick, the fixed interval loop is the retry mechanism
				glog.Errorf("Failed tick: %v", err)
			}
		}
	}
}

// Tick executes one full pass of the pipeline and applies the resulting decision
func (c *Controller) Tick(ctx context.Context) error {
	_, _, err := c.Evaluate(ctx, config.ControllerRunType, true)
	return err
}

// Evaluate executes one pass of the pipeline, applying the resulting decision unless apply is false. The returned
// snapshot is the utilization view the decision was made on
func (c *Controller) Evaluate(ctx context.Context, runType string, apply bool) (evaluate.Decision, metric.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.Clock()
	ref := c.Config.ScaleTargetRef

	glog.V(2).Infoln("Attempting to get scale subresource for the scale target")
	scaleResource, err := c.Scaler.GetScaleSubResource(ctx, ref.APIVersion, ref.Kind, c.Config.Namespace, ref.Name)
	if err != nil {
		return evaluate.Decision{}, metric.Snapshot{}, fmt.Errorf("failed to get scale subresource: %w", err)
	}
	currentReplicas := scaleResource.Spec.Replicas
	glog.V(2).Infof("Current replica count determined: %d", currentReplicas)

	snapshot, samples, err := c.gatherAndAggregate(ctx, now)
	if err != nil {
		return evaluate.Decision{}, metric.Snapshot{}, err
	}
	glog.V(2).Infof("Aggregated %d samples into snapshot: %+v", len(samples), snapshot)

	decision := c.Decider.Decide(snapshot, currentReplicas, c.state, now)
	glog.V(2).Infof("Decision made: %+v", decision)

	if !apply {
		return decision, snapshot, nil
	}

	newState, err := c.Scaler.Apply(ctx, scale.Info{
		Decision:        decision,
		CurrentReplicas: currentReplicas,
		Namespace:       c.Config.Namespace,
		ScaleTargetRef:  ref,
		RunType:         runType,
	}, scaleResource, c.state)
	if err != nil {
		return evaluate.Decision{}, metric.Snapshot{}, fmt.Errorf("failed to apply decision: %w", err)
	}
	c.state = newState

	return decision, snapshot, nil
}

// Metrics executes only the gather and aggregate stages, a read only view that never scales
func (c *Controller) Metrics(ctx context.Context) (metric.Snapshot, []metric.Sample, error) {
	snapshot, samples, err := c.gatherAndAggregate(ctx, c.Clock())
	if err != nil {
		return metric.Snapshot{}, nil, err
	}
	return snapshot, samples, nil
}

func (c *Controller) gatherAndAggregate(ctx context.Context, now time.Time) (metric.Snapshot, []metric.Sample, error) {
	samples, warnings, err := c.Gatherer.Gather(ctx)
	if err != nil {
		return metric.Snapshot{}, nil, fmt.Errorf("failed to gather request rate samples: %w", err)
	}
	for _, warning := range warnings {
		glog.Warningf("Partial collection: %v", warning)
	}

	snapshot := c.Aggregator.Aggregate(samples, c.Config.TargetRPSPerPod, now)
	return snapshot, samples, nil
}
