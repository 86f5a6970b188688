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

// Package fake provides fake implementations of the autoscaler's interfaces, allowing inserting logic into them for
// testing by setting reactor functions.
package fake

import (
	"context"
	"time"

	"github.com/request-pod-autoscaler/request-pod-autoscaler/evaluate"
	"github.com/request-pod-autoscaler/request-pod-autoscaler/internal/decide"
	"github.com/request-pod-autoscaler/request-pod-autoscaler/metric"
	"github.com/request-pod-autoscaler/request-pod-autoscaler/scale"
	autoscalingv1 "k8s.io/api/autoscaling/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/labels"
)

// Gatherer (fake) allows inserting logic into a sample gatherer for testing
type Gatherer struct {
	GatherReactor func(ctx context.Context) ([]metric.Sample, []error, error)
}

// Gather calls the fake Gatherer reactor method provided
func (f *Gatherer) Gather(ctx context.Context) ([]metric.Sample, []error, error) {
	return f.GatherReactor(ctx)
}

// Aggregator (fake) allows inserting logic into an aggregator for testing
type Aggregator struct {
	AggregateReactor func(samples []metric.Sample, targetRPS float64, now time.Time) metric.Snapshot
}

// Aggregate calls the fake Aggregator reactor method provided
func (f *Aggregator) Aggregate(samples []metric.Sample, targetRPS float64, now time.Time) metric.Snapshot {
	return f.AggregateReactor(samples, targetRPS, now)
}

// Decider (fake) allows inserting logic into a decider for testing
type Decider struct {
	DecideReactor func(snapshot metric.Snapshot, currentReplicas int32, state decide.State, now time.Time) evaluate.Decision
}

// Decide calls the fake Decider reactor method provided
func (f *Decider) Decide(snapshot metric.Snapshot, currentReplicas int32, state decide.State, now time.Time) evaluate.Decision {
	return f.DecideReactor(snapshot, currentReplicas, state, now)
}

// Scaler (fake) allows inserting logic into a scaler for testing
type Scaler struct {
	GetScaleSubResourceReactor func(ctx context.Context, apiVersion string, kind string, namespace string, name string) (*autoscalingv1.Scale, error)
	ApplyReactor               func(ctx context.Context, info scale.Info, scaleResource *autoscalingv1.Scale, state decide.State) (decide.State, error)
}

// GetScaleSubResource calls the fake GetScaleSubResource reactor method provided
func (f *Scaler) GetScaleSubResource(ctx context.Context, apiVersion string, kind string, namespace string, name string) (*autoscalingv1.Scale, error) {
	return f.GetScaleSubResourceReactor(ctx, apiVersion, kind, namespace, name)
}

// Apply calls the fake Apply reactor method provided
func (f *Scaler) Apply(ctx context.Context, info scale.Info, scaleResource *autoscalingv1.Scale, state decide.State) (decide.State, error) {
	return f.ApplyReactor(ctx, info, scaleResource, state)
}

// ReadyLister (fake) allows inserting logic into a ready pod lister for testing
type ReadyLister struct {
	ListReadyReactor func(ctx context.Context, namespace string, selector labels.Selector) ([]*corev1.Pod, error)
}

// ListReady calls the fake ListReady reactor method provided
func (f *ReadyLister) ListReady(ctx context.Context, namespace string, selector labels.Selector) ([]*corev1.Pod, error) {
	return f.ListReadyReactor(ctx, namespace, selector)
}

// RateSource (fake) allows inserting logic into a request rate source for testing
type RateSource struct {
	RequestRateReactor func(ctx context.Context, namespace string, pod string, window time.Duration) (float64, error)
}

// RequestRate calls the fake RequestRate reactor method provided
func (f *RateSource) RequestRate(ctx context.Context, namespace string, pod string, window time.Duration) (float64, error) {
	return f.RequestRateReactor(ctx, namespace, pod, window)
}
