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

// Package reconcile abstracts interactions with the Kubernetes scale API, applying scaling decisions to the target
// workload's scale subresource. Applying a decision that proposes the current replica count makes no API call, and a
// rejected change is simply surfaced, the next tick re-evaluates from fresh state.
package reconcile

import (
	"context"
	"fmt"

	"github.com/golang/glog"
	"github.com/request-pod-autoscaler/request-pod-autoscaler/internal/decide"
	"github.com/request-pod-autoscaler/request-pod-autoscaler/internal/events"
	"github.com/request-pod-autoscaler/request-pod-autoscaler/scale"
	autoscalingv1 "k8s.io/api/autoscaling/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
	k8sscale "k8s.io/client-go/scale"
)

// Scaler abstracts interactions with the Kubernetes scale API, reading the scale subresource of the target workload
// and applying scaling decisions to it
type Scaler interface {
	GetScaleSubResource(ctx context.Context, apiVersion string, kind string, namespace string, name string) (*autoscalingv1.Scale, error)
	Apply(ctx context.Context, info scale.Info, scaleResource *autoscalingv1.Scale, state decide.State) (decide.State, error)
}

// Scale applies scaling decisions through the Kubernetes scale API and records the resulting scaling events
type Scale struct {
	Scaler   k8sscale.ScalesGetter
	Recorder events.Recorder
}

// GetScaleSubResource fetches the scale subresource of the resource described by the api version, kind, namespace
// and name provided
func (s *Scale) GetScaleSubResource(ctx context.Context, apiVersion string, kind string, namespace string, name string) (*autoscalingv1.Scale, error) {
	glog.V(3).Infof("Attempting to get scale subresource for resource '%s'", name)
	resourceGV, err := schema.ParseGroupVersion(apiVersion)
	if err != nil {
		return nil, err
	}

	targetGR := schema.GroupResource{
		Group:    resourceGV.Group,
		Resource: kind,
	}

	scaleResource, err := s.Scaler.Scales(namespace).Get(ctx, targetGR, name, metav1.GetOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get scale subresource: %w", err)
	}
	glog.V(3).Infof("Scale subresource retrieved: %+v", scaleResource)
	return scaleResource, nil
}

// Apply takes a scaling decision and uses it to interact with the Kubernetes scale API, updating the replica count
// if the decision proposes a change and recording a scaling event for it. Applying a decision that proposes the
// current replica count makes no API call. The returned state carries the updated scale event timestamps, on
// failure the state is returned unchanged
func (s *Scale) Apply(ctx context.Context, info scale.Info, scaleResource *autoscalingv1.Scale, state decide.State) (decide.State, error) {
	proposed := info.Decision.TargetReplicas
	current := info.CurrentReplicas

	if proposed == current {
		glog.V(1).Infof("No change in target replicas, maintaining %d replicas (%s)", current, info.Decision.Reason)
		return state, nil
	}

	glog.V(0).Infof("Rescaling from %d to %d replicas", current, proposed)
	resourceGV, err := schema.ParseGroupVersion(info.ScaleTargetRef.APIVersion)
	if err != nil {
		return state, err
	}

	targetGR := schema.GroupResource{
		Group:    resourceGV.Group,
		Resource: info.ScaleTargetRef.Kind,
	}

	scaleResource.Spec.Replicas = proposed
	_, err = s.Scaler.Scales(info.Namespace).Update(ctx, targetGR, scaleResource, metav1.UpdateOptions{})
	if err != nil {
		return state, fmt.Errorf("failed to apply scaling changes to resource: %w", err)
	}

	now := info.Decision.Timestamp
	if proposed > current {
		state.LastScaleUp = now
	} else {
		state.LastScaleDown = now
	}

	event := scale.Event{
		Timestamp:   now,
		OldReplicas: current,
		NewReplicas: proposed,
		Reason:      info.Decision.Reason,
		RunType:     info.RunType,
	}
	if s.Recorder != nil {
		s.Recorder.Record(event)
	}
	glog.V(0).Infof("Scaled resource '%s' from %d to %d replicas (%s, triggered by %s run)",
		info.ScaleTargetRef.Name, current, proposed, info.Decision.Reason, info.RunType)

	return state, nil
}
