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

// Package scale defines the input for applying a scaling decision to the target workload and the event records
// emitted when the replica count changes.
package scale

import (
	"time"

	"github.com/request-pod-autoscaler/request-pod-autoscaler/evaluate"
	autoscalingv2 "k8s.io/api/autoscaling/v2"
)

// Info defines information fed into the reconciler when applying a scaling decision
type Info struct {
	Decision        evaluate.Decision                          `json:"decision"`
	CurrentReplicas int32                                      `json:"currentReplicas"`
	Namespace       string                                     `json:"namespace"`
	ScaleTargetRef  *autoscalingv2.CrossVersionObjectReference `json:"scaleTargetRef"`
	RunType         string                                     `json:"runType"`
}

// Event is one record in the ordered scaling event stream, emitted whenever the reconciler changes the replica
// count of the target workload
type Event struct {
	Timestamp   time.Time `json:"timestamp"`
	OldReplicas int32     `json:"oldReplicas"`
	NewReplicas int32     `json:"newReplicas"`
	Reason      string    `json:"reason"`
	RunType     string    `json:"runType"`
}
