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

// Package evaluate defines the scaling decision produced by one control loop tick.
package evaluate

import (
	"time"
)

const (
	// ReasonScaleUp marks a decision to increase the replica count
	ReasonScaleUp = "scale-up"
	// ReasonScaleDown marks a decision to decrease the replica count
	ReasonScaleDown = "scale-down"
	// ReasonSteady marks a decision to keep the replica count as the observed load matches the target
	ReasonSteady = "steady"
	// ReasonNoData marks a no-op decision made because no request rate samples were available
	ReasonNoData = "no-data"
	// ReasonStabilizing marks a no-op decision made because a scale event happened too recently
	ReasonStabilizing = "stabilizing"
	// ReasonDisabled marks a no-op decision made because the target is scaled to zero and autoscaling is
	// therefore disabled
	ReasonDisabled = "disabled"
)

// Decision represents a decision on how to scale the target workload, the TargetReplicas is always clamped within
// the configured minimum and maximum bounds
type Decision struct {
	TargetReplicas int32     `json:"targetReplicas"`
	Reason         string    `json:"reason"`
	Timestamp      time.Time `json:"timestamp"`
}
