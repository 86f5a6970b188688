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

// Package decide converts a utilization snapshot into a scaling decision, a proportional controller with hysteresis.
// Desired replicas scale linearly with the degree to which observed load exceeds the per pod target, clamped within
// the configured bounds, with stabilization windows suppressing changes that follow a scale event too closely.
package decide

import (
	"math"
	"time"

	"github.com/golang/glog"
	"github.com/request-pod-autoscaler/request-pod-autoscaler/config"
	"github.com/request-pod-autoscaler/request-pod-autoscaler/evaluate"
	"github.com/request-pod-autoscaler/request-pod-autoscaler/metric"
)

// State holds the timestamps of the most recent scale events, used to enforce the stabilization windows. It is
// owned by the controller loop, passed into each decision and returned updated by the reconciler, it is never
// persisted across restarts
type State struct {
	LastScaleUp   time.Time
	LastScaleDown time.Time
}

// NewState returns the state a freshly started controller begins with. Both timestamps are set to the start time,
// a cold start behaves as if a scale event just happened so a restart can never trigger an immediate burst of
// scale downs
func NewState(now time.Time) State {
	return State{
		LastScaleUp:   now,
		LastScaleDown: now,
	}
}

// LastScaleEvent returns the time of the most recent scale event in either direction
func (s State) LastScaleEvent() time.Time {
	if s.LastScaleUp.After(s.LastScaleDown) {
		return s.LastScaleUp
	}
	return s.LastScaleDown
}

// Decider provides methods for converting a utilization snapshot into a scaling decision
type Decider interface {
	Decide(snapshot metric.Snapshot, currentReplicas int32, state State, now time.Time) evaluate.Decision
}

// ProportionalDecider implements the standard proportional autoscaling law, desired = ceil(current * ratio)
type ProportionalDecider struct {
	Config *config.Config
}

// Decide proposes a replica count for the snapshot provided. The proposal is always clamped within the configured
// bounds; a snapshot with no data, a target scaled to zero, or a change suppressed by a stabilization window all
// produce a no-op decision keeping the current replica count
func (d *ProportionalDecider) Decide(snapshot metric.Snapshot, currentReplicas int32, state State, now time.Time) evaluate.Decision {
	if snapshot.NoData {
		glog.V(1).Infoln("No request rate data available, maintaining current replicas")
		return evaluate.Decision{
			TargetReplicas: currentReplicas,
			Reason:         evaluate.ReasonNoData,
			Timestamp:      now,
		}
	}

	if currentReplicas == 0 {
		// The target has been deliberately scaled to zero, autoscaling is disabled until a human scales it
		// back up
		glog.V(1).Infoln("Target is scaled to zero, autoscaling disabled")
		return evaluate.Decision{
			TargetReplicas: currentReplicas,
			Reason:         evaluate.ReasonDisabled,
			Timestamp:      now,
		}
	}

	// Clamp before converting, the product can exceed the int32 range for very large ratios and an out of range
	// float to int conversion is undefined
	proposed := math.Ceil(float64(currentReplicas) * snapshot.Ratio)
	if proposed < float64(d.Config.MinReplicas) {
		glog.V(2).Infof("Desired %g replicas below minimum, clamping to %d replicas", proposed, d.Config.MinReplicas)
		proposed = float64(d.Config.MinReplicas)
	}
	if proposed > float64(d.Config.MaxReplicas) {
		glog.V(2).Infof("Desired %g replicas above maximum, clamping to %d replicas", proposed, d.Config.MaxReplicas)
		proposed = float64(d.Config.MaxReplicas)
	}
	desired := int32(proposed)

	if desired == currentReplicas {
		glog.V(1).Infof("Observed load matches target, maintaining %d replicas", currentReplicas)
		return evaluate.Decision{
			TargetReplicas: currentReplicas,
			Reason:         evaluate.ReasonSteady,
			Timestamp:      now,
		}
	}

	elapsed := now.Sub(state.LastScaleEvent())

	if desired > currentReplicas {
		window := time.Duration(d.Config.UpscaleStabilization) * time.Second
		if elapsed < window {
			glog.V(1).Infof("Scale up to %d replicas suppressed, only %s since last scale event with a %s window",
				desired, elapsed, window)
			return evaluate.Decision{
				TargetReplicas: currentReplicas,
				Reason:         evaluate.ReasonStabilizing,
				Timestamp:      now,
			}
		}
		glog.V(1).Infof("Proposing scale up from %d to %d replicas", currentReplicas, desired)
		return evaluate.Decision{
			TargetReplicas: desired,
			Reason:         evaluate.ReasonScaleUp,
			Timestamp:      now,
		}
	}

	window := time.Duration(d.Config.DownscaleStabilization) * time.Second
	if elapsed < window {
		glog.V(1).Infof("Scale down to %d replicas suppressed, only %s since last scale event with a %s window",
			desired, elapsed, window)
		return evaluate.Decision{
			TargetReplicas: currentReplicas,
			Reason:         evaluate.ReasonStabilizing,
			Timestamp:      now,
		}
	}
	glog.V(1).Infof("Proposing scale down from %d to %d replicas", currentReplicas, desired)
	return evaluate.Decision{
		TargetReplicas: desired,
		Reason:         evaluate.ReasonScaleDown,
		Timestamp:      now,
	}
}
