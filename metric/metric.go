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

// Package metric defines the request rate samples gathered from the traffic layer and the aggregated utilization
// snapshot they are reduced into.
package metric

import (
	"time"
)

// Sample is one pod's observed request rate over the sample window, gathered each tick and discarded after
// aggregation
type Sample struct {
	Pod       string    `json:"pod"`
	RPS       float64   `json:"rps"`
	Timestamp time.Time `json:"timestamp"`
}

// Snapshot is the aggregated view across all ready pods at one tick; Ratio is MeanRPS divided by TargetRPS. If no
// samples were available NoData is set and the ratio must not be used to make scaling decisions
type Snapshot struct {
	MeanRPS   float64   `json:"meanRPS"`
	TargetRPS float64   `json:"targetRPS"`
	Ratio     float64   `json:"ratio"`
	ReadyPods int       `json:"readyPods"`
	NoData    bool      `json:"noData"`
	Timestamp time.Time `json:"timestamp"`
}
