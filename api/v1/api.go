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

// Package v1 defines the response models for version 1 of the Request Pod Autoscaler HTTP REST API.
package v1

import (
	"github.com/request-pod-autoscaler/request-pod-autoscaler/evaluate"
	"github.com/request-pod-autoscaler/request-pod-autoscaler/metric"
)

// Error is an error response from the API, with the status code and an error message
type Error struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// Metrics is the response to a metrics request, the aggregated snapshot alongside the per pod samples it was
// reduced from
type Metrics struct {
	Snapshot metric.Snapshot `json:"snapshot"`
	Samples  []metric.Sample `json:"samples"`
}

// Evaluation is the response to an evaluation request, the snapshot the decision was made on and the decision
// itself
type Evaluation struct {
	Snapshot metric.Snapshot   `json:"snapshot"`
	Decision evaluate.Decision `json:"decision"`
	Applied  bool              `json:"applied"`
}
