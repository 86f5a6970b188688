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

package aggregate_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/request-pod-autoscaler/request-pod-autoscaler/internal/aggregate"
	"github.com/request-pod-autoscaler/request-pod-autoscaler/metric"
)

func TestMeanAggregator_Aggregate(t *testing.T) {
	now := time.Date(2025, 5, 12, 10, 30, 0, 0, time.UTC)

	var tests = []struct {
		description string
		expected    metric.Snapshot
		samples     []metric.Sample
		targetRPS   float64
	}{
		{
			"No samples, snapshot flagged as no data",
			metric.Snapshot{
				TargetRPS: 6,
				NoData:    true,
				Timestamp: now,
			},
			nil,
			6,
		},
		{
			"Single sample, mean is the sample",
			metric.Snapshot{
				MeanRPS:   20,
				TargetRPS: 6,
				Ratio:     20.0 / 6.0,
				ReadyPods: 1,
				Timestamp: now,
			},
			[]metric.Sample{
				{Pod: "test-pod-1", RPS: 20, Timestamp: now},
			},
			6,
		},
		{
			"Three samples, mean matches the target for a ratio of 1",
			metric.Snapshot{
				MeanRPS:   10,
				TargetRPS: 10,
				Ratio:     1,
				ReadyPods: 3,
				Timestamp: now,
			},
			[]metric.Sample{
				{Pod: "test-pod-1", RPS: 5, Timestamp: now},
				{Pod: "test-pod-2", RPS: 10, Timestamp: now},
				{Pod: "test-pod-3", RPS: 15, Timestamp: now},
			},
			10,
		},
		{
			"Two idle pods, zero mean and zero ratio",
			metric.Snapshot{
				MeanRPS:   0,
				TargetRPS: 4,
				Ratio:     0,
				ReadyPods: 2,
				Timestamp: now,
			},
			[]metric.Sample{
				{Pod: "test-pod-1", RPS: 0, Timestamp: now},
				{Pod: "test-pod-2", RPS: 0, Timestamp: now},
			},
			4,
		},
	}

	for _, test := range tests {
		t.Run(test.description, func(t *testing.T) {
			aggregator := &aggregate.MeanAggregator{}
			result := aggregator.Aggregate(test.samples, test.targetRPS, now)
			if !cmp.Equal(test.expected, result) {
				t.Errorf("snapshot mismatch (-want +got):\n%s", cmp.Diff(test.expected, result))
			}
		})
	}
}
