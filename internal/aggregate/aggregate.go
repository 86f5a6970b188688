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

// Package aggregate reduces per pod request rate samples into a single utilization snapshot against the configured
// per pod target.
package aggregate

import (
	"time"

	"github.com/golang/glog"
	"github.com/request-pod-autoscaler/request-pod-autoscaler/metric"
)

// Aggregator provides methods for reducing request rate samples into a utilization snapshot
type Aggregator interface {
	Aggregate(samples []metric.Sample, targetRPS float64, now time.Time) metric.Snapshot
}

// MeanAggregator computes the arithmetic mean request rate across samples
type MeanAggregator struct{}

// Aggregate reduces the samples provided into a snapshot, the ratio being the mean request rate divided by the per
// pod target. An empty sample set returns a snapshot flagged as having no data rather than computing a ratio, so a
// scale decision is never made on absence of evidence. The per pod target must be validated as greater than zero at
// configuration load time
func (a *MeanAggregator) Aggregate(samples []metric.Sample, targetRPS float64, now time.Time) metric.Snapshot {
	if len(samples) == 0 {
		glog.V(2).Infoln("No samples to aggregate, flagging snapshot as no data")
		return metric.Snapshot{
			TargetRPS: targetRPS,
			NoData:    true,
			Timestamp: now,
		}
	}

	total := float64(0)
	for _, sample := range samples {
		total += sample.RPS
	}
	mean := total / float64(len(samples))

	snapshot := metric.Snapshot{
		MeanRPS:   mean,
		TargetRPS: targetRPS,
		Ratio:     mean / targetRPS,
		ReadyPods: len(samples),
		Timestamp: now,
	}
	glog.V(2).Infof("Aggregated %d samples, mean %f RPS against target %f RPS, ratio %f",
		len(samples), snapshot.MeanRPS, snapshot.TargetRPS, snapshot.Ratio)
	return snapshot
}
