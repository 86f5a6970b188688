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

package collector_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/request-pod-autoscaler/request-pod-autoscaler/config"
	"github.com/request-pod-autoscaler/request-pod-autoscaler/internal/collector"
	"github.com/request-pod-autoscaler/request-pod-autoscaler/internal/fake"
	"github.com/request-pod-autoscaler/request-pod-autoscaler/metric"
	"github.com/request-pod-autoscaler/request-pod-autoscaler/rpatest"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/labels"
)

func TestGatherer_Gather(t *testing.T) {
	sortSamples := cmpopts.SortSlices(func(a, b metric.Sample) bool {
		return a.Pod < b.Pod
	})
	sortWarnings := cmpopts.SortSlices(func(a, b error) bool {
		return a.Error() < b.Error()
	})

	now := time.Date(2025, 5, 12, 10, 30, 0, 0, time.UTC)

	pod := func(name string) *corev1.Pod {
		return &corev1.Pod{
			ObjectMeta: metav1.ObjectMeta{
				Name:      name,
				Namespace: "test-namespace",
			},
		}
	}

	var tests = []struct {
		description      string
		expected         []metric.Sample
		expectedWarnings []error
		expectedErr      error
		config           *config.Config
		podLister        *fake.ReadyLister
		rateSource       *fake.RateSource
	}{
		{
			"Unparseable label selector",
			nil,
			nil,
			errors.New("failed to parse pod label selector: unable to parse requirement: found '!', expected: identifier"),
			&config.Config{
				Namespace:     "test-namespace",
				LabelSelector: "!!invalid",
				SampleWindow:  15,
				PodTimeout:    5,
			},
			nil,
			nil,
		},
		{
			"Fail to list ready pods",
			nil,
			nil,
			errors.New("failed to list ready pods: fail to list pods"),
			&config.Config{
				Namespace:     "test-namespace",
				LabelSelector: "app=test",
				SampleWindow:  15,
				PodTimeout:    5,
			},
			&fake.ReadyLister{
				ListReadyReactor: func(ctx context.Context, namespace string, selector labels.Selector) ([]*corev1.Pod, error) {
					return nil, errors.New("fail to list pods")
				},
			},
			nil,
		},
		{
			"Zero ready pods, empty sample set with no error",
			nil,
			nil,
			nil,
			&config.Config{
				Namespace:     "test-namespace",
				LabelSelector: "app=test",
				SampleWindow:  15,
				PodTimeout:    5,
			},
			&fake.ReadyLister{
				ListReadyReactor: func(ctx context.Context, namespace string, selector labels.Selector) ([]*corev1.Pod, error) {
					return nil, nil
				},
			},
			nil,
		},
		{
			"Two ready pods, both report a rate",
			[]metric.Sample{
				{Pod: "test-pod-1", RPS: 12.5, Timestamp: now},
				{Pod: "test-pod-2", RPS: 7.5, Timestamp: now},
			},
			nil,
			nil,
			&config.Config{
				Namespace:     "test-namespace",
				LabelSelector: "app=test",
				SampleWindow:  15,
				PodTimeout:    5,
			},
			&fake.ReadyLister{
				ListReadyReactor: func(ctx context.Context, namespace string, selector labels.Selector) ([]*corev1.Pod, error) {
					return []*corev1.Pod{pod("test-pod-1"), pod("test-pod-2")}, nil
				},
			},
			&fake.RateSource{
				RequestRateReactor: func(ctx context.Context, namespace string, podName string, window time.Duration) (float64, error) {
					if podName == "test-pod-1" {
						return 12.5, nil
					}
					return 7.5, nil
				},
			},
		},
		{
			"Three ready pods, one query fails and its pod is omitted",
			[]metric.Sample{
				{Pod: "test-pod-1", RPS: 12.5, Timestamp: now},
				{Pod: "test-pod-3", RPS: 7.5, Timestamp: now},
			},
			[]error{
				errors.New("failed to collect request rate for pod 'test-pod-2': fail to query rate"),
			},
			nil,
			&config.Config{
				Namespace:     "test-namespace",
				LabelSelector: "app=test",
				SampleWindow:  15,
				PodTimeout:    5,
			},
			&fake.ReadyLister{
				ListReadyReactor: func(ctx context.Context, namespace string, selector labels.Selector) ([]*corev1.Pod, error) {
					return []*corev1.Pod{pod("test-pod-1"), pod("test-pod-2"), pod("test-pod-3")}, nil
				},
			},
			&fake.RateSource{
				RequestRateReactor: func(ctx context.Context, namespace string, podName string, window time.Duration) (float64, error) {
					switch podName {
					case "test-pod-1":
						return 12.5, nil
					case "test-pod-3":
						return 7.5, nil
					default:
						return 0, errors.New("fail to query rate")
					}
				},
			},
		},
		{
			"All queries fail, empty sample set with a warning per pod",
			nil,
			[]error{
				errors.New("failed to collect request rate for pod 'test-pod-1': fail to query rate"),
				errors.New("failed to collect request rate for pod 'test-pod-2': fail to query rate"),
			},
			nil,
			&config.Config{
				Namespace:     "test-namespace",
				LabelSelector: "app=test",
				SampleWindow:  15,
				PodTimeout:    5,
			},
			&fake.ReadyLister{
				ListReadyReactor: func(ctx context.Context, namespace string, selector labels.Selector) ([]*corev1.Pod, error) {
					return []*corev1.Pod{pod("test-pod-1"), pod("test-pod-2")}, nil
				},
			},
			&fake.RateSource{
				RequestRateReactor: func(ctx context.Context, namespace string, podName string, window time.Duration) (float64, error) {
					return 0, errors.New("fail to query rate")
				},
			},
		},
	}

	for _, test := range tests {
		t.Run(test.description, func(t *testing.T) {
			gatherer := &collector.Gatherer{
				PodLister:  test.podLister,
				RateSource: test.rateSource,
				Config:     test.config,
				Clock:      func() time.Time { return now },
			}
			samples, warnings, err := gatherer.Gather(context.Background())
			if !cmp.Equal(test.expectedErr, err, rpatest.EquateErrors()) {
				t.Errorf("error mismatch (-want +got):\n%s", cmp.Diff(test.expectedErr, err, rpatest.EquateErrors()))
				return
			}
			if !cmp.Equal(test.expected, samples, sortSamples) {
				t.Errorf("samples mismatch (-want +got):\n%s", cmp.Diff(test.expected, samples, sortSamples))
			}
			if !cmp.Equal(test.expectedWarnings, warnings, sortWarnings, rpatest.EquateErrors()) {
				t.Errorf("warnings mismatch (-want +got):\n%s", cmp.Diff(test.expectedWarnings, warnings, sortWarnings, rpatest.EquateErrors()))
			}
		})
	}
}
