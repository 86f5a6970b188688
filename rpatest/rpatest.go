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

// Package rpatest contains utility testing methods, used in multiple tests
package rpatest

import (
	"github.com/google/go-cmp/cmp"
	"github.com/request-pod-autoscaler/request-pod-autoscaler/config"
	autoscalingv2 "k8s.io/api/autoscaling/v2"
)

const (
	testNamespace                = "test-namespace"
	testTargetRPSPerPod          = 6
	testMinReplicas              = 1
	testMaxReplicas              = 10
	testInterval                 = 15000
	testScaleTargetRefKind       = "deployment"
	testScaleTargetRefName       = "test"
	testScaleTargetRefAPIVersion = "apps/v1"
)

// EquateErrors creates a comparison option for cmp functions, allowing comparison of errors
func EquateErrors() cmp.Option {
	// FilterValues makes the comparer apply even when the two errors have
	// different concrete types; a bare cmp.Comparer on the error interface
	// is skipped in that case.
	return cmp.FilterValues(func(x, y interface{}) bool {
		_, ok1 := x.(error)
		_, ok2 := y.(error)
		return ok1 && ok2
	}, cmp.Comparer(func(x, y interface{}) bool {
		xe, ye := x.(error), y.(error)
		if xe == nil || ye == nil {
			return xe == nil && ye == nil
		}
		return xe.Error() == ye.Error()
	}))
}

// GetTestConfig creates a config with test attributes
func GetTestConfig() *config.Config {
	return &config.Config{
		Namespace:       testNamespace,
		TargetRPSPerPod: testTargetRPSPerPod,
		MinReplicas:     testMinReplicas,
		MaxReplicas:     testMaxReplicas,
		Interval:        testInterval,
		ScaleTargetRef: &autoscalingv2.CrossVersionObjectReference{
			Name:       testScaleTargetRefName,
			Kind:       testScaleTargetRefKind,
			APIVersion: testScaleTargetRefAPIVersion,
		},
	}
}
