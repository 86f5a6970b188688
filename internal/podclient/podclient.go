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

// Package podclient provides an on-demand client for retrieving the ready pods of the scale target, without using
// caching. A pod is ready if it is running and reports the Ready condition, matching the orchestrator's criteria for
// routing traffic to it.
package podclient

import (
	"context"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/labels"
	"k8s.io/client-go/kubernetes"
)

// ReadyLister is used to list the pods of the scale target that are currently eligible to receive traffic
type ReadyLister interface {
	ListReady(ctx context.Context, namespace string, selector labels.Selector) ([]*corev1.Pod, error)
}

// OnDemandReadyLister lists ready pods by querying the Kubernetes API directly on each call
type OnDemandReadyLister struct {
	Clientset kubernetes.Interface
}

// ListReady lists pods that match the selector in the namespace, filtered down to those that are running and ready
func (p *OnDemandReadyLister) ListReady(ctx context.Context, namespace string, selector labels.Selector) ([]*corev1.Pod, error) {
	pods, err := p.Clientset.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{
		LabelSelector: selector.String(),
	})
	if err != nil {
		return nil, err
	}
	var ready []*corev1.Pod
	for i := 0; i < len(pods.Items); i++ {
		pod := &pods.Items[i]
		if pod.DeletionTimestamp != nil {
			continue
		}
		if pod.Status.Phase != corev1.PodRunning {
			continue
		}
		if !isPodReady(pod) {
			continue
		}
		ready = append(ready, pod)
	}
	return ready, nil
}

func isPodReady(pod *corev1.Pod) bool {
	for _, condition := range pod.Status.Conditions {
		if condition.Type == corev1.PodReady {
			return condition.Status == corev1.ConditionTrue
		}
	}
	return false
}
