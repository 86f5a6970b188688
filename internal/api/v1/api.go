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

// Package v1 provides routing and endpoints for the Request Pod Autoscaler HTTP REST API version 1. Endpoints
// implemented as handlers, errors returned as valid JSON.
package v1

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	apiv1 "github.com/request-pod-autoscaler/request-pod-autoscaler/api/v1"
	"github.com/request-pod-autoscaler/request-pod-autoscaler/config"
	"github.com/request-pod-autoscaler/request-pod-autoscaler/evaluate"
	"github.com/request-pod-autoscaler/request-pod-autoscaler/metric"
	"github.com/request-pod-autoscaler/request-pod-autoscaler/scale"
)

const (
	dryRunQueryParam = "dry_run"
)

// MetricsGetter provides a read only utilization view of the scale target
type MetricsGetter interface {
	Metrics(ctx context.Context) (metric.Snapshot, []metric.Sample, error)
}

// Evaluator runs one pass of the control pipeline, optionally applying the resulting decision
type Evaluator interface {
	Evaluate(ctx context.Context, runType string, apply bool) (evaluate.Decision, metric.Snapshot, error)
}

// EventLister lists the scaling events recorded so far in order
type EventLister interface {
	List() []scale.Event
}

// API is the Request Pod Autoscaler REST API, exposing endpoints to retrieve metrics, trigger evaluations and
// inspect the scaling event stream
type API struct {
	Router        chi.Router
	Config        *config.Config
	MetricsGetter MetricsGetter
	Evaluator     Evaluator
	EventLister   EventLister
}

// Routes sets up routing for the API
func (api *API) Routes() {
	api.Router.Route("/api/v1", func(r chi.Router) {
		r.NotFound(api.notFound)
		r.MethodNotAllowed(api.methodNotAllowed)
		r.Get("/metrics", api.getMetrics)
		r.Post("/evaluation", api.getEvaluation)
		r.Get("/events", api.getEvents)
	})
}

func (api *API) getMetrics(w http.ResponseWriter, r *http.Request) {
	snapshot, samples, err := api.MetricsGetter.Metrics(r.Context())
	if err != nil {
		apiError(w, &apiv1.Error{
			Message: err.Error(),
			Code:    http.StatusInternalServerError,
		})
		return
	}

	response, err := json.Marshal(&apiv1.Metrics{
		Snapshot: snapshot,
		Samples:  samples,
	})
	if err != nil {
		// Should not occur, panic
		panic(err)
	}
	w.WriteHeader(http.StatusOK)
	w.Write(response)
}

func (api *API) getEvaluation(w http.ResponseWriter, r *http.Request) {
	// Determine if it is a dry run
	dryRun := true
	dryRunParam := r.URL.Query().Get(dryRunQueryParam)
	if dryRunParam == "" {
		dryRun = false
	} else {
		b, err := strconv.ParseBool(dryRunParam)
		if err != nil {
			apiError(w, &apiv1.Error{
				Message: fmt.Sprintf("Invalid format for 'dry_run' query parameter; '%s' is not a valid boolean value", dryRunParam),
				Code:    http.StatusBadRequest,
			})
			return
		}
		dryRun = b
	}

	runType := config.APIRunType
	if dryRun {
		runType = config.APIDryRunRunType
	}

	decision, snapshot, err := api.Evaluator.Evaluate(r.Context(), runType, !dryRun)
	if err != nil {
		apiError(w, &apiv1.Error{
			Message: err.Error(),
			Code:    http.StatusInternalServerError,
		})
		return
	}

	response, err := json.Marshal(&apiv1.Evaluation{
		Snapshot: snapshot,
		Decision: decision,
		Applied:  !dryRun,
	})
	if err != nil {
		// Should not occur, panic
		panic(err)
	}
	w.WriteHeader(http.StatusOK)
	w.Write(response)
}

func (api *API) getEvents(w http.ResponseWriter, r *http.Request) {
	listed := api.EventLister.List()
	if listed == nil {
		listed = []scale.Event{}
	}

	response, err := json.Marshal(listed)
	if err != nil {
		// Should not occur, panic
		panic(err)
	}
	w.WriteHeader(http.StatusOK)
	w.Write(response)
}

func (api *API) notFound(w http.ResponseWriter, r *http.Request) {
	apiError(w, &apiv1.Error{
		Message: fmt.Sprintf("Resource '%s' not found", r.URL.Path),
		Code:    http.StatusNotFound,
	})
}

func (api *API) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	apiError(w, &apiv1.Error{
		Message: fmt.Sprintf("Method '%s' not allowed on resource '%s'", r.Method, r.URL.Path),
		Code:    http.StatusMethodNotAllowed,
	})
}

func apiError(w http.ResponseWriter, apiErr *apiv1.Error) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	response, err := json.Marshal(apiErr)
	if err != nil {
		// Should not occur, panic
		panic(err)
	}
	w.WriteHeader(apiErr.Code)
	w.Write(response)
}
