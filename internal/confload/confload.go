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

// Package confload handles loading in configuration - parsing YAML and environment variable input into a Request Pod
// Autoscaler configuration struct. Contains a set of defaults that can be overridden by provided YAML and env vars.
// Configuration is validated on load, an invalid configuration means the controller refuses to start.
package confload

import (
	"bytes"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/request-pod-autoscaler/request-pod-autoscaler/config"
	"k8s.io/apimachinery/pkg/labels"
	"k8s.io/apimachinery/pkg/util/yaml"
)

const jsonStructTag = "json"

// Load loads in the default configuration, then overrides it from the config file, then any env vars set, finally
// validating the result
func Load(configFileData []byte, envVars map[string]string) (*config.Config, error) {
	loaded := config.NewConfig()
	err := loadFromBytes(configFileData, loaded)
	if err != nil {
		return nil, err
	}
	err = loadFromEnv(loaded, envVars)
	if err != nil {
		return nil, err
	}
	err = validate(loaded)
	if err != nil {
		return nil, err
	}
	return loaded, nil
}

func loadFromBytes(data []byte, config *config.Config) error {
	// If no bytes file data provided, skip trying to parse it
	if data == nil {
		return nil
	}
	err := yaml.NewYAMLOrJSONDecoder(bytes.NewReader(data), 10).Decode(config)
	if err != nil {
		return err
	}
	return nil
}

func loadFromEnv(config *config.Config, envVars map[string]string) error {
	// Get config Go types and values
	configTypes := reflect.TypeOf(config).Elem()
	configValues := reflect.ValueOf(config).Elem()

	// Iterate through each field in the config
	for i := 0; i < configTypes.NumField(); i++ {
		// Get each field's type and value
		fieldType := configTypes.Field(i)
		fieldValue := configValues.Field(i)

		// Extract JSON tag from the type, e.g `json:"example"` would return example
		tag := fieldType.Tag.Get(jsonStructTag)

		// Check if there is an environment variable provided with the same tag
		value, exists := envVars[tag]
		if !exists {
			continue
		}

		// Assign values using correct types
		if fieldValue.Kind() == reflect.String {
			fieldValue.SetString(value)
			continue
		}
		if fieldValue.Kind() == reflect.Int {
			intVal, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return err
			}
			fieldValue.SetInt(intVal)
			continue
		}

		// If the type is not one of the primitives above, it must be in JSON or YAML form, so try to parse
		// it and set the value from the unmarshalled JSON or YAML value
		fieldRef := reflect.New(fieldType.Type)
		err := yaml.NewYAMLOrJSONDecoder(strings.NewReader(value), 10).Decode(fieldRef.Interface())
		if err != nil {
			return err
		}

		fieldValue.Set(fieldRef.Elem())
		continue
	}
	return nil
}

// validate rejects configurations the decision engine must never see, such as a zero per pod target or inverted
// replica bounds
func validate(config *config.Config) error {
	if config.ScaleTargetRef == nil {
		return fmt.Errorf("invalid configuration: no scaleTargetRef provided")
	}
	if config.TargetRPSPerPod <= 0 {
		return fmt.Errorf("invalid configuration: targetRPSPerPod must be greater than 0, is %g", config.TargetRPSPerPod)
	}
	if config.MinReplicas < 1 {
		return fmt.Errorf("invalid configuration: minReplicas must be at least 1, is %d", config.MinReplicas)
	}
	if config.MaxReplicas < config.MinReplicas {
		return fmt.Errorf("invalid configuration: maxReplicas (%d) must not be less than minReplicas (%d)",
			config.MaxReplicas, config.MinReplicas)
	}
	if config.Interval <= 0 {
		return fmt.Errorf("invalid configuration: interval must be greater than 0, is %d", config.Interval)
	}
	if config.SampleWindow <= 0 {
		return fmt.Errorf("invalid configuration: sampleWindow must be greater than 0, is %d", config.SampleWindow)
	}
	if config.PodTimeout <= 0 {
		return fmt.Errorf("invalid configuration: podTimeout must be greater than 0, is %d", config.PodTimeout)
	}
	if config.DownscaleStabilization < 0 {
		return fmt.Errorf("invalid configuration: downscaleStabilization must not be negative, is %d",
			config.DownscaleStabilization)
	}
	if config.UpscaleStabilization < 0 {
		return fmt.Errorf("invalid configuration: upscaleStabilization must not be negative, is %d",
			config.UpscaleStabilization)
	}
	if config.StartTime <= 0 {
		return fmt.Errorf("invalid configuration: startTime must be greater than 0, is %d", config.StartTime)
	}
	_, err := labels.Parse(config.LabelSelector)
	if err != nil {
		return fmt.Errorf("invalid configuration: failed to parse labelSelector: %w", err)
	}
	return nil
}
