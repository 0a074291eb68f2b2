// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package validator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	schemaFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swsdk_schema_fetches_total",
			Help: "Total workflow schema fetches by outcome",
		},
		[]string{"outcome"},
	)

	schemaFetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "swsdk_schema_fetch_duration_seconds",
		Help:    "Duration of workflow schema fetches, including compilation",
		Buckets: prometheus.DefBuckets,
	})

	validations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swsdk_validations_total",
			Help: "Total workflow validations by result",
		},
		[]string{"result"},
	)
)

// recordValidation counts one Validate call. result is valid, invalid or error.
func recordValidation(result string) {
	validations.WithLabelValues(result).Inc()
}
