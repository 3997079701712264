// Copyright 2024 The Merkle Tree Authors.
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

package merkletree

import "github.com/transparencylog/merkletree/internal/monitoring"

// treeMetrics holds the counters and histograms a Tree reports through,
// one per operation that has an interesting success/failure or cost
// dimension to track.
type treeMetrics struct {
	inserts        monitoring.Counter
	rootRecomputes monitoring.Counter
	flushes        monitoring.Counter
	retracts       monitoring.Counter
	verifyFailures monitoring.Counter
	pathLength     monitoring.Histogram
}

func newTreeMetrics(mf monitoring.MetricFactory) *treeMetrics {
	if mf == nil {
		mf = monitoring.InertMetricFactory{}
	}
	return &treeMetrics{
		inserts:        mf.NewCounter("merkletree_inserts_total", "Number of leaves inserted"),
		rootRecomputes: mf.NewCounter("merkletree_root_recomputes_total", "Number of times the root was recomputed (rebuilding the rhs cache) rather than served from the cached root"),
		flushes:        mf.NewCounter("merkletree_flushes_total", "Number of flush/flush_to calls"),
		retracts:       mf.NewCounter("merkletree_retracts_total", "Number of retract_to calls"),
		verifyFailures: mf.NewCounter("merkletree_verify_failures_total", "Number of Verify calls that returned false"),
		pathLength:     mf.NewHistogram("merkletree_path_length", "Length of inclusion paths returned by GetPath"),
	}
}
