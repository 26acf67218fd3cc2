/*
 * Copyright 2026 RingNet Operations.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package layout computes fixed circular coordinates for ring members.
// Positions are pinned: there is no force simulation, so the ring shape is
// exact and stable regardless of how often a surface redraws.
package layout

import (
	"math"

	"github.com/ringnet/console/pkg/models"
)

// DefaultRadius matches the radius the graph surface renders at.
const DefaultRadius = 200.0

// Ring places node i of N at angle 2*pi*i/N on a circle of DefaultRadius.
// The mapping is deterministic: a fixed ordering always yields bit-identical
// coordinates. An empty input yields an empty map; a single node sits at
// angle 0.
func Ring(ids []string) map[string]models.Position {
	return RingWithRadius(ids, DefaultRadius)
}

// RingWithRadius is Ring with an explicit radius.
func RingWithRadius(ids []string, radius float64) map[string]models.Position {
	positions := make(map[string]models.Position, len(ids))

	if len(ids) == 0 {
		return positions
	}

	step := 2 * math.Pi / float64(len(ids))

	for i, id := range ids {
		angle := float64(i) * step

		positions[id] = models.Position{
			Angle: angle,
			X:     radius * math.Cos(angle),
			Y:     radius * math.Sin(angle),
		}
	}

	return positions
}
