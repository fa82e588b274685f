// Package layout places word boxes on an Archimedean spiral so that no two
// boxes intersect, and fits a viewport around the result.
//
// # Placement
//
// [Engine.PlaceAll] takes the intrinsic boxes of a word sequence (only width
// and height are read) and places them in input order. For each box it walks
// the spiral (t·cos t, t·sin t) outward from the origin, centering the box on
// each candidate point, until the box intersects none of the boxes placed
// before it. Earlier boxes never move.
//
//	engine := layout.New(layout.WithStep(0.05))
//	placements, err := engine.PlaceAll(boxes)
//	viewport := layout.Fit(placements)
//
// Each [Placement] carries the resolved box and the rendering anchor
// [Position]: the left edge horizontally and the vertical center of the box.
//
// # Passes and targets
//
// A [Pass] models the two-stage lifecycle of a layout: a provisional layout
// from fallback boxes while real metrics are unavailable, then a final
// layout once measured boxes arrive (Unmeasured → Measured → Placed).
//
// A [Target] holds the committed layout for one render target. Passes that
// race on the same target are serialized through tickets: a pass whose
// ticket was superseded by a newer [Target.Begin] is rejected at
// [Target.Commit].
package layout
