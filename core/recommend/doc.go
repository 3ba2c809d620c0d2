// Package recommend scores course offerings against student preferences and
// greedily packs a conflict-free schedule toward a credit target.
//
// Courses are ranked by a weighted additive score (stable on ties) and then
// taken in order while the credit target is unmet, skipping any course that
// would push a weekday above the daily class cap or that overlaps, within
// the requested minimum gap, a course already chosen. Meetings last one hour
// and are half-open, so back-to-back courses never conflict. The pass never
// backtracks and may miss a packing that reaches the target.
package recommend
