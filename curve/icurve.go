package curve

// ICurve pairs two matched SCurves across a shared 3D edge, grounded on
// original_source/src/cfd_mesh/ICurve.{h,cpp}. SCurveB is nil for an
// unmatched border: the open boundary of an open solid.
type ICurve struct {
	SCurveA *SCurve
	SCurveB *SCurve

	// BFwd records whether SCurveB's natural (t=0->1) direction runs the
	// same way as SCurveA's; false means B was matched backward and its
	// tessellation must be mirrored before sharing.
	BFwd bool

	PlaneBorderIntersectFlag bool
}

// DefaultMatchTol is the original's default border-match tolerance.
const DefaultMatchTol = 1e-5

// MatchBorders pairs every SCurve in group A against every unused SCurve in
// group B, preferring a forward match and falling back to backward, per
// spec section 4.2. Returns the resulting ICurves plus any SCurves from
// either side left unmatched (open boundaries).
func MatchBorders(a, b []*SCurve, tol float64) (matched []*ICurve, unmatchedA, unmatchedB []*SCurve) {
	usedB := make(map[*SCurve]bool)

	for _, sa := range a {
		var pair *ICurve
		for _, sb := range b {
			if usedB[sb] {
				continue
			}
			if MatchFwd(sa, sb, tol) {
				pair = &ICurve{SCurveA: sa, SCurveB: sb, BFwd: true}
			} else if MatchBkwd(sa, sb, tol) {
				pair = &ICurve{SCurveA: sa, SCurveB: sb, BFwd: false}
			}
			if pair != nil {
				usedB[sb] = true
				break
			}
		}
		if pair != nil {
			matched = append(matched, pair)
		} else {
			unmatchedA = append(unmatchedA, sa)
		}
	}

	for _, sb := range b {
		if !usedB[sb] {
			unmatchedB = append(unmatchedB, sb)
		}
	}
	return
}

// TessellateShared tessellates the A side, then propagates its samples onto
// B so that both sides agree vertex-for-vertex in 3D.
func (ic *ICurve) TessellateShared() {
	ic.SCurveA.Tessellate()
	if ic.SCurveB != nil {
		ShareTessellation(ic.SCurveA, ic.SCurveB, ic.BFwd)
	}
}
