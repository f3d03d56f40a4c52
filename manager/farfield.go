package manager

import (
	"github.com/aeromesh/cfdmesh/bezier"
	"github.com/aeromesh/cfdmesh/geom"
	"github.com/aeromesh/cfdmesh/settings"
	"github.com/aeromesh/cfdmesh/surf"
)

// buildFarField constructs the six planar faces of the far-field domain
// box when enabled, sized either by a scale factor applied to the
// surfaces' combined bounding box or by an explicit manual box, per spec
// section 6's far-field bounding options.
func (m *CfdMeshMgr) buildFarField() {
	ff := m.Settings.FarField
	if !ff.Enabled {
		return
	}

	var box geom.Box
	if ff.ManualBox {
		box = geom.Box{MinVal: ff.Min, MaxVal: ff.Max}
	} else {
		box = m.combinedBoundingBox()
		scale := ff.Scale
		if scale <= 1 {
			scale = 3
		}
		center := box.MinVal.Add(box.MaxVal).Scale(0.5)
		half := box.MaxVal.Sub(box.MinVal).Scale(0.5 * scale)
		box = geom.Box{MinVal: center.Sub(half), MaxVal: center.Add(half)}
	}

	for _, core := range farFieldFaces(box) {
		s := surf.NewSurf(core, m.nextSurfID, "far-field", false, settings.CfdNormal)
		m.nextSurfID++
		s.FarFlag = true
		m.Surfs = append(m.Surfs, s)
	}
}

func (m *CfdMeshMgr) combinedBoundingBox() geom.Box {
	var pts []geom.Coord3D
	for _, s := range m.Surfs {
		for _, row := range s.Core.Ctrl {
			pts = append(pts, row...)
		}
	}
	if len(pts) == 0 {
		return geom.Box{}
	}
	return geom.BoxFromPoints(pts...)
}

// farFieldFaces builds one flat bilinear-degenerate bicubic patch per side
// of box.
func farFieldFaces(box geom.Box) []*bezier.SurfCore {
	min, max := box.MinVal, box.MaxVal
	corners := [8]geom.Coord3D{
		geom.XYZ(min.X, min.Y, min.Z), geom.XYZ(max.X, min.Y, min.Z),
		geom.XYZ(min.X, max.Y, min.Z), geom.XYZ(max.X, max.Y, min.Z),
		geom.XYZ(min.X, min.Y, max.Z), geom.XYZ(max.X, min.Y, max.Z),
		geom.XYZ(min.X, max.Y, max.Z), geom.XYZ(max.X, max.Y, max.Z),
	}
	faceCorners := [6][4]int{
		{0, 1, 2, 3}, // z = min
		{4, 5, 6, 7}, // z = max
		{0, 1, 4, 5}, // y = min
		{2, 3, 6, 7}, // y = max
		{0, 2, 4, 6}, // x = min
		{1, 3, 5, 7}, // x = max
	}
	out := make([]*bezier.SurfCore, 6)
	for i, fc := range faceCorners {
		p00, p10, p01, p11 := corners[fc[0]], corners[fc[1]], corners[fc[2]], corners[fc[3]]
		out[i] = bilinearPatch(p00, p10, p01, p11)
	}
	return out
}

func bilinearPatch(p00, p10, p01, p11 geom.Coord3D) *bezier.SurfCore {
	net := make([][]geom.Coord3D, 4)
	for i := 0; i < 4; i++ {
		u := float64(i) / 3
		a := p00.Add(p10.Sub(p00).Scale(u))
		b := p01.Add(p11.Sub(p01).Scale(u))
		row := make([]geom.Coord3D, 4)
		for j := 0; j < 4; j++ {
			w := float64(j) / 3
			row[j] = a.Add(b.Sub(a).Scale(w))
		}
		net[i] = row
	}
	return bezier.NewSurfCore(1, 1, 0, 1, 0, 1, net)
}
