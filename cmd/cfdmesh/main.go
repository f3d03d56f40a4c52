// Command cfdmesh is a minimal driver for the surface-mesh pipeline,
// standing in for the interactive vehicle/geometry editor spec section 1
// names as an external collaborator: it hands the manager a small set of
// bezier transfer records and writes the resulting mesh out in the
// requested export formats, grounded on
// model3d/examples/usable/box/main.go's log.Println-per-stage style.
package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"

	"github.com/aeromesh/cfdmesh/export"
	"github.com/aeromesh/cfdmesh/geom"
	"github.com/aeromesh/cfdmesh/manager"
	"github.com/aeromesh/cfdmesh/settings"
)

func main() {
	outDir := flag.String("out", ".", "directory to write exported mesh files into")
	baseLen := flag.Float64("base-len", 0.1, "base target edge length")
	halfMesh := flag.Bool("half-mesh", false, "mesh only the y>=0 half with a symmetry-plane cap")
	writeSTL := flag.Bool("stl", true, "write box.stl")
	writeOBJ := flag.Bool("obj", false, "write box.obj")
	writeSRF := flag.Bool("srf", false, "write box.srf")
	flag.Parse()

	cfg := settings.DefaultSimpleMeshSettings()
	cfg.Density.BaseLen = *baseLen
	cfg.Density.MinLen = *baseLen / 10
	cfg.HalfMesh = *halfMesh

	mgr := &manager.CfdMeshMgr{
		Settings: cfg,
		Progress: func(msg string) { log.Println(msg) },
	}
	mgr.LoadSurfaces(unitBoxXfers())

	report, err := mgr.GenerateMesh()
	if err != nil {
		log.Fatalf("mesh generation failed: %v", err)
	}
	fmt.Print(report)

	if *writeSTL {
		path := filepath.Join(*outDir, "box.stl")
		if err := export.WriteSTL(path, mgr, false, nil); err != nil {
			log.Printf("write STL: %v", err)
		}
	}
	if *writeOBJ {
		path := filepath.Join(*outDir, "box.obj")
		if err := export.WriteOBJ(path, mgr); err != nil {
			log.Printf("write OBJ: %v", err)
		}
	}
	if *writeSRF {
		path := filepath.Join(*outDir, "box.srf")
		if err := export.WriteSRF(path, mgr); err != nil {
			log.Printf("write SRF: %v", err)
		}
	}
}

// unitBoxXfers builds six flat bicubic patches bounding the unit cube
// [0,1]^3, one CfdNormal transfer record per face, standing in for the
// geometry collaborator's transfer records of spec section 6.
func unitBoxXfers() []settings.XferSurf {
	corners := [8]geom.Coord3D{
		geom.XYZ(0, 0, 0), geom.XYZ(1, 0, 0),
		geom.XYZ(0, 1, 0), geom.XYZ(1, 1, 0),
		geom.XYZ(0, 0, 1), geom.XYZ(1, 0, 1),
		geom.XYZ(0, 1, 1), geom.XYZ(1, 1, 1),
	}
	// Each face lists its four corners so that (p10-p00) x (p01-p00) points
	// outward; FlipFlag is false throughout as a result.
	faces := [6][4]int{
		{0, 2, 1, 3}, // z = 0, outward -z
		{5, 7, 4, 6}, // z = 1, outward +z
		{1, 5, 0, 4}, // y = 0, outward -y
		{2, 6, 3, 7}, // y = 1, outward +y
		{4, 6, 0, 2}, // x = 0, outward -x
		{1, 3, 5, 7}, // x = 1, outward +x
	}

	out := make([]settings.XferSurf, 0, 6)
	for i, fc := range faces {
		p00, p10, p01, p11 := corners[fc[0]], corners[fc[1]], corners[fc[2]], corners[fc[3]]
		out = append(out, settings.XferSurf{
			GeomID:      "box",
			CompIndex:   0,
			SurfType:    settings.NormalSurface,
			CfdSurfType: settings.CfdNormal,
			NumU:        1,
			NumW:        1,
			U0:          0, Umax: 1,
			W0: 0, Wmax: 1,
			Ctrl: bilinearNet(p00, p10, p01, p11),
		})
		_ = i
	}
	return out
}

// bilinearNet builds the 4x4 control net of a flat bicubic Bezier patch
// spanning the bilinear quad (p00,p10,p01,p11), grounded on
// manager/farfield.go's bilinearPatch helper.
func bilinearNet(p00, p10, p01, p11 geom.Coord3D) [][]geom.Coord3D {
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
	return net
}
