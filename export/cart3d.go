package export

import (
	"bufio"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/aeromesh/cfdmesh/manager"
)

// WriteCart3D writes the Cart3D .tri format of spec section 6: header
// "<npnt> <ntri>", points in (x,y,z), triangles in (i0,i1,i2) 1-based,
// then one tag per triangle in a trailing block.
func WriteCart3D(path string, m *manager.CfdMeshMgr) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "write Cart3D tri")
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	tris := CollectLiveTriangles(m)
	ip := BuildIndexedPoints(tris)

	fmt.Fprintf(w, "%d %d\n", len(ip.Points), len(ip.Tris))
	for _, p := range ip.Points {
		fmt.Fprintf(w, "%g %g %g\n", p.X, p.Y, p.Z)
	}
	for _, t := range ip.Tris {
		fmt.Fprintf(w, "%d %d %d\n", t[0]+1, t[1]+1, t[2]+1)
	}
	for _, t := range tris {
		fmt.Fprintf(w, "%d\n", t.Tag)
	}
	return w.Flush()
}
