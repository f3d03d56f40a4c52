package export

import (
	"bufio"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/aeromesh/cfdmesh/manager"
)

// WriteOBJ writes the Wavefront OBJ format of spec section 6: "v" lines
// permuted to (x, z, -y), "f" triangles with 1-based indices, grounded on
// model3d/export.go's BuildMaterialOBJ point/face-line shape.
func WriteOBJ(path string, m *manager.CfdMeshMgr) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "write OBJ")
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	ip := BuildIndexedPoints(CollectLiveTriangles(m))

	for _, p := range ip.Points {
		fmt.Fprintf(w, "v %g %g %g\n", p.X, p.Z, -p.Y)
	}
	for _, t := range ip.Tris {
		fmt.Fprintf(w, "f %d %d %d\n", t[0]+1, t[1]+1, t[2]+1)
	}
	return w.Flush()
}
