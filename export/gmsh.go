package export

import (
	"bufio"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/aeromesh/cfdmesh/manager"
)

// gmshTriangleType is the Gmsh 2.2 ascii element-type code for a 3-node
// triangle.
const gmshTriangleType = 2

// WriteGmsh writes the Gmsh 2.2 ascii format of spec section 6:
// $MeshFormat, $Nodes, $Elements with every element a type-2 triangle
// carrying its tag as a physical/elementary region pair.
func WriteGmsh(path string, m *manager.CfdMeshMgr) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "write Gmsh")
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	tris := CollectLiveTriangles(m)
	ip := BuildIndexedPoints(tris)

	w.WriteString("$MeshFormat\n2.2 0 8\n$EndMeshFormat\n")

	fmt.Fprintf(w, "$Nodes\n%d\n", len(ip.Points))
	for i, p := range ip.Points {
		fmt.Fprintf(w, "%d %g %g %g\n", i+1, p.X, p.Y, p.Z)
	}
	w.WriteString("$EndNodes\n")

	fmt.Fprintf(w, "$Elements\n%d\n", len(ip.Tris))
	for i, t := range ip.Tris {
		tag := tris[i].Tag
		fmt.Fprintf(w, "%d %d 2 %d %d %d %d %d\n",
			i+1, gmshTriangleType, tag, tag, t[0]+1, t[1]+1, t[2]+1)
	}
	w.WriteString("$EndElements\n")

	return w.Flush()
}
