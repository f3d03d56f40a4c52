package export

import (
	"bufio"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/aeromesh/cfdmesh/manager"
)

// WriteNascart writes the NASCART .dat format of spec section 6: header
// "<npnt> <ntri>", points permuted to (x, z, -y), triangles as
// (i0, i2, i1, tag.0) with 1-based indices.
func WriteNascart(path string, m *manager.CfdMeshMgr) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "write NASCART")
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	tris := CollectLiveTriangles(m)
	ip := BuildIndexedPoints(tris)

	fmt.Fprintf(w, "%d %d\n", len(ip.Points), len(ip.Tris))
	for _, p := range ip.Points {
		fmt.Fprintf(w, "%g %g %g\n", p.X, p.Z, -p.Y)
	}
	for i, t := range ip.Tris {
		fmt.Fprintf(w, "%d %d %d %d.0\n", t[0]+1, t[2]+1, t[1]+1, tris[i].Tag)
	}
	return w.Flush()
}
