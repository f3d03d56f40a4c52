package export

import (
	"bufio"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/aeromesh/cfdmesh/manager"
)

// WriteSTL writes the ASCII STL export of spec section 6. In tagged mode
// it emits one "solid <tagname>" block per subsurface tag (a triangle with
// several tags is written once per tag it carries); in untagged mode it
// merges every non-wake triangle into one solid plus, when any wake
// triangle exists, a separate "wake" solid.
func WriteSTL(path string, m *manager.CfdMeshMgr, tagged bool, tagName func(tag int) string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "write STL")
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	tris := CollectLiveTriangles(m)
	if tagged {
		if err := writeSTLTagged(w, tris, tagName); err != nil {
			return errors.Wrap(err, "write STL")
		}
	} else {
		if err := writeSTLUntagged(w, tris); err != nil {
			return errors.Wrap(err, "write STL")
		}
	}
	return w.Flush()
}

func writeSTLTagged(w *bufio.Writer, tris []Tri, tagName func(tag int) string) error {
	byTag := map[int][]Tri{}
	var order []int
	for _, t := range tris {
		for _, tag := range t.Tags {
			if _, ok := byTag[tag]; !ok {
				order = append(order, tag)
			}
			byTag[tag] = append(byTag[tag], t)
		}
	}
	for _, tag := range order {
		name := fmt.Sprintf("tag%d", tag)
		if tagName != nil {
			if n := tagName(tag); n != "" {
				name = n
			}
		}
		if err := writeSTLSolid(w, name, byTag[tag]); err != nil {
			return err
		}
	}
	return nil
}

func writeSTLUntagged(w *bufio.Writer, tris []Tri) error {
	var body, wake []Tri
	for _, t := range tris {
		if t.Surf != nil && t.Surf.WakeFlag {
			wake = append(wake, t)
		} else {
			body = append(body, t)
		}
	}
	if err := writeSTLSolid(w, "model", body); err != nil {
		return err
	}
	if len(wake) > 0 {
		if err := writeSTLSolid(w, "wake", wake); err != nil {
			return err
		}
	}
	return nil
}

func writeSTLSolid(w *bufio.Writer, name string, tris []Tri) error {
	if _, err := fmt.Fprintf(w, "solid %s\n", name); err != nil {
		return err
	}
	for _, t := range tris {
		n := triNormal(t.V[0], t.V[1], t.V[2])
		if _, err := fmt.Fprintf(w, "  facet normal %g %g %g\n    outer loop\n", n.X, n.Y, n.Z); err != nil {
			return err
		}
		for _, v := range t.V {
			if _, err := fmt.Fprintf(w, "      vertex %g %g %g\n", v.X, v.Y, v.Z); err != nil {
				return err
			}
		}
		if _, err := w.WriteString("    endloop\n  endfacet\n"); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "endsolid %s\n", name); err != nil {
		return err
	}
	return nil
}
