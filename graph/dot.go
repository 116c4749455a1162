package graph

import (
	"os"
	"strconv"

	"github.com/awalterschulze/gographviz"
)

// WriteDot renders g as a Graphviz dot file: one record-shaped node per
// graph node (with an attribute noting the node's degree) and one edge per
// strand, labeled with its signed id, length and mean coverage.
//
// Grounded on constructdbg.go:2594 (GraphvizDBGArr).
func WriteDot(path string, g *Graph) error {
	gv := gographviz.NewGraph()
	gv.SetName("G")
	gv.SetDir(true)
	gv.SetStrict(false)

	for _, n := range g.Nodes() {
		attr := map[string]string{
			"color": "Green",
			"shape": "record",
			"label": "\"" + strconv.Itoa(int(n.ID)) + " in:" + strconv.Itoa(len(n.In)) + " out:" + strconv.Itoa(len(n.Out)) + "\"",
		}
		gv.AddNode("G", strconv.Itoa(int(n.ID)), attr)
	}

	for _, e := range g.Edges() {
		attr := map[string]string{
			"color": "Blue",
			"label": "\"ID:" + strconv.FormatInt(int64(e.ID), 10) + " len:" + strconv.Itoa(e.Length) + " cov:" + strconv.FormatFloat(e.MeanCoverage, 'f', 1, 64) + "\"",
		}
		if e.AltHaplotype {
			attr["style"] = "dashed"
		}
		gv.AddEdge(strconv.Itoa(int(e.NodeLeft)), strconv.Itoa(int(e.NodeRight)), true, attr)
	}

	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fp.Close()

	_, err = fp.WriteString(gv.String())
	return err
}
