// Package dag provides the small directed graph behind tree_score.
//
// Manifest parsers hang every declared dependency below a virtual project
// root; lock files add the edges between packages. Model cards add lineage
// edges from the model to its base models and training datasets:
//
//	g := dag.New()
//	g.Add("__project__", dag.KindRoot, "")
//	g.Add("torch", dag.KindPackage, "requirements.txt")
//	g.Link("__project__", "torch")
//	depth := g.Depth("__project__")
//
// [Graph.Depth], [Graph.Reachable] and [Graph.MaxOutDegree] summarize the
// shape below a node. None of them loop on cyclic input.
package dag
