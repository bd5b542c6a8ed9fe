package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/Faultbox/meshprep/internal/importer"
)

func cmdInfo(args []string) error {
	fs, flags := newFlagSet("info")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return errors.New("usage: meshprep info [options] <scene>...")
	}

	cfg, err := setup(flags)
	if err != nil {
		return err
	}

	imp, err := loadScenes(cfg, fs.Args())
	if err != nil {
		return err
	}
	defer imp.Reset()

	if err := imp.PostprocessMeshesContext(context.Background()); err != nil {
		return err
	}

	printMeshes(imp)
	printMaterials(imp)
	return printBones(imp)
}

func printMeshes(imp *importer.Importer) {
	fmt.Printf("Meshes: %d\n", len(imp.Meshes))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  NAME\tSLOT\tVERTICES\tMIN\tMAX\tRADIUS²")
	for _, m := range imp.Meshes {
		if len(m.Vertices) == 0 {
			fmt.Fprintf(w, "  %s\t%d\t0\t-\t-\t-\n", m.Name(), m.SubmeshIndex)
			continue
		}
		fmt.Fprintf(w, "  %s\t%d\t%d\t%.3f\t%.3f\t%.3f\n",
			m.Name(), m.SubmeshIndex, len(m.Vertices),
			m.AABB.Min.Array(), m.AABB.Max.Array(), m.RadiusSquared)
	}
	w.Flush()
	fmt.Println()
}

func printMaterials(imp *importer.Importer) {
	fmt.Printf("Materials: %d\n", len(imp.Materials))
	for _, mat := range imp.Materials {
		fmt.Printf("  %s\n", mat.Material.Name)
		for slot, tex := range mat.Textures {
			if !tex.Import {
				continue
			}
			label := "diffuse"
			if slot == importer.TextureNormal {
				label = "normal"
			}
			fmt.Printf("    %-8s %s\n", label, tex.Path)
		}
	}
	fmt.Println()
}

func printBones(imp *importer.Importer) error {
	fmt.Printf("Bones: %d\n", len(imp.Bones))
	for _, b := range imp.Bones {
		fmt.Printf("  %*s%s\n", 2*(b.Depth-1), "", b.Node.Name)
	}

	// Every cluster link of a skinned mesh must resolve to a bind pose.
	for _, m := range imp.Meshes {
		if !imp.IsSkinned(m.Mesh) {
			continue
		}
		for _, c := range m.Mesh.Geometry.Skin.Clusters {
			if _, err := importer.BindPoseMatrix(m.Mesh, c.Link); err != nil {
				return err
			}
		}
	}
	return nil
}
