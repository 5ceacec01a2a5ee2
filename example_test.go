package folio_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/aretw0/folio"
)

func writePost(dir, name, content string) {
	path := filepath.Join(dir, "_posts", name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		log.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		log.Fatal(err)
	}
}

// Example_build builds a two-part series and follows the link between the parts.
func Example_build() {
	dir, err := os.MkdirTemp("", "folio-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	writePost(dir, "2021-05-09-fpga-part-1.md", "---\ntitle: FPGA Part 1\ncategories: [fpga, hardware]\n---\nContinued in {% post_url 2021-05-10-fpga-part-2 %}.\n")
	writePost(dir, "2021-05-10-fpga-part-2.md", "---\ntitle: FPGA Part 2\ncategories: [fpga]\n---\nThe kernel.\n")

	ix, err := folio.Build(context.Background(), dir, folio.WithCache(false))
	if err != nil {
		log.Fatal(err)
	}

	for post := range ix.All() {
		fmt.Println(post.ID, post.Title, post.References)
	}
	// Output:
	// 2021-05-09-fpga-part-1 FPGA Part 1 [2021-05-10-fpga-part-2]
	// 2021-05-10-fpga-part-2 FPGA Part 2 []
}

// ExampleViewAll decodes custom front-matter keys into a struct.
func ExampleViewAll() {
	dir, err := os.MkdirTemp("", "folio-typed-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	writePost(dir, "2021-06-01-ray-tune.md", "---\ntitle: Ray Tune\nhardware: TPU v3-8\nworkers: 8\n---\nSearch.\n")

	ix, err := folio.Build(context.Background(), dir)
	if err != nil {
		log.Fatal(err)
	}

	type Experiment struct {
		Hardware string `json:"hardware"`
		Workers  int    `json:"workers"`
	}
	models, err := folio.ViewAll[Experiment](ix)
	if err != nil {
		log.Fatal(err)
	}
	for _, m := range models {
		fmt.Printf("%s runs on %s with %d workers\n", m.Post.ID, m.Data.Hardware, m.Data.Workers)
	}
	// Output:
	// 2021-06-01-ray-tune runs on TPU v3-8 with 8 workers
}
