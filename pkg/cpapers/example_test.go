package cpapers_test

import (
	"context"
	"fmt"
	"log"

	"github.com/rendis/papergraph/pkg/cpapers"
)

func ExampleClient_GetGraphStream() {
	client, err := cpapers.NewClientFromEnv()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	for res := range client.GetGraphStream(ctx, "8b0e8c305c8a746a4056b87dce2c2c16e5e51681", false, true) {
		if res.Err != nil {
			log.Fatal(res.Err)
		}
		fmt.Printf("status=%s", res.Snapshot.Status)
		if res.Snapshot.Progress != nil {
			fmt.Printf(" progress=%.0f%%", *res.Snapshot.Progress*100)
		}
		fmt.Println()
	}
}

func ExampleClient_GetGraph() {
	client := cpapers.NewClient(cpapers.Config{APIKey: "your-api-key"})

	snapshot, err := client.GetGraph(context.Background(), "8b0e8c305c8a746a4056b87dce2c2c16e5e51681", false)
	if err != nil {
		log.Fatal(err)
	}
	if g := snapshot.GraphJSON; g != nil {
		fmt.Printf("%d papers around %s\n", len(g.Nodes), g.StartID)
	}
}
