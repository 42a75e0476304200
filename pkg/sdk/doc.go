// Package ragserver provides an embeddable Go client for the ragserver
// document search pipeline: ingest files into a Redis-backed vector index
// and run hybrid (vector + keyword) retrieval, without running the HTTP
// server.
//
//	client, _ := ragserver.New(ctx,
//	    ragserver.WithRedis("localhost:6379", ""),
//	    ragserver.WithEmbedder(myEmbedder),
//	    ragserver.WithVectorDimensions(1536),
//	)
//	defer client.Close()
//
//	report, _ := client.IngestFile(ctx, "paper.pdf", nil)
//	results, _ := client.Search(ctx, "attention mechanisms", nil)
package ragserver
