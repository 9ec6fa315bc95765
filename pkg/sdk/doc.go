// Package searchapi embeds the search API pipeline in a Go program.
//
// The client talks to Elasticsearch directly and to the workspace and user
// profile services for access control and enrichment, the same way the
// HTTP server does. It is meant for batch jobs and internal tools that would
// otherwise go through the JSON-RPC endpoints.
//
//	client, err := searchapi.New(ctx,
//	    searchapi.WithElasticsearch("http://localhost:9200"),
//	    searchapi.WithIndexPrefix("search2", "."),
//	    searchapi.WithWorkspace("https://kbase.us/services/ws"),
//	    searchapi.WithUserProfile("https://kbase.us/services/user_profile/rpc"),
//	    searchapi.WithTypes(map[string]string{"Genome": "genome"}, nil),
//	)
//	res, err := client.SearchObjects(ctx, token, searchapi.SearchObjectsRequest{
//	    Indexes: []string{"genome"},
//	    Query:   map[string]any{"match": map[string]any{"obj_name": "coli"}},
//	})
package searchapi
