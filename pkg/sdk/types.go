package searchapi

import (
	domlegacy "github.com/kailas-cloud/searchapi/internal/domain/legacy"
	"github.com/kailas-cloud/searchapi/internal/domain/search/filter"
	"github.com/kailas-cloud/searchapi/internal/domain/search/request"
	"github.com/kailas-cloud/searchapi/internal/domain/search/result"
)

// Request types of the v2 methods.
type (
	SearchObjectsRequest   = request.SearchObjects
	SearchTypesRequest     = request.SearchTypes
	GetObjectsRequest      = request.GetObjects
	SearchWorkspaceRequest = request.SearchWorkspace
	Filter                 = filter.Node
	FilterRange            = filter.Range
)

// Result types of the v2 methods.
type (
	Hits          = result.Raw
	Hit           = result.Hit
	TypeCounts    = result.TypeCounts
	WorkspaceHits = result.WorkspaceHits
	IndexInfo     = result.IndexInfo
)

// Legacy search_objects types.
type (
	LegacySearchObjectsParams = domlegacy.SearchObjectsParams
	LegacySearchObjectsResult = domlegacy.SearchObjectsResult
	LegacyObject              = domlegacy.ObjectData
)
