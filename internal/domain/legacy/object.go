package legacy

import "github.com/kailas-cloud/searchapi/internal/domain/workspace"

// SubObjectType is the synthetic type reported for sub-object hits.
const SubObjectType = "GenomeFeature"

// ObjectData is one normalized v1 hit. Data, KeyProps and Highlight are
// omitted entirely when their post-processing flag suppresses them.
type ObjectData struct {
	ID      string `json:"id"`
	GUID    string `json:"guid"`
	KBaseID string `json:"kbase_id"`

	ObjectName *string `json:"object_name,omitempty"`
	Timestamp  any     `json:"timestamp,omitempty"`

	Type    string `json:"type"`
	TypeVer any    `json:"type_ver"`

	WorkspaceID          any    `json:"workspace_id"`
	ObjectID             any    `json:"object_id"`
	ObjectVersion        any    `json:"object_version"`
	WorkspaceTypeModule  any    `json:"workspace_type_module"`
	WorkspaceTypeName    string `json:"workspace_type_name"`
	WorkspaceTypeVersion any    `json:"workspace_type_version"`
	ModifiedAt           any    `json:"modified_at"`
	CreatedAt            *int64 `json:"created_at,omitempty"`
	Creator              any    `json:"creator"`
	Copied               any    `json:"copied"`

	IndexName    string `json:"index_name"`
	IndexVersion int    `json:"index_version"`

	Data      map[string]any      `json:"data,omitzero"`
	KeyProps  map[string]any      `json:"key_props,omitzero"`
	Highlight map[string][]string `json:"highlight,omitzero"`
}

// Enrichment holds the optional workspace lookup maps, keyed by the
// workspace ID as a string. A nil map is omitted from the response.
type Enrichment struct {
	NarrativeInfo map[string]workspace.NarrativeInfo `json:"access_group_narrative_info,omitzero"`
	GroupsInfo    map[string]workspace.Info          `json:"access_groups_info,omitzero"`
}

// SearchObjectsResult is the search_objects response.
type SearchObjectsResult struct {
	Pagination   Pagination    `json:"pagination"`
	SortingRules []SortingRule `json:"sorting_rules"`
	Total        int64         `json:"total"`
	SearchTime   int64         `json:"search_time"`
	Objects      []ObjectData  `json:"objects"`
	Enrichment
}

// SearchTypesResult is the search_types response.
type SearchTypesResult struct {
	TypeToCount map[string]int64 `json:"type_to_count"`
	SearchTime  int64            `json:"search_time"`
}

// GetObjectsResult is the get_objects response.
type GetObjectsResult struct {
	SearchTime int64        `json:"search_time"`
	Objects    []ObjectData `json:"objects"`
	Enrichment
}

// StatusResult is the status response.
type StatusResult struct {
	State         string `json:"state"`
	Version       string `json:"version"`
	Message       string `json:"message"`
	GitURL        string `json:"git_url"`
	GitCommitHash string `json:"git_commit_hash"`
}
