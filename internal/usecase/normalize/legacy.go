package normalize

import (
	"time"

	"github.com/kailas-cloud/searchapi/internal/domain/legacy"
	"github.com/kailas-cloud/searchapi/internal/domain/search/result"
	"github.com/kailas-cloud/searchapi/internal/domain/workspace"
)

// docToObject renames global document fields to their v1 names.
var docToObject = map[string]string{
	"obj_name":         "object_name",
	"access_group":     "workspace_id",
	"obj_id":           "object_id",
	"version":          "object_version",
	"obj_type_module":  "workspace_type_module",
	"obj_type_name":    "workspace_type_name",
	"obj_type_version": "workspace_type_version",
	"timestamp":        "modified_at",
}

// notData lists the document fields that never appear in data: mapped,
// copied, excluded and transformed fields.
var notData = map[string]struct{}{
	"creator":          {},
	"copied":           {},
	"is_public":        {},
	"shared_users":     {},
	"tags":             {},
	"index_runner_ver": {},
	"creation_date":    {},
}

const subObjectMarker = "genome_feature_type"

// Legacy builds v1 results.
type Legacy struct {
	cfg Config
}

// NewLegacy creates a v1 normalizer.
func NewLegacy(cfg Config) *Legacy {
	return &Legacy{cfg: cfg}
}

// SearchObjects builds the search_objects result, echoing pagination and
// the sorting rules that were applied. Enrichment maps are filled in by the
// caller.
func (n *Legacy) SearchObjects(p legacy.SearchObjectsParams, raw result.Raw) legacy.SearchObjectsResult {
	out := legacy.SearchObjectsResult{
		SortingRules: p.Sorting(),
		Total:        raw.Count,
		SearchTime:   raw.SearchTime,
		Objects:      n.Objects(raw.Hits, p.PostProcessing),
	}
	if p.Pagination != nil {
		out.Pagination = *p.Pagination
	}
	return out
}

// SearchTypes flattens the type aggregation.
func (n *Legacy) SearchTypes(raw result.Raw) legacy.SearchTypesResult {
	return legacy.SearchTypesResult{
		TypeToCount: typeCounts(raw),
		SearchTime:  raw.SearchTime,
	}
}

// GetObjects builds the get_objects result.
func (n *Legacy) GetObjects(p legacy.GetObjectsParams, raw result.Raw) legacy.GetObjectsResult {
	return legacy.GetObjectsResult{
		SearchTime: raw.SearchTime,
		Objects:    n.Objects(raw.Hits, p.PostProcessing),
	}
}

// Objects converts hits to ObjectData under the post-processing flags.
func (n *Legacy) Objects(hits []result.Hit, pp legacy.PostProcessing) []legacy.ObjectData {
	pp = pp.Normalize()
	out := make([]legacy.ObjectData, 0, len(hits))
	for _, h := range hits {
		out = append(out, n.object(h, pp))
	}
	return out
}

func (n *Legacy) object(h result.Hit, pp legacy.PostProcessing) legacy.ObjectData {
	doc := h.Doc
	typeName, _ := doc["obj_type_name"].(string)

	obj := legacy.ObjectData{
		ID:                   h.ID,
		Type:                 typeName,
		TypeVer:              doc["obj_type_version"],
		WorkspaceID:          doc["access_group"],
		ObjectID:             doc["obj_id"],
		ObjectVersion:        doc["version"],
		WorkspaceTypeModule:  doc["obj_type_module"],
		WorkspaceTypeName:    typeName,
		WorkspaceTypeVersion: doc["obj_type_version"],
		ModifiedAt:           doc["timestamp"],
		Creator:              doc["creator"],
		Copied:               doc["copied"],
	}
	if _, ok := doc[subObjectMarker]; ok {
		obj.Type = legacy.SubObjectType
	}

	obj.GUID = legacy.GUIDFromDocID(h.ID, doc["obj_type_version"])
	obj.KBaseID = legacy.KBaseID(obj.GUID)
	obj.IndexName, obj.IndexVersion = n.cfg.splitIndex(h.Index)

	if created, ok := doc["creation_date"].(string); ok {
		if ms, ok := epochMillis(created); ok {
			obj.CreatedAt = &ms
		}
	}

	if !pp.SkipInfo {
		name, _ := doc["obj_name"].(string)
		obj.ObjectName = &name
		obj.Timestamp = doc["timestamp"]
	}

	data := objectData(doc)
	if !pp.SkipData {
		obj.Data = data
		if !pp.SkipKeys {
			obj.KeyProps = data
		}
	}

	if pp.IncludeHighlight {
		obj.Highlight = make(map[string][]string, len(h.Highlight))
		for field, snippets := range h.Highlight {
			if mapped, ok := docToObject[field]; ok {
				field = mapped
			}
			obj.Highlight[field] = snippets
		}
	}
	return obj
}

// objectData is the type-specific part of doc.
func objectData(doc map[string]any) map[string]any {
	data := make(map[string]any, len(doc))
	for k, v := range doc {
		if _, ok := docToObject[k]; ok {
			continue
		}
		if _, ok := notData[k]; ok {
			continue
		}
		data[k] = v
	}
	return data
}

// epochMillis accepts both "+0000" and RFC 3339 zone offsets.
func epochMillis(date string) (int64, bool) {
	if ms, err := workspace.EpochMillis(date); err == nil {
		return ms, true
	}
	t, err := time.Parse(time.RFC3339, date)
	if err != nil {
		return 0, false
	}
	return t.UnixMilli(), true
}
