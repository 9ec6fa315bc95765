package legacy

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kailas-cloud/searchapi/internal/domain"
)

const (
	docIDNamespace = "WS::"
	guidNamespace  = "WS:"
)

var secondaryNamespace = regexp.MustCompile(`::..::.+`)

// GUIDFromDocID derives the v1 guid from a document ID:
// "WS::12:34" with version 3 becomes "WS:12/34/3". A secondary namespace
// ("WS::12:34::ft::gene") is dropped. A nil version means 1.
func GUIDFromDocID(id string, version any) string {
	s := strings.ReplaceAll(id, docIDNamespace, "")
	s = secondaryNamespace.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, ":", "/")
	if version == nil {
		version = 1
	}
	return fmt.Sprintf("%s%s/%v", guidNamespace, s, version)
}

// KBaseID is the guid without its namespace: "12/34/3".
func KBaseID(guid string) string {
	return strings.TrimPrefix(guid, guidNamespace)
}

// DocIDFromGUID reverses GUIDFromDocID: "WS:12/34/3" becomes "WS::12:34".
// The version segment is optional.
func DocIDFromGUID(guid string) (string, error) {
	rest, ok := strings.CutPrefix(guid, guidNamespace)
	if !ok || strings.HasPrefix(rest, ":") {
		return "", domain.InvalidParams("invalid guid %q: want WS:<workspace>/<object>[/<version>]", guid)
	}
	parts := strings.Split(rest, "/")
	if len(parts) < 2 || len(parts) > 3 {
		return "", domain.InvalidParams("invalid guid %q: want WS:<workspace>/<object>[/<version>]", guid)
	}
	for _, p := range parts {
		if p == "" {
			return "", domain.InvalidParams("invalid guid %q: empty segment", guid)
		}
	}
	return docIDNamespace + parts[0] + ":" + parts[1], nil
}
