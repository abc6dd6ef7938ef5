package domain

import (
	"strconv"

	"github.com/google/uuid"
)

// idNamespace scopes name-based IDs to this application.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("fusionqa"))

// DocumentID derives a stable document ID from its URI, so re-ingesting a
// source replaces its chunks instead of adding a copy.
func DocumentID(uri string) string {
	return uuid.NewSHA1(idNamespace, []byte(uri)).String()
}

// ChunkID derives a stable chunk ID from its document and position.
func ChunkID(documentID string, position int) string {
	return uuid.NewSHA1(idNamespace, []byte(documentID+"#"+strconv.Itoa(position))).String()
}
