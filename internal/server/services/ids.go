package services

import (
	"github.com/dmitrijs2005/profilehub/internal/common"
	"github.com/google/uuid"
)

// canonicalProfileID returns the lower-case hyphenated form of a profile id.
// uuid.Parse accepts upper-case, braced and urn:uuid: spellings which the
// database treats as the same value, so locks and queries must only ever see
// the canonical one.
func canonicalProfileID(id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", common.ErrProfileNotFound
	}
	return u.String(), nil
}
