// Copyright 2026 The Vertex SDK Authors
// SPDX-License-Identifier: Apache-2.0

package dropbox

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// KeySuffix selects how the final component of an object key is
// formed.
type KeySuffix int

const (
	// SuffixEpochSeconds appends the batch timestamp in Unix seconds.
	// Two batches for the same owner within one second overwrite each
	// other's documents.
	SuffixEpochSeconds KeySuffix = iota
	// SuffixEpochUnique appends the batch timestamp followed by eight
	// random hex digits per document.
	SuffixEpochUnique
)

// ParseKeySuffix parses "epoch_seconds" or "epoch_unique". The empty
// string selects SuffixEpochSeconds.
func ParseKeySuffix(s string) (KeySuffix, error) {
	switch strings.TrimSpace(s) {
	case "", "epoch_seconds":
		return SuffixEpochSeconds, nil
	case "epoch_unique":
		return SuffixEpochUnique, nil
	default:
		return 0, fmt.Errorf("unknown key suffix %q (expected epoch_seconds or epoch_unique)", s)
	}
}

func (s KeySuffix) String() string {
	if s == SuffixEpochUnique {
		return "epoch_unique"
	}
	return "epoch_seconds"
}

// baseKey is the key without its suffix: <type> or <type>_<context>.
func baseKey(docType, context string) string {
	if context == "" {
		return docType
	}
	return docType + "_" + context
}

// keyFormatter derives object keys for one batch.
type keyFormatter struct {
	suffix KeySuffix
	epoch  int64
	random func() uuid.UUID
}

func (f keyFormatter) key(docType, context string) string {
	key := baseKey(docType, context) + "_" + strconv.FormatInt(f.epoch, 10)
	if f.suffix == SuffixEpochUnique {
		id := f.random()
		key += "_" + strings.ReplaceAll(id.String(), "-", "")[:8]
	}
	return key
}
