// Copyright 2026 The Vertex SDK Authors
// SPDX-License-Identifier: Apache-2.0

package dropbox

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
)

// Document is one file to upload. Type names what the document is
// ("id_front", "proof_of_address", ...) and becomes the key prefix.
// Filename is recorded in the original_filename header. Open is called
// once, when the document is uploaded.
type Document struct {
	Type     string
	Filename string
	Open     func() (io.ReadCloser, error)
}

// FileDocument returns a document read from path at upload time.
func FileDocument(docType, path string) Document {
	return Document{
		Type:     docType,
		Filename: filepath.Base(path),
		Open:     func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

// BytesDocument returns a document whose content is held in memory.
func BytesDocument(docType, filename string, data []byte) Document {
	return Document{
		Type:     docType,
		Filename: filename,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// SubOwner groups the documents of one person attached to the owner,
// such as a director of a business entity.
type SubOwner struct {
	ID        string
	Documents []Document
}
