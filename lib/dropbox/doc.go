// Copyright 2026 The Vertex SDK Authors
// SPDX-License-Identifier: Apache-2.0

// Package dropbox uploads identity-verification documents into
// per-owner JetStream object store buckets ("dropboxes") from which the
// backend later retrieves them.
//
// Every owner gets one bucket, named from the verification [Kind] and
// the owner identifier: kyc_dropbox_<user> for personal (KYC) documents
// and kyb_dropbox_<entity> for business (KYB) documents. Buckets are
// created on first use with a fixed [StoragePolicy] (100 MiB, file
// storage, one replica, 90 day retention) by [EnsureBucket], which is
// safe to race: when two clients create the same bucket at once, the
// loser rechecks once and binds to the winner's bucket.
//
// [Uploader] stores a batch of documents into the bucket under keys
// derived from the document type, an optional context (owner or
// sub-owner id) and a suffix shared by the whole batch:
//
//	id_front_<user>_1718000000
//	business_registration_1718000000
//	director_id_front_dir-7_1718000000
//
// Each object carries an original_filename header. The returned
// [Result] lists the keys in caller order so they can be handed to the
// backend submission endpoints.
//
// The first failed document aborts the rest of the batch. Under
// [AllOrNothing] the batch fails as a whole with a [*BatchError]; under
// [FailFast] the failed document's [*UploadError] is returned. Stored
// documents are never rolled back; the bucket's TTL reclaims abandoned
// uploads.
//
// The object store is reached through the narrow [BucketAPI] interface.
// [NewJetStreamBuckets] implements it over nats.go/jetstream; tests use
// in-memory fakes.
package dropbox
