// Copyright 2026 The Vertex SDK Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/sava-africa/vertex-go/cmd/vertex/cli"
	"github.com/sava-africa/vertex-go/lib/dropbox"
)

func dropboxCommand(env *Environment) *cli.Command {
	return &cli.Command{
		Name:    "dropbox",
		Summary: "Provision, fill and submit KYC/KYB document dropboxes",
		Description: `Manage document dropboxes.

A dropbox is a per-owner object-store bucket: kyc_dropbox_<user id> for
a user's identity documents, kyb_dropbox_<entity id> for a business and
its directors.`,
		Subcommands: []*cli.Command{
			dropboxEnsureCommand(env),
			dropboxUploadCommand(env),
			dropboxSubmitCommand(env),
		},
	}
}

// ownerParams select one dropbox.
type ownerParams struct {
	Kind  string `flag:"kind" desc:"dropbox kind: kyc or kyb"`
	Owner string `flag:"owner" desc:"user id (kyc) or entity id (kyb)"`
}

func (p ownerParams) parse() (dropbox.Kind, error) {
	if p.Kind == "" {
		return 0, errors.New("--kind is required")
	}
	kind, err := dropbox.ParseKind(p.Kind)
	if err != nil {
		return 0, err
	}
	if p.Owner == "" {
		return 0, errors.New("--owner is required")
	}
	return kind, dropbox.ValidateID(p.Owner)
}

type ensureParams struct {
	globalParams
	ownerParams
}

type ensureView struct {
	Bucket string `json:"bucket"`
	State  string `json:"state"`
}

func dropboxEnsureCommand(env *Environment) *cli.Command {
	var params ensureParams
	return &cli.Command{
		Name:    "ensure",
		Summary: "Provision a dropbox without uploading",
		Usage:   "vertex dropbox ensure --kind kyc|kyb --owner <id> [flags]",
		Examples: []cli.Example{
			{Description: "Provision a user's KYC dropbox", Command: "vertex dropbox ensure --kind kyc --owner usr-1"},
		},
		Flags: func() *pflag.FlagSet {
			params = ensureParams{}
			return cli.FlagsFromParams("ensure", &params)
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected arguments: %v", args)
			}
			kind, err := params.parse()
			if err != nil {
				return err
			}
			s, err := env.open(params.globalParams, "dropbox/ensure")
			if err != nil {
				return err
			}
			defer s.Close()

			outcome, err := s.client.EnsureDropbox(env.Context, kind, params.Owner)
			if err != nil {
				return err
			}
			view := ensureView{Bucket: kind.BucketName(params.Owner), State: outcome.State.String()}
			if done, err := params.EmitJSON(env.Stdout, view); done {
				return err
			}
			_, err = fmt.Fprintf(env.Stdout, "%s %s\n", view.Bucket, view.State)
			return err
		},
	}
}

type uploadParams struct {
	globalParams
	ownerParams
	Docs         []string `flag:"doc" desc:"owner document as type=path, repeatable"`
	SubOwnerDocs []string `flag:"sub-owner-doc" desc:"sub-owner document as id:type=path, repeatable"`
	Policy       string   `flag:"policy" desc:"failure policy: all_or_nothing or fail_fast (default: per kind)"`
	Submit       bool     `flag:"submit" desc:"submit the stored keys for review after upload"`
}

func dropboxUploadCommand(env *Environment) *cli.Command {
	var params uploadParams
	return &cli.Command{
		Name:    "upload",
		Summary: "Upload documents into a dropbox",
		Usage:   "vertex dropbox upload --kind kyc|kyb --owner <id> --doc type=path ... [flags]",
		Description: `Upload a batch of documents into the owner's dropbox, provisioning it
first if needed. Each document is stored under <type>[_<context>]_<epoch>.

The first failed document aborts the batch. KYC batches default to
all_or_nothing, which reports the batch as failed; KYB batches default to
fail_fast, which reports the failed document.`,
		Examples: []cli.Example{
			{
				Description: "Upload and submit a user's KYC documents",
				Command: "vertex dropbox upload --kind kyc --owner usr-1 --doc kyc_id_front=front.jpg " +
					"--doc kyc_id_back=back.jpg --doc kyc_proof_of_residence=bill.pdf --submit",
			},
			{
				Description: "Upload business and director documents",
				Command: "vertex dropbox upload --kind kyb --owner ent-1 --doc business_registration=reg.pdf " +
					"--sub-owner-doc dir-1:director_id_front=id.jpg",
			},
		},
		Flags: func() *pflag.FlagSet {
			params = uploadParams{}
			return cli.FlagsFromParams("upload", &params)
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected arguments: %v", args)
			}
			return env.upload(params)
		},
	}
}

func (env *Environment) upload(params uploadParams) error {
	kind, err := params.parse()
	if err != nil {
		return err
	}
	policy, err := dropbox.ParseFailurePolicy(params.Policy)
	if err != nil {
		return err
	}
	request := dropbox.Request{Kind: kind, OwnerID: params.Owner, Policy: policy}
	for _, value := range params.Docs {
		docType, path, err := parseAssignment(value)
		if err != nil {
			return fmt.Errorf("--doc: %w", err)
		}
		request.Documents = append(request.Documents, dropbox.FileDocument(docType, path))
	}
	subOwners, err := parseSubOwnerValues(params.SubOwnerDocs, "--sub-owner-doc")
	if err != nil {
		return err
	}
	for _, subOwner := range subOwners {
		entry := dropbox.SubOwner{ID: subOwner.id}
		for _, pair := range subOwner.assignments {
			entry.Documents = append(entry.Documents, dropbox.FileDocument(pair.docType, pair.value))
		}
		request.SubOwners = append(request.SubOwners, entry)
	}

	s, err := env.open(params.globalParams, "dropbox/upload")
	if err != nil {
		return err
	}
	defer s.Close()

	result, err := s.client.Upload(env.Context, request)
	if err != nil {
		var batchErr *dropbox.BatchError
		if errors.As(err, &batchErr) && !params.OutputJSON {
			fmt.Fprintf(env.Stderr, "upload aborted after %d of %d documents:\n", batchErr.Attempted, batchErr.Total)
			for _, failure := range batchErr.Failures {
				fmt.Fprintf(env.Stderr, "  %s (%s): %v\n", failure.Key, failure.Type, failure.Err)
			}
			return &cli.ExitError{Code: 1}
		}
		return err
	}

	view := newResultView(result)
	if params.Submit {
		if err := env.submit(s, result); err != nil {
			return err
		}
		view.Submitted = true
	}
	if done, err := params.EmitJSON(env.Stdout, view); done {
		return err
	}
	return view.write(env.Stdout)
}

type submitParams struct {
	globalParams
	ownerParams
	Keys         []string `flag:"key" desc:"stored owner document as type=key, repeatable"`
	SubOwnerKeys []string `flag:"sub-owner-key" desc:"stored sub-owner document as id:type=key, repeatable"`
}

func dropboxSubmitCommand(env *Environment) *cli.Command {
	var params submitParams
	return &cli.Command{
		Name:    "submit",
		Summary: "Submit previously uploaded documents for review",
		Usage:   "vertex dropbox submit --kind kyc|kyb --owner <id> --key type=key ... [flags]",
		Examples: []cli.Example{
			{
				Description: "Submit a user's KYC documents",
				Command: "vertex dropbox submit --kind kyc --owner usr-1 --key kyc_id_front=kyc_id_front_usr-1_1700000000 " +
					"--key kyc_proof_of_residence=kyc_proof_of_residence_usr-1_1700000000",
			},
		},
		Flags: func() *pflag.FlagSet {
			params = submitParams{}
			return cli.FlagsFromParams("submit", &params)
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected arguments: %v", args)
			}
			kind, err := params.parse()
			if err != nil {
				return err
			}
			result := &dropbox.Result{Kind: kind, OwnerID: params.Owner, Bucket: kind.BucketName(params.Owner)}
			for _, value := range params.Keys {
				docType, key, err := parseAssignment(value)
				if err != nil {
					return fmt.Errorf("--key: %w", err)
				}
				result.Documents = append(result.Documents, dropbox.Uploaded{Type: docType, Key: key})
			}
			subOwners, err := parseSubOwnerValues(params.SubOwnerKeys, "--sub-owner-key")
			if err != nil {
				return err
			}
			for _, subOwner := range subOwners {
				entry := dropbox.SubOwnerResult{ID: subOwner.id}
				for _, pair := range subOwner.assignments {
					entry.Documents = append(entry.Documents, dropbox.Uploaded{Type: pair.docType, Key: pair.value})
				}
				result.SubOwners = append(result.SubOwners, entry)
			}

			s, err := env.open(params.globalParams, "dropbox/submit")
			if err != nil {
				return err
			}
			defer s.Close()

			if err := env.submit(s, result); err != nil {
				return err
			}
			view := newResultView(result)
			view.State = ""
			view.Submitted = true
			if done, err := params.EmitJSON(env.Stdout, view); done {
				return err
			}
			_, err = fmt.Fprintf(env.Stdout, "submitted %d document(s) for %s %s\n",
				len(result.Documents)+countSubOwnerDocuments(result), kind, params.Owner)
			return err
		},
	}
}

func (env *Environment) submit(s *session, result *dropbox.Result) error {
	switch result.Kind {
	case dropbox.KYC:
		response, err := s.client.SubmitKYC(env.Context, result)
		if err != nil {
			return fmt.Errorf("submitting kyc documents: %w", err)
		}
		s.logger.Info("kyc documents submitted", "owner", result.OwnerID, "message", response.Message)
	case dropbox.KYB:
		if _, err := s.client.SubmitKYB(env.Context, result); err != nil {
			return fmt.Errorf("submitting kyb documents: %w", err)
		}
		s.logger.Info("kyb documents submitted", "owner", result.OwnerID)
	default:
		return fmt.Errorf("cannot submit %s documents", result.Kind)
	}
	return nil
}

// parseAssignment splits "type=value".
func parseAssignment(value string) (string, string, error) {
	docType, rest, ok := strings.Cut(value, "=")
	if !ok || docType == "" || rest == "" {
		return "", "", fmt.Errorf("%q is not type=value", value)
	}
	return docType, rest, nil
}

type assignment struct {
	docType string
	value   string
}

type subOwnerValues struct {
	id          string
	assignments []assignment
}

// parseSubOwnerValues groups "id:type=value" flags by sub-owner id, in
// order of first appearance.
func parseSubOwnerValues(values []string, flag string) ([]subOwnerValues, error) {
	var subOwners []subOwnerValues
	index := make(map[string]int)
	for _, value := range values {
		id, rest, ok := strings.Cut(value, ":")
		if !ok || id == "" {
			return nil, fmt.Errorf("%s: %q is not id:type=value", flag, value)
		}
		docType, assigned, err := parseAssignment(rest)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", flag, err)
		}
		position, seen := index[id]
		if !seen {
			position = len(subOwners)
			index[id] = position
			subOwners = append(subOwners, subOwnerValues{id: id})
		}
		subOwners[position].assignments = append(subOwners[position].assignments, assignment{docType: docType, value: assigned})
	}
	return subOwners, nil
}

func countSubOwnerDocuments(result *dropbox.Result) int {
	count := 0
	for _, subOwner := range result.SubOwners {
		count += len(subOwner.Documents)
	}
	return count
}

type documentView struct {
	SubOwner string `json:"sub_owner,omitempty"`
	Type     string `json:"type"`
	Filename string `json:"filename,omitempty"`
	Key      string `json:"key"`
	Size     uint64 `json:"size,omitempty"`
	Digest   string `json:"digest,omitempty"`
}

type resultView struct {
	Kind      string         `json:"kind"`
	Owner     string         `json:"owner"`
	Bucket    string         `json:"bucket"`
	State     string         `json:"state,omitempty"`
	Documents []documentView `json:"documents"`
	Submitted bool           `json:"submitted"`
}

func newResultView(result *dropbox.Result) *resultView {
	view := &resultView{
		Kind:      result.Kind.String(),
		Owner:     result.OwnerID,
		Bucket:    result.Bucket,
		State:     result.Outcome.State.String(),
		Documents: []documentView{},
	}
	add := func(subOwner string, documents []dropbox.Uploaded) {
		for _, document := range documents {
			view.Documents = append(view.Documents, documentView{
				SubOwner: subOwner,
				Type:     document.Type,
				Filename: document.Filename,
				Key:      document.Key,
				Size:     document.Size,
				Digest:   document.Digest,
			})
		}
	}
	add("", result.Documents)
	for _, subOwner := range result.SubOwners {
		add(subOwner.ID, subOwner.Documents)
	}
	return view
}

func (v *resultView) write(w io.Writer) error {
	fmt.Fprintf(w, "bucket %s", v.Bucket)
	if v.State != "" {
		fmt.Fprintf(w, " (%s)", v.State)
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "SUB-OWNER\tTYPE\tKEY\tSIZE")
	for _, document := range v.Documents {
		subOwner := document.SubOwner
		if subOwner == "" {
			subOwner = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", subOwner, document.Type, document.Key, document.Size)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if v.Submitted {
		_, err := fmt.Fprintln(w, "submitted for review")
		return err
	}
	return nil
}
