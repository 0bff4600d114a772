// Copyright 2026 The Vertex SDK Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"github.com/tidwall/jsonc"

	"github.com/sava-africa/vertex-go/cmd/vertex/cli"
	"github.com/sava-africa/vertex-go/lib/codec"
	"github.com/sava-africa/vertex-go/lib/subject"
)

type callParams struct {
	globalParams
	Params   []string `flag:"param,p" desc:"subject wildcard value, repeatable (default: the configured partner id)"`
	Body     string   `flag:"body" desc:"request body as JSON or JSONC"`
	BodyFile string   `flag:"body-file" desc:"read the request body from a file, - for stdin"`
}

func callCommand(env *Environment) *cli.Command {
	var params callParams
	return &cli.Command{
		Name:    "call",
		Summary: "Invoke a service operation and print the reply",
		Description: `Invoke a Vertex service operation by subject template and print the
JSON reply.

Each '*' in the template is filled from --param, left to right. With no
--param, the configured partner id fills a single wildcard. The body
may contain comments and trailing commas.`,
		Usage: "vertex call <template> [flags]",
		Examples: []cli.Example{
			{
				Description: "Look up an entity",
				Command:     `vertex call 'svc.entity.*.info' --body '{"entity_id": "ent-1"}'`,
			},
			{
				Description: "Send a request body from a file",
				Command:     "vertex call 'svc.account.*.transfer_internal' --body-file transfer.jsonc",
			},
		},
		Flags: func() *pflag.FlagSet {
			params = callParams{}
			return cli.FlagsFromParams("call", &params)
		},
		Run: func(args []string) error {
			return env.call(params, args)
		},
	}
}

func (env *Environment) call(params callParams, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("call takes exactly one subject template, got %d arguments", len(args))
	}
	template, err := subject.Parse(args[0])
	if err != nil {
		return err
	}
	body, err := env.readBody(params)
	if err != nil {
		return err
	}

	s, err := env.open(params.globalParams, "call")
	if err != nil {
		return err
	}
	defer s.Close()

	subjectParams := params.Params
	if len(subjectParams) == 0 && template.Wildcards() == 1 {
		subjectParams = []string{s.client.PartnerID()}
	}

	invoker := s.client.Invoker()
	var reply json.RawMessage
	if invoker.Codec().Name() == codec.JSON.Name() {
		if err := invoker.Invoke(env.Context, template, subjectParams, body, &reply); err != nil {
			return err
		}
	} else {
		// Other codecs carry decoded values, not JSON text.
		var request, decoded any
		if err := json.Unmarshal(body, &request); err != nil {
			return fmt.Errorf("decoding request body: %w", err)
		}
		if err := invoker.Invoke(env.Context, template, subjectParams, request, &decoded); err != nil {
			return err
		}
		if decoded != nil {
			if reply, err = json.Marshal(decoded); err != nil {
				return fmt.Errorf("formatting %s reply: %w", invoker.Codec().Name(), err)
			}
		}
	}
	if len(bytes.TrimSpace(reply)) == 0 {
		reply = json.RawMessage("{}")
	}

	var indented bytes.Buffer
	if err := json.Indent(&indented, reply, "", "  "); err != nil {
		return fmt.Errorf("formatting reply: %w", err)
	}
	indented.WriteByte('\n')
	_, err = indented.WriteTo(env.Stdout)
	return err
}

// readBody returns the request body as strict JSON. An absent body is
// an empty object.
func (env *Environment) readBody(params callParams) (json.RawMessage, error) {
	var source []byte
	switch {
	case params.Body != "" && params.BodyFile != "":
		return nil, errors.New("--body and --body-file are mutually exclusive")
	case params.Body != "":
		source = []byte(params.Body)
	case params.BodyFile == "-":
		data, err := io.ReadAll(env.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading body from stdin: %w", err)
		}
		source = data
	case params.BodyFile != "":
		data, err := os.ReadFile(params.BodyFile)
		if err != nil {
			return nil, fmt.Errorf("reading body: %w", err)
		}
		source = data
	default:
		return json.RawMessage("{}"), nil
	}

	body := jsonc.ToJSON(source)
	if !json.Valid(body) {
		return nil, errors.New("request body is not valid JSON")
	}
	return json.RawMessage(body), nil
}
