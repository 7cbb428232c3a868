package update

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"

	"github.com/Tunhoclaptrinh/Sen-App/internal/cmd/base"
	"github.com/Tunhoclaptrinh/Sen-App/internal/services"
	"github.com/Tunhoclaptrinh/Sen-App/pkg/resource"
)

type Command struct {
	*base.Command

	body base.BodyFlags
}

func (c *Command) Synopsis() string {
	return "Replace one or more resources"
}

func (c *Command) Help() string {
	return `Usage: sen update -resource=<name> (-file=<path> | -data=<json>) [<id>]

  Replace the resource <id> with the JSON body and print the result.

  Without an ID the body must be a JSON array of objects, each carrying its
  own "id"; they are updated concurrently and the command fails if any
  update fails.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("update", flag.ContinueOnError))

	c.ResourceFlags(f)
	c.body.Register(f)

	return f
}

func (c *Command) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	if f.NArg() > 1 {
		c.UI.Error("at most one resource ID can be given")
		return 1
	}

	body, err := c.body.Read(c.FS())
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	var updates []resource.Update[string]
	if f.NArg() == 0 {
		updates, err = batchUpdates(body)
		if err != nil {
			c.UI.Error(err.Error())
			return 1
		}
	}

	svc, err := c.Service()
	if err != nil {
		return c.Fail("initializing client", err)
	}

	if f.NArg() == 1 {
		updated, err := svc.Update(c.Ctx(), f.Arg(0), body)
		if err != nil {
			return c.Fail("updating resource", err)
		}
		return c.Output(updated)
	}

	updated, err := svc.BatchUpdate(c.Ctx(), updates)
	if err != nil {
		return c.Fail("updating resources", err)
	}
	return c.Output(updated)
}

// batchUpdates splits a JSON array of records into updates keyed by each
// record's "id".
func batchUpdates(body json.RawMessage) ([]resource.Update[string], error) {
	if !base.IsArray(body) {
		return nil, fmt.Errorf("a resource ID is required unless the body is a JSON array")
	}

	// Numbers stay json.Number so large IDs keep their integer form.
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var records []services.Record
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("error decoding body: %w", err)
	}

	updates := make([]resource.Update[string], 0, len(records))
	for i, rec := range records {
		id, ok := rec["id"]
		if !ok || id == nil {
			return nil, fmt.Errorf("element %d has no id", i)
		}
		updates = append(updates, resource.Update[string]{ID: fmt.Sprint(id), Data: rec})
	}
	return updates, nil
}
