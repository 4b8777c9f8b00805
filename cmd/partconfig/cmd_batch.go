package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/JonMunkholm/partconfig/internal/core"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// batchFile is the YAML layout of a batch:
//
//	requests:
//	  - part: casing
//	    item: P123
//	    mode: create
//	    attributes: {Model: HPX, Size: 6x8}
//	    flags: {water: true}
//	    material: {type: MISCELLANEOUS, name: SS316}
type batchFile struct {
	Requests []yaml.Node `yaml:"requests"`
}

// readBatch decodes requests from path. Each request starts from the
// default flags, so include_standard is true unless the file says otherwise.
func readBatch(path string) ([]core.Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch: %w", err)
	}

	var bf batchFile
	if err := yaml.Unmarshal(data, &bf); err != nil {
		return nil, fmt.Errorf("parse batch %s: %w", path, err)
	}

	reqs := make([]core.Request, len(bf.Requests))
	for i := range bf.Requests {
		reqs[i].Flags = core.DefaultFlags()
		if err := bf.Requests[i].Decode(&reqs[i]); err != nil {
			return nil, fmt.Errorf("batch request %d (line %d): %w", i+1, bf.Requests[i].Line, err)
		}
	}
	return reqs, nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	reqs, err := readBatch(args[0])
	if err != nil {
		return err
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	valid := make([]core.Request, 0, len(reqs))
	index := make([]int, 0, len(reqs))
	failures := 0
	for i, req := range reqs {
		if err := validate.Struct(req); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "#%d: %s\n", i+1, core.FormatUserError(err))
			failures++
			continue
		}
		valid = append(valid, req)
		index = append(index, i)
	}

	return withApp(cmd.Context(), func(a *app) error {
		items, err := a.service.GenerateBatch(cmd.Context(), valid)
		if err != nil {
			return userError(err)
		}

		out := cmd.OutOrStdout()
		for _, item := range items {
			n := index[item.Index] + 1
			if item.Err != nil {
				failures++
				fmt.Fprintf(cmd.ErrOrStderr(), "#%d: %s\n", n, core.FormatUserError(item.Err))
				slog.Debug("batch item failed", "index", n, "error", item.Err)
				continue
			}
			fmt.Fprintf(out, "#%d\t%s\n", n, item.Result.Record.Description)
			if item.Path != "" {
				fmt.Fprintf(out, "\t-> %s\n", item.Path)
			}
		}

		slog.Info("batch complete", "requests", len(reqs), "failed", failures)
		if failures > 0 {
			return fmt.Errorf("%d of %d requests failed", failures, len(reqs))
		}
		return nil
	})
}
