package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/JonMunkholm/partconfig/internal/core"
	"github.com/spf13/cobra"
)

// featureFlags builds flags from --flag and --no-standard.
func featureFlags() (core.FeatureFlags, error) {
	f := core.DefaultFlags()
	f.IncludeStandard = !noStandard
	for _, name := range flagNames {
		if !f.SetFlag(name, true) {
			return f, fmt.Errorf("unknown flag %q: expected one of %s", name, flagList())
		}
	}
	return f, nil
}

func materialSelection() core.MaterialSelection {
	return core.MaterialSelection{Type: materialType, Prefix: materialPrefix, Name: materialName}
}

// parseAttrs turns name=value pairs into a map.
func parseAttrs(pairs []string) (map[string]string, error) {
	attrs := make(map[string]string, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid attribute %q: expected name=value", p)
		}
		attrs[strings.TrimSpace(name)] = value
	}
	return attrs, nil
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	flags, err := featureFlags()
	if err != nil {
		return err
	}
	attrs, err := parseAttrs(attrPairs)
	if err != nil {
		return err
	}

	var mode core.Mode
	if modeName != "" {
		if mode, err = core.ParseMode(modeName); err != nil {
			return err
		}
	}

	return withApp(cmd.Context(), func(a *app) error {
		res, err := a.service.Generate(cmd.Context(), core.Request{
			Part:       partKey,
			Item:       itemCode,
			Mode:       mode,
			Attributes: attrs,
			Flags:      flags,
			Material:   materialSelection(),
			Drawing:    drawing,
			Catalog:    catalogCode,
			SpareClass: spareClass,
		})
		if err != nil {
			return userError(err)
		}

		for _, w := range res.Warnings {
			fmt.Fprintln(cmd.ErrOrStderr(), "warning:", w.Error())
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			if err := printJSON(out, res); err != nil {
				return err
			}
		} else {
			printResult(out, res)
		}

		if mode == "" {
			return nil
		}
		path, err := a.service.DataLoad(mode, itemCode, res.Record)
		if err != nil {
			return userError(err)
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "wrote", path)
		return nil
	})
}

func runQuality(cmd *cobra.Command, _ []string) error {
	flags, err := featureFlags()
	if err != nil {
		return err
	}

	return withApp(cmd.Context(), func(a *app) error {
		asm := a.service.Assemble(flags, materialSelection())
		out := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(out, map[string]any{
				"tags":         asm.Tags,
				"tag_string":   asm.TagString(),
				"quality_text": asm.QualityText(),
			})
		}
		fmt.Fprintln(out, asm.TagString())
		if text := asm.QualityText(); text != "" {
			fmt.Fprintln(out)
			fmt.Fprintln(out, text)
		}
		return nil
	})
}

func runParts(cmd *cobra.Command, _ []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tGROUP\tLABEL\tTEMPLATE\tCATEGORY\tATTRIBUTES")
	for _, def := range core.All() {
		names := make([]string, len(def.Attributes))
		for i, a := range def.Attributes {
			names[i] = a.Name
			if a.Required {
				names[i] += "*"
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s.%s\t%s\n",
			def.Info.Key, def.Info.Group, def.Info.Label, def.Info.Template,
			def.Info.ERPL1, def.Info.ERPL2, strings.Join(names, ", "))
	}
	return w.Flush()
}

func printResult(w io.Writer, res *core.Result) {
	fmt.Fprintln(w, res.Record.Description)
	fmt.Fprintln(w)
	fmt.Fprintln(w, res.Assembly.QualityText())
	if res.Record.FPDMaterialCode != "" {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s: %s\n", core.FieldFPDMaterialCode, res.Record.FPDMaterialCode)
	}
	fmt.Fprintf(w, "%s: %s\n", core.FieldToSupplier, res.Record.ToSupplier)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// userError prefixes err with its user facing message and code.
func userError(err error) error {
	if !core.IsUserFacing(err) {
		return err
	}
	return fmt.Errorf("%s: %w", core.FormatUserError(err), err)
}
