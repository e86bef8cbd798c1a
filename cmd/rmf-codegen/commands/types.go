package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v4"

	"github.com/markkovari/rmf-codegen/model"
	"github.com/markkovari/rmf-codegen/plugins"
	"github.com/markkovari/rmf-codegen/query"
	"github.com/markkovari/rmf-codegen/types"
)

// Output formats of the types command.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// typeRow is one resolved model type.
type typeRow struct {
	Name       string `json:"name" yaml:"name"`
	Kind       string `json:"kind" yaml:"kind"`
	Descriptor string `json:"descriptor" yaml:"descriptor"`
	Package    string `json:"package,omitempty" yaml:"package,omitempty"`
}

func newTypesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "types [api.yaml]",
		Short: "List the model types and their resolved descriptors",
		Long: `Types resolves every declared model type the way a generation run
would and prints its kind, descriptor and package.

-l selects the plugin whose base types apply to built-in types.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.apiPath(args)
			if err != nil {
				return err
			}
			format, _ := cmd.Flags().GetString("format")
			language, _ := cmd.Flags().GetString("language")
			return a.listTypes(cmd.OutOrStdout(), api, language, format)
		},
	}
	cmd.Flags().StringP("language", "l", "", "resolve built-in types with this plugin's base types")
	cmd.Flags().StringP("format", "f", FormatText, "output format: text, json or yaml")
	return cmd
}

func (a *app) listTypes(w io.Writer, path, language, format string) error {
	api, err := model.LoadWithOptions(model.WithFilePath(path), model.WithLogger(a.logger))
	if err != nil {
		return err
	}

	base := types.DefaultBaseTypes()
	var custom map[string]types.Descriptor
	if a.file != nil {
		if custom, err = a.file.CustomTypeTable(); err != nil {
			return err
		}
	}
	if language != "" {
		ps, err := plugins.NewRegistry(plugins.Options{}).Build(language)
		if err != nil {
			return err
		}
		base = ps[0].BaseTypes
	}
	packages, _ := types.DerivePackages(types.Packages{
		Base:   a.v.GetString("base-package"),
		Model:  a.v.GetString("model-package"),
		Client: a.v.GetString("client-package"),
		Shared: a.v.GetString("shared-package"),
	}, api.BaseURI)
	resolver := types.NewResolver(types.NewPackageResolver(packages), base, custom, types.NewCache())
	surface := query.New(api, resolver)

	var rows []typeRow
	for _, group := range []struct {
		kind  string
		types []*model.Type
	}{
		{"object", surface.ObjectTypes()},
		{"union", surface.UnionTypes()},
		{"enum", surface.EnumStringTypes()},
		{"pattern", surface.PatternStringTypes()},
		{"scalar", surface.NamedScalarTypes()},
	} {
		for _, t := range group.types {
			d := resolver.Resolve(t)
			rows = append(rows, typeRow{Name: t.Name, Kind: group.kind, Descriptor: d.String(), Package: types.Package(d)})
		}
	}
	return writeRows(w, rows, format)
}

func writeRows(w io.Writer, rows []typeRow, format string) error {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling to json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case FormatYAML:
		data, err := yaml.Marshal(rows)
		if err != nil {
			return fmt.Errorf("marshaling to yaml: %w", err)
		}
		_, err = w.Write(data)
		return err
	case FormatText, "":
		table := pterm.TableData{{"NAME", "KIND", "DESCRIPTOR", "PACKAGE"}}
		for _, r := range rows {
			table = append(table, []string{r.Name, r.Kind, r.Descriptor, r.Package})
		}
		if err := pterm.DefaultTable.WithHasHeader().WithWriter(w).WithData(table).Render(); err != nil {
			return err
		}
		pterm.Fprintln(w, strconv.Itoa(len(rows))+" types")
		return nil
	default:
		return fmt.Errorf("invalid format %q: must be text, json or yaml", format)
	}
}
