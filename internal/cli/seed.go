package cli

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"aiinterviewer/internal/app"
	"aiinterviewer/internal/model"
	"aiinterviewer/internal/service"
)

// templateFile is the YAML layout accepted by seed --file
type templateFile struct {
	Templates []model.Template `yaml:"templates"`
}

func newSeedCmd(opts *options) *cobra.Command {
	var (
		files []string
		owner string
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Store the built-in templates and any templates from YAML files",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := app.New(ctx, opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			if err := a.TemplateService.SeedBuiltins(ctx); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "seeded %d built-in templates\n", len(service.BuiltinTemplates))

			for _, path := range files {
				tf, err := readTemplateFile(path)
				if err != nil {
					return err
				}
				for i := range tf.Templates {
					tpl := &tf.Templates[i]
					if err := a.TemplateService.Import(ctx, owner, tpl); err != nil {
						return errors.Wrapf(err, "%s: template %q", path, tpl.ID)
					}
					fmt.Fprintf(out, "imported %s (%s)\n", tpl.ID, tpl.Topic)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&files, "file", "f", nil, "YAML file with a templates list")
	cmd.Flags().StringVar(&owner, "owner", "", "researcher id owning imported templates")
	return cmd
}

func readTemplateFile(path string) (*templateFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read template file")
	}
	var tf templateFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return &tf, nil
}
