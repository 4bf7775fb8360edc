package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/solen/mdkit/internal/cache"
	"github.com/solen/mdkit/internal/present/format"
	"github.com/solen/mdkit/internal/render"
	"github.com/solen/mdkit/internal/wire"
	"github.com/solen/mdkit/pkg/markdown"
)

type convertFlags struct {
	fullPage bool
	style    string
	output   string
	out      string
	title    string

	autoHyperlink  bool
	autoNewlines   bool
	linkEmails     bool
	strictEmphasis bool
	suffix         string
}

func newConvertCmd() *cobra.Command {
	var f convertFlags

	cmd := &cobra.Command{
		Use:   "convert [files...]",
		Short: "Convert Markdown to HTML (stdin when no files given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)

			opts := app.Conv.Options()
			applyOptionFlags(cmd, &opts, &f)
			conv := markdown.New(opts)

			w := cmd.OutOrStdout()
			if f.out != "" {
				file, err := os.Create(f.out)
				if err != nil {
					return err
				}
				defer file.Close()
				w = file
			}

			results := make([]format.Result, 0, len(args)+1)
			if len(args) == 0 {
				args = []string{"-"}
			}
			for _, name := range args {
				res, err := convertOne(cmd, app, conv, opts, name, &f)
				if err != nil {
					return err
				}
				results = append(results, res)
			}

			switch f.output {
			case "json":
				if len(results) == 1 {
					return format.WriteJSONResult(w, results[0], true)
				}
				return format.WriteJSONResults(w, results, true)
			case "html", "":
				for _, res := range results {
					body := res.Fragment
					if f.fullPage {
						body = res.Page
					}
					if err := format.WriteHTML(w, body); err != nil {
						return err
					}
				}
				return nil
			default:
				return fmt.Errorf("unknown output format %q (want html or json)", f.output)
			}
		},
	}

	cmd.Flags().BoolVar(&f.fullPage, "full-page", false, "emit a standalone HTML page instead of a fragment")
	cmd.Flags().StringVar(&f.style, "style", "", "CSS file for --full-page (overrides style_path)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "html", "output format: html|json")
	cmd.Flags().StringVar(&f.out, "out", "", "write to file instead of stdout")
	cmd.Flags().StringVar(&f.title, "title", "", "page title for --full-page (defaults to the file name)")

	cmd.Flags().BoolVar(&f.autoHyperlink, "auto-hyperlink", true, "link bare URLs")
	cmd.Flags().BoolVar(&f.autoNewlines, "auto-newlines", false, "treat every newline as a hard break")
	cmd.Flags().BoolVar(&f.linkEmails, "link-emails", true, "obfuscate and link <email> addresses")
	cmd.Flags().BoolVar(&f.strictEmphasis, "strict-emphasis", true, "require non-word boundaries around emphasis")
	cmd.Flags().StringVar(&f.suffix, "empty-element-suffix", "", `void element closer (" />" or ">")`)

	return cmd
}

// applyOptionFlags overrides configured converter options with any flag
// the user set explicitly.
func applyOptionFlags(cmd *cobra.Command, opts *markdown.Options, f *convertFlags) {
	if cmd.Flags().Changed("auto-hyperlink") {
		opts.AutoHyperlink = f.autoHyperlink
	}
	if cmd.Flags().Changed("auto-newlines") {
		opts.AutoNewlines = f.autoNewlines
	}
	if cmd.Flags().Changed("link-emails") {
		opts.LinkEmails = f.linkEmails
	}
	if cmd.Flags().Changed("strict-emphasis") {
		opts.StrictBoldItalic = f.strictEmphasis
	}
	if f.suffix != "" {
		opts.EmptyElementSuffix = f.suffix
	}
}

func convertOne(cmd *cobra.Command, app *wire.App, conv *markdown.Converter, opts markdown.Options, name string, f *convertFlags) (format.Result, error) {
	var data []byte
	var err error
	source := name
	if name == "-" {
		source = "stdin"
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return format.Result{}, fmt.Errorf("read %s: %w", source, err)
	}

	key := cache.Key(data, opts)
	res := format.Result{
		Source:    source,
		InputHash: key,
		Options:   cache.Fingerprint(opts),
	}

	if app.Cache != nil {
		if frag, err := app.Cache.Get(cmd.Context(), key); err == nil {
			res.Fragment = frag
			res.Cached = true
		}
	}
	if !res.Cached {
		res.Fragment = conv.Transform(string(data))
		if app.Cache != nil {
			if err := app.Cache.Put(cmd.Context(), key, res.Fragment); err != nil {
				app.Log.Printf("cache put: %v", err)
			}
		}
	}

	if f.fullPage || f.output == "json" {
		title := f.title
		if title == "" {
			title = filepath.Base(source)
		}
		css, err := loadStylesheet(app, f.style)
		if err != nil {
			return format.Result{}, err
		}
		if f.fullPage {
			res.Page = render.ComposePage(title, css, res.Fragment)
		}
	}
	return res, nil
}

// loadStylesheet resolves the CSS source: the --style flag, then the
// configured style_path, then the built-in default (empty string, which
// ComposePage substitutes).
func loadStylesheet(app *wire.App, override string) (string, error) {
	path := override
	if path == "" {
		path = app.Cfg.GetString("style_path")
	}
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("stylesheet: %w", err)
	}
	return string(data), nil
}
