package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/ehr/formfill/internal/domain/maternity"
	"github.com/ehr/formfill/internal/formfill"
	"github.com/ehr/formfill/internal/platform/blobstore"
	"github.com/ehr/formfill/internal/platform/db"
	"github.com/ehr/formfill/internal/platform/templates"
)

// cliEnv holds what a one-shot command needs.
type cliEnv struct {
	svc  *maternity.Service
	pool *pgxpool.Pool
}

func (e *cliEnv) Close() {
	if e.pool != nil {
		e.pool.Close()
	}
}

// newCLIEnv builds the service for a CLI command. A non-empty templatePath
// replaces the configured location of docType. Uploaded templates are
// consulted only when DATABASE_URL is set and no override is given.
func newCLIEnv(ctx context.Context, docType, templatePath string) (*cliEnv, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg, os.Stderr)
	env := &cliEnv{}

	var store blobstore.Store
	if cfg.DatabaseURL != "" && templatePath == "" {
		env.pool, err = db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			return nil, err
		}
		store = blobstore.NewPGStore(env.pool, cfg.TemplateMaxBytes)
	}

	router := newRouter(cfg, store, logger)
	if templatePath != "" {
		// Overrides are relative to the working directory, not TEMPLATE_DIR.
		if !templates.IsURL(templatePath) {
			if templatePath, err = filepath.Abs(templatePath); err != nil {
				return nil, err
			}
		}
		router.Locations[docType] = templatePath
	}
	env.svc = newService(cfg, router, logger)
	return env, nil
}

func docTypeArg(cmd *cobra.Command, args []string) error {
	if err := cobra.ExactArgs(1)(cmd, args); err != nil {
		return err
	}
	if !maternity.KnownDocType(args[0]) {
		return fmt.Errorf("unknown document type %q (want one of %s)", args[0], strings.Join(maternity.DocTypes, ", "))
	}
	return nil
}

// readInput reads a file, or stdin when path is "" or "-".
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

// outputPath resolves where a generated document is written. An existing
// directory receives the suggested filename.
func outputPath(out, suggested string) string {
	if out == "" {
		return suggested
	}
	if info, err := os.Stat(out); err == nil && info.IsDir() {
		return filepath.Join(out, suggested)
	}
	return out
}

func writeDocument(w io.Writer, doc *maternity.Document, out string) error {
	path := outputPath(out, doc.Filename)
	if err := os.WriteFile(path, doc.Content, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(w, "Wrote %s (%d fields written, %d warnings)\n", path, len(doc.Written), len(doc.Warnings))
	for _, warn := range doc.Warnings {
		fmt.Fprintf(w, "  warning: %s\n", warn)
	}
	return nil
}

func fillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fill <doc-type>",
		Short: "Fill a JSON or YAML record into its form template",
		Long: "Fill reads a record (JSON or YAML) from --in or stdin, fills the template " +
			"for the document type and writes the PDF. Document types: " + strings.Join(maternity.DocTypes, ", ") + ".",
		Args: docTypeArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, _ := cmd.Flags().GetString("in")
			out, _ := cmd.Flags().GetString("out")
			tpl, _ := cmd.Flags().GetString("template")

			payload, err := readInput(in, cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read record: %w", err)
			}

			ctx := cmd.Context()
			env, err := newCLIEnv(ctx, args[0], tpl)
			if err != nil {
				return err
			}
			defer env.Close()

			doc, err := env.svc.Generate(ctx, args[0], payload)
			if err != nil {
				return err
			}
			return writeDocument(cmd.OutOrStdout(), doc, out)
		},
	}
	cmd.Flags().String("in", "-", "Record file (JSON or YAML); - reads stdin")
	cmd.Flags().String("out", "", "Output file or directory (default: suggested filename)")
	cmd.Flags().String("template", "", "Template path or URL overriding the configured one")
	return cmd
}

func fieldsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fields <doc-type>",
		Short: "List the widgets of a form template",
		Args:  docTypeArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			tpl, _ := cmd.Flags().GetString("template")
			asJSON, _ := cmd.Flags().GetBool("json")

			ctx := cmd.Context()
			env, err := newCLIEnv(ctx, args[0], tpl)
			if err != nil {
				return err
			}
			defer env.Close()

			widgets, err := env.svc.ListFields(ctx, args[0])
			if err != nil {
				return err
			}
			return printWidgets(cmd.OutOrStdout(), widgets, asJSON)
		},
	}
	cmd.Flags().String("template", "", "Template path or URL overriding the configured one")
	cmd.Flags().Bool("json", false, "Print JSON instead of a table")
	return cmd
}

func printWidgets(w io.Writer, widgets []formfill.Widget, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(widgets)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tKIND")
	for _, wd := range widgets {
		fmt.Fprintf(tw, "%s\t%s\n", wd.Name, wd.Kind)
	}
	return tw.Flush()
}

func auditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit <doc-type>",
		Short: "Compare a mapping table with its form template",
		Args:  docTypeArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			tpl, _ := cmd.Flags().GetString("template")
			strict, _ := cmd.Flags().GetBool("strict")

			ctx := cmd.Context()
			env, err := newCLIEnv(ctx, args[0], tpl)
			if err != nil {
				return err
			}
			defer env.Close()

			rep, err := env.svc.Audit(ctx, args[0])
			if err != nil {
				return err
			}
			printAudit(cmd.OutOrStdout(), args[0], rep)
			if strict && !rep.Clean() {
				return fmt.Errorf("template for %s does not match its mapping table", args[0])
			}
			return nil
		},
	}
	cmd.Flags().String("template", "", "Template path or URL overriding the configured one")
	cmd.Flags().Bool("strict", false, "Exit non-zero when mapped fields are missing or mismatched")
	return cmd
}

func printAudit(w io.Writer, docType string, rep *formfill.AuditReport) {
	fmt.Fprintf(w, "Template audit for %s: %d matched, %d missing, %d mismatched, %d unmapped\n",
		docType, rep.Matched, len(rep.Missing), len(rep.Mismatched), len(rep.Unmapped))
	for _, name := range rep.Missing {
		fmt.Fprintf(w, "  missing:    %s\n", name)
	}
	for _, m := range rep.Mismatched {
		fmt.Fprintf(w, "  mismatched: %s (%s value, %s widget)\n", m.Field, m.Format, m.Kind)
	}
	for _, name := range rep.Unmapped {
		fmt.Fprintf(w, "  unmapped:   %s\n", name)
	}
}

func fieldMapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "field-map <doc-type>",
		Short: "Write a copy of the template with every text widget showing its own name",
		Args:  docTypeArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			tpl, _ := cmd.Flags().GetString("template")
			out, _ := cmd.Flags().GetString("out")

			ctx := cmd.Context()
			env, err := newCLIEnv(ctx, args[0], tpl)
			if err != nil {
				return err
			}
			defer env.Close()

			doc, err := env.svc.FieldMap(ctx, args[0])
			if err != nil {
				return err
			}
			return writeDocument(cmd.OutOrStdout(), doc, out)
		},
	}
	cmd.Flags().String("template", "", "Template path or URL overriding the configured one")
	cmd.Flags().String("out", "", "Output file or directory (default: suggested filename)")
	return cmd
}

func templateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Manage uploaded form templates",
	}

	withStore := func(ctx context.Context, fn func(blobstore.Store) error) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required to manage uploaded templates")
		}
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			return err
		}
		defer pool.Close()
		return fn(blobstore.NewPGStore(pool, cfg.TemplateMaxBytes))
	}

	pushCmd := &cobra.Command{
		Use:   "push <doc-type> <file.pdf>",
		Short: "Upload a template, replacing the current one for the document type",
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(2)(cmd, args); err != nil {
				return err
			}
			return docTypeArg(cmd, args[:1])
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			by, _ := cmd.Flags().GetString("by")
			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer f.Close()

			return withStore(cmd.Context(), func(store blobstore.Store) error {
				info, err := store.Put(cmd.Context(), blobstore.TemplateInfo{
					DocType:    args[0],
					FileName:   filepath.Base(args[1]),
					UploadedBy: by,
				}, f)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Stored %s for %s (%d bytes, sha256 %s)\n",
					info.FileName, info.DocType, info.Size, info.Hash)
				return nil
			})
		},
	}
	pushCmd.Flags().String("by", os.Getenv("USER"), "Recorded uploader")
	cmd.AddCommand(pushCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List uploaded templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(store blobstore.Store) error {
				items, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "DOC TYPE\tFILE\tSIZE\tUPLOADED AT\tBY")
				for _, t := range items {
					fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
						t.DocType, t.FileName, t.Size, t.UploadedAt.Format("2006-01-02 15:04:05"), t.UploadedBy)
				}
				return tw.Flush()
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <doc-type>",
		Short: "Remove the uploaded template so the configured location is used again",
		Args:  docTypeArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(store blobstore.Store) error {
				if err := store.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted uploaded template for %s\n", args[0])
				return nil
			})
		},
	})

	return cmd
}
