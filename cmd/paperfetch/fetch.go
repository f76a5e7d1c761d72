// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gookit/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/paperfetch/internal/catalog"
	"github.com/pdiddy/paperfetch/internal/fetch"
	"github.com/pdiddy/paperfetch/internal/metadata"
	"github.com/pdiddy/paperfetch/internal/pipeline"
	"github.com/pdiddy/paperfetch/pkg/types"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <identifier>",
	Short: "Download an arXiv paper and print its normalized record",
	Long: `Fetch looks up one arXiv identifier (e.g. 2106.12345), downloads the PDF
into the PDF directory, and prints the resulting record: pdf, title, arxiv_id,
authors, doi, and description. The PDF is downloaded again on every run.

With --processor the identifier is first placed on a record under arxiv_id and
the fetch stage runs in its processor form, as it would behind an upstream
stage.`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().String("pdf-dir", "", "directory for downloaded PDFs (default papers/pdf)")
	fetchCmd.Flags().String("metadata-dir", "", "directory for metadata sidecars (default papers/metadata)")
	fetchCmd.Flags().String("metadata-format", "", "sidecar format: none, yaml, or sqlite (default none)")
	fetchCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	fetchCmd.Flags().Bool("processor", false, "run the stage in processor form behind a seed record")
	fetchCmd.Flags().Bool("json", false, "print the record as JSON")

	_ = viper.BindPFlag("fetch.pdf_dir", fetchCmd.Flags().Lookup("pdf-dir"))
	_ = viper.BindPFlag("fetch.metadata_dir", fetchCmd.Flags().Lookup("metadata-dir"))
	_ = viper.BindPFlag("fetch.metadata_format", fetchCmd.Flags().Lookup("metadata-format"))
	_ = viper.BindPFlag("fetch.timeout", fetchCmd.Flags().Lookup("timeout"))

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	processor, _ := cmd.Flags().GetBool("processor")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	sink, err := metadata.Open(cfg.Fetch.MetadataFormat, cfg.Fetch.MetadataDir)
	if err != nil {
		return err
	}
	opts := []fetch.Option{fetch.WithLogger(log)}
	if sink != nil {
		defer sink.Close()
		opts = append(opts, fetch.WithMetadataWriter(sink))
	}

	client := &http.Client{Timeout: cfg.Fetch.Timeout}
	stage := fetch.New(catalog.NewArxiv(client, cfg.Fetch.HTTPConfig, log), cfg.Fetch, opts...)

	var p *pipeline.Pipeline
	if processor {
		p, err = pipeline.New(log, pipeline.Seed{Field: types.FieldArxivID}, stage)
	} else {
		p, err = pipeline.New(log, stage)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	rec, err := p.Run(cmd.Context(), args[0])
	if err != nil {
		fmt.Fprintf(out, "%s %s (%v)\n", color.Red.Sprint("failed:"), args[0], err)
		return err
	}

	if jsonOutput {
		return printRecordJSON(out, rec)
	}
	printRecord(out, args[0], rec)
	log.Debug("fetch finished", zap.String("pipeline", p.Describe()))
	return nil
}

func printRecord(w io.Writer, identifier string, rec *types.Record) {
	fmt.Fprintf(w, "%s %s\n", color.Green.Sprint("fetched:"), identifier)
	for _, f := range rec.Fields() {
		fmt.Fprintf(w, "  %-12s %s\n", f.Name+":", f.Value)
	}
}

func printRecordJSON(w io.Writer, rec *types.Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rec.Map())
}
