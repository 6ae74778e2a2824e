package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lingloft/lingsite"
	"github.com/lingloft/lingsite/site"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	var cfgPath string

	root := &cobra.Command{
		Use:          "lingsite",
		Short:        "Team site server with client-side page switching",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default ./lingsite.yaml if present)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the site and its JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := lingsite.LoadConfig(cfgPath)
			if err != nil {
				return err
			}
			logger, err := lingsite.NewLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			s, err := loadSite(cfg.DataFile)
			if err != nil {
				logger.Error("site data rejected", zap.String("data_file", cfg.DataFile), zap.Error(err))
				return err
			}

			app := lingsite.New(cfg, s, lingsite.WithLogger(logger))
			defer func() {
				if err := app.Close(); err != nil {
					logger.Warn("close", zap.Error(err))
				}
			}()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return app.Start(ctx)
		},
	}

	var out, page string
	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "Write the prerendered document to a file or stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := lingsite.LoadConfig(cfgPath)
			if err != nil {
				return err
			}
			s, err := loadSite(cfg.DataFile)
			if err != nil {
				return err
			}
			if page == "" {
				page = s.Registry.DefaultID()
			}
			var w io.Writer = cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return lingsite.WriteDocument(cmd.Context(), w, s, page, cfg.Script)
		},
	}
	renderCmd.Flags().StringVarP(&out, "output", "o", "", "output file (default stdout)")
	renderCmd.Flags().StringVarP(&page, "page", "p", "", "page to render (default: the default page)")

	resolveCmd := &cobra.Command{
		Use:   "resolve <page>",
		Short: "Print the resolved metadata of a page as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := lingsite.LoadConfig(cfgPath)
			if err != nil {
				return err
			}
			s, err := loadSite(cfg.DataFile)
			if err != nil {
				return err
			}
			meta, err := lingsite.ResolvePage(s, args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(meta)
		},
	}

	pagesCmd := &cobra.Command{
		Use:   "pages",
		Short: "List registered pages in menu order",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := lingsite.LoadConfig(cfgPath)
			if err != nil {
				return err
			}
			s, err := loadSite(cfg.DataFile)
			if err != nil {
				return err
			}
			for _, p := range s.Registry.All() {
				marker := " "
				if s.Registry.IsDefault(p.ID) {
					marker = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\t%s\n", marker, p.ID, p.DisplayTitle())
			}
			return nil
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the lingsite version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "lingsite %s\n", version)
		},
	}

	root.AddCommand(serveCmd, renderCmd, resolveCmd, pagesCmd, versionCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadSite(dataFile string) (*site.Site, error) {
	if dataFile == "" {
		return site.Default()
	}
	return site.LoadFile(dataFile)
}
