package main

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "genbridge",
		Short:         "GenBridge - client toolkit for generative imaging and stock APIs",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.setup(cmd.Context())
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "path to YAML config file")
	pf.StringVar(&a.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	pf.StringVar(&a.metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")
	pf.StringVar(&a.token, "token", "", "IMS access token (default $GENBRIDGE_TOKEN)")
	pf.StringVar(&a.apiKey, "api-key", "", "API key / client id (default $GENBRIDGE_API_KEY)")

	root.AddCommand(
		newAPIsCmd(a),
		newSummarizeCmd(a),
		newStockCmd(a),
		newGenerateCmd(a),
		newFireflyCmd(a),
		newJobsCmd(a),
		newCacheCmd(a),
		newMigrateCmd(a),
		newVersionCmd(),
	)
	return root
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
